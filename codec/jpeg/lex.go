/*
NAME
  lex.go

DESCRIPTION
  lex.go provides a lexer to extract separate JPEG images from a JPEG stream.
  This could either be a series of descrete JPEG images, or an MJPEG stream.

AUTHOR
  Dan Kortschak <dan@ausocean.org>
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package jpeg provides lexing of MJPEG streams into JPEG frames.
package jpeg

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/ausocean/utils/logging"
)

// MaxFrameSize is the largest frame the lexer will buffer.
const MaxFrameSize = 16 << 20

var noDelay = make(chan time.Time)

func init() {
	close(noDelay)
}

// Lexer splits a stream of concatenated JPEG images into frames.
type Lexer struct {
	log    logging.Logger
	delay  time.Duration
	frames uint64
}

// NewLexer returns a Lexer that performs successive writes not earlier than
// delay apart.
func NewLexer(log logging.Logger, delay time.Duration) *Lexer {
	return &Lexer{log: log, delay: delay}
}

// Frames returns the number of frames written by the lexer.
func (l *Lexer) Frames() uint64 { return l.frames }

// Lex parses JPEG frames read from src into separate writes to dst. It returns
// io.EOF if src ends on a frame boundary and io.ErrUnexpectedEOF if it ends
// within a frame.
func (l *Lexer) Lex(dst io.Writer, src io.Reader) error {
	var tick <-chan time.Time
	if l.delay == 0 {
		tick = noDelay
	} else {
		ticker := time.NewTicker(l.delay)
		defer ticker.Stop()
		tick = ticker.C
	}

	r := bufio.NewReader(src)
	for {
		buf := make([]byte, 2, 4<<10)
		_, err := io.ReadFull(r, buf)
		switch err {
		case nil:
		case io.EOF:
			return io.EOF
		default:
			return err
		}

		if buf[0] != 0xff || buf[1] != 0xd8 {
			return fmt.Errorf("lexer: not JPEG frame start: %#v", buf)
		}

		// Nested SOI/EOI pairs belong to embedded thumbnails.
		depth := 1
		var last byte
		for depth > 0 {
			b, err := r.ReadByte()
			if err != nil {
				if err == io.EOF {
					return io.ErrUnexpectedEOF
				}
				return err
			}
			buf = append(buf, b)
			if len(buf) > MaxFrameSize {
				return fmt.Errorf("lexer: frame exceeds %d bytes", MaxFrameSize)
			}

			if last == 0xff {
				switch b {
				case 0xd8:
					depth++
				case 0xd9:
					depth--
				}
			}
			last = b
		}

		<-tick
		l.log.Debug("writing buf", "len(buf)", len(buf))
		_, err = dst.Write(buf)
		if err != nil {
			return err
		}
		l.frames++
	}
}
