/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package io

import (
	"time"

	goio "io"

	zling "github.com/2ndxbridge/zling"
)

// Reader decodes one block at a time from the wrapped stream and
// serves the decoded bytes through the standard io.Reader interface,
// reading ahead by exactly one block so Read never blocks mid-block.
type Reader struct {
	in        goio.Reader
	listeners []zling.Listener
	decoded   []byte
	pos       int
	blockID   int
	eof       bool
	closed    bool
}

// NewReader creates a Reader that decodes framed blocks from 'in'.
func NewReader(in goio.Reader) (*Reader, error) {
	if in == nil {
		return nil, &IOError{msg: "Reader: underlying stream is nil", code: zling.ERR_OPEN_FILE}
	}

	return &Reader{in: in}, nil
}

// AddListener registers an event listener, returning false if it was
// already registered.
func (this *Reader) AddListener(bl zling.Listener) bool {
	for _, l := range this.listeners {
		if l == bl {
			return false
		}
	}

	this.listeners = append(this.listeners, bl)
	return true
}

func (this *Reader) notify(evtType int, size int64) {
	if len(this.listeners) == 0 {
		return
	}

	evt := zling.NewEvent(evtType, this.blockID, size, time.Time{})

	for _, l := range this.listeners {
		l.ProcessEvent(evt)
	}
}

// Read serves decoded bytes, pulling and decoding the next block from
// the wrapped stream whenever the current one is exhausted.
func (this *Reader) Read(p []byte) (int, error) {
	if this.closed {
		return 0, &IOError{msg: "Reader: stream closed", code: zling.ERR_READ_FILE}
	}

	if this.pos >= len(this.decoded) {
		if this.eof {
			return 0, goio.EOF
		}

		if err := this.fillBlock(); err != nil {
			return 0, err
		}

		if this.pos >= len(this.decoded) {
			return 0, goio.EOF
		}
	}

	n := copy(p, this.decoded[this.pos:])
	this.pos += n
	return n, nil
}

func (this *Reader) fillBlock() error {
	header := make([]byte, headerSize)

	if _, err := goio.ReadFull(this.in, header); err != nil {
		if err == goio.EOF || err == goio.ErrUnexpectedEOF {
			this.eof = true
			return nil
		}

		return &IOError{msg: "Reader: " + err.Error(), code: zling.ERR_READ_FILE}
	}

	h := unmarshalHeader(header)

	if h.olen > BlockSizeOut {
		return &IOError{msg: "Reader: corrupted block header (payload too large)", code: zling.ERR_READ_FILE}
	}

	payload := make([]byte, h.olen)

	if _, err := goio.ReadFull(this.in, payload); err != nil {
		return &IOError{msg: "Reader: truncated block payload: " + err.Error(), code: zling.ERR_READ_FILE}
	}

	this.notify(zling.EVT_BEFORE_POLAR, int64(h.olen))

	out, err := blockDecode(h.rlen, payload)
	if err != nil {
		return &IOError{msg: "Reader: " + err.Error(), code: zling.ERR_PROCESS_BLOCK}
	}

	this.notify(zling.EVT_BLOCK_INFO, int64(len(out)))

	this.decoded = out
	this.pos = 0
	this.blockID++
	return nil
}

// Close marks the reader unavailable for further reads. It does not
// close the underlying stream.
func (this *Reader) Close() error {
	this.closed = true
	return nil
}
