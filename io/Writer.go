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
	"github.com/2ndxbridge/zling/internal"
)

// Writer buffers up to one block's worth of input and, once full (or
// on Close), runs it through blockEncode and writes the framed result
// to the wrapped stream. There is never more than one block's data
// live at a time, matching the single-threaded block model.
type Writer struct {
	out       goio.Writer
	pending   internal.BufferStream
	listeners []zling.Listener
	blockID   int
	closed    bool
}

// NewWriter creates a Writer that frames blocks onto 'out'.
func NewWriter(out goio.Writer) (*Writer, error) {
	if out == nil {
		return nil, &IOError{msg: "Writer: underlying stream is nil", code: zling.ERR_CREATE_FILE}
	}

	return &Writer{out: out, pending: *internal.NewBufferStream()}, nil
}

// AddListener registers an event listener, returning false if it was
// already registered.
func (this *Writer) AddListener(bl zling.Listener) bool {
	for _, l := range this.listeners {
		if l == bl {
			return false
		}
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// Write stages bytes into the current block, flushing a full block to
// the wire as soon as BlockSizeIn bytes have accumulated.
func (this *Writer) Write(p []byte) (int, error) {
	if this.closed {
		return 0, &IOError{msg: "Writer: stream closed", code: zling.ERR_WRITE_FILE}
	}

	written := 0

	for len(p) > 0 {
		room := BlockSizeIn - this.pending.Len()
		chunk := p

		if len(chunk) > room {
			chunk = chunk[:room]
		}

		n, err := this.pending.Write(chunk)
		written += n
		p = p[n:]

		if err != nil {
			return written, &IOError{msg: "Writer: " + err.Error(), code: zling.ERR_WRITE_FILE}
		}

		if this.pending.Len() == BlockSizeIn {
			if err := this.flushBlock(); err != nil {
				return written, err
			}
		}
	}

	return written, nil
}

func (this *Writer) flushBlock() error {
	if this.pending.Len() == 0 {
		return nil
	}

	src := make([]byte, this.pending.Len())
	if _, err := this.pending.Read(src); err != nil {
		return &IOError{msg: "Writer: " + err.Error(), code: zling.ERR_PROCESS_BLOCK}
	}

	this.notify(zling.EVT_BEFORE_ROLZ, int64(len(src)))

	block, err := blockEncode(src)
	if err != nil {
		return &IOError{msg: "Writer: " + err.Error(), code: zling.ERR_PROCESS_BLOCK}
	}

	this.notify(zling.EVT_BLOCK_INFO, int64(len(block)))

	if _, err := this.out.Write(block); err != nil {
		return &IOError{msg: "Writer: " + err.Error(), code: zling.ERR_WRITE_FILE}
	}

	this.pending = *internal.NewBufferStream()
	this.blockID++
	return nil
}

func (this *Writer) notify(evtType int, size int64) {
	if len(this.listeners) == 0 {
		return
	}

	evt := zling.NewEvent(evtType, this.blockID, size, time.Time{})

	for _, l := range this.listeners {
		l.ProcessEvent(evt)
	}
}

// Close flushes any partial block still buffered and marks the writer
// unavailable for further writes. It does not close the underlying
// stream.
func (this *Writer) Close() error {
	if this.closed {
		return nil
	}

	err := this.flushBlock()
	this.closed = true
	return err
}
