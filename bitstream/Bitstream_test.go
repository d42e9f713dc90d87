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

package bitstream

import (
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	values := []struct {
		bits  uint64
		count uint
	}{
		{0x1, 1},
		{0x0, 1},
		{0x3, 2},
		{0x7f, 7},
		{0x7fff, 15},
		{0x3fffffff, 30},
		{0x3ffffffff, 34},
	}

	w, err := NewWriter()
	if err != nil {
		t.Fatalf("Failed to create Writer: %v", err)
	}

	for _, v := range values {
		w.WriteBits(v.bits, v.count)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close Writer: %v", err)
	}

	r, err := NewReader(w.Bytes())
	if err != nil {
		t.Fatalf("Failed to create Reader: %v", err)
	}

	for i, v := range values {
		got, err := r.ReadBits(v.count)
		if err != nil {
			t.Fatalf("ReadBits failed at index %d: %v", i, err)
		}

		mask := uint64(1)<<v.count - 1
		if got != v.bits&mask {
			t.Errorf("ReadBits at index %d: got %#x, expected %#x", i, got, v.bits&mask)
		}
	}
}

func TestWriterFlushesPartialByte(t *testing.T) {
	w, err := NewWriter()
	if err != nil {
		t.Fatalf("Failed to create Writer: %v", err)
	}

	w.WriteBits(0x5, 3)

	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close Writer: %v", err)
	}

	if w.Len() != 1 {
		t.Fatalf("Expected exactly one flushed byte, got %d", w.Len())
	}

	if w.Bytes()[0] != 0x5 {
		t.Errorf("Expected zero-padded byte 0x05, got %#x", w.Bytes()[0])
	}
}

func TestWriterPanicsAfterClose(t *testing.T) {
	w, _ := NewWriter()
	w.Close()

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected WriteBits on a closed Writer to panic")
		}
	}()

	w.WriteBits(1, 1)
}

func TestReaderErrorsOnExhaustedStream(t *testing.T) {
	r, err := NewReader([]byte{0xff})
	if err != nil {
		t.Fatalf("Failed to create Reader: %v", err)
	}

	if _, err := r.ReadBits(8); err != nil {
		t.Fatalf("Unexpected error reading the only buffered byte: %v", err)
	}

	if _, err := r.ReadBits(1); err == nil {
		t.Errorf("Expected an error reading past the end of the stream")
	}
}
