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
	"bytes"
	"math/rand"
	"testing"

	"github.com/2ndxbridge/zling/entropy"
	"github.com/2ndxbridge/zling/hash"
)

func TestBlockEncodeDecodeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	src := make([]byte, 500000)

	// Biased byte distribution so the Polar tables aren't near-uniform,
	// closer to the data this codec is meant for than pure noise.
	for i := range src {
		if r.Intn(10) < 7 {
			src[i] = byte('a' + r.Intn(6))
		} else {
			src[i] = byte(r.Intn(256))
		}
	}

	block, err := blockEncode(src)
	if err != nil {
		t.Fatalf("blockEncode failed: %v", err)
	}

	h := unmarshalHeader(block[:headerSize])
	dst, err := blockDecode(h.rlen, block[headerSize:])
	if err != nil {
		t.Fatalf("blockDecode failed: %v", err)
	}

	hasher, _ := hash.NewXXHash64(0)
	if hasher.Hash(src) != hasher.Hash(dst) {
		t.Fatalf("decoded block does not match source (len src=%d, len dst=%d)", len(src), len(dst))
	}
}

func TestWriterReaderRoundTripAcrossBlockBoundary(t *testing.T) {
	// Two full blocks plus a partial one, exercising the multi-block
	// framing path end to end through io.Writer/io.Reader.
	src := make([]byte, BlockSizeIn*2+12345)
	r := rand.New(rand.NewSource(99))

	for i := range src {
		src[i] = byte('A' + r.Intn(4))
	}

	var buf bytes.Buffer

	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	if _, err := w.Write(src); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	rd, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	dst := make([]byte, 0, len(src))
	chunk := make([]byte, 65536)

	for {
		n, err := rd.Read(chunk)
		if n > 0 {
			dst = append(dst, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}

	if len(dst) != len(src) {
		t.Fatalf("decoded length %d, expected %d", len(dst), len(src))
	}

	hasher, _ := hash.NewXXHash64(0)
	if hasher.Hash(src) != hasher.Hash(dst) {
		t.Errorf("decoded content does not match source across block boundaries")
	}
}

func TestBlockDecodeRejectsUnusedCode(t *testing.T) {
	// Length table with exactly one non-zero-length symbol (code 0,
	// length 1) only ever fills the even half of the decode table; any
	// bitstream that starts with a 1 bit lands on an unused slot.
	var lengths1, lengths2 [entropy.POLAR_SYMBOLS]uint8
	lengths1[0] = 1

	payload := append(entropy.PackLengthTable(&lengths1), entropy.PackLengthTable(&lengths2)...)
	payload = append(payload, 0x01)

	if _, err := blockDecode(1, payload); err == nil {
		t.Errorf("expected blockDecode to reject a bitstream landing on an unused code")
	}
}

func TestReaderRejectsCorruptedHeader(t *testing.T) {
	header := blockHeader{rlen: 10, olen: BlockSizeOut + 1}
	buf := bytes.NewBuffer(header.marshal())

	rd, err := NewReader(buf)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	p := make([]byte, 16)
	if _, err := rd.Read(p); err == nil {
		t.Errorf("expected an error decoding a header that claims an oversized payload")
	}
}
