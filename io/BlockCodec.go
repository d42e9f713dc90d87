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

// Package io drives one block at a time through the ROLZ transform and
// the Polar entropy coder and frames the result on the wire, adapting
// the pair to the standard io.Reader/io.WriteCloser interfaces.
package io

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/2ndxbridge/zling/bitstream"
	"github.com/2ndxbridge/zling/entropy"
	"github.com/2ndxbridge/zling/internal"
	"github.com/2ndxbridge/zling/transform"
)

const (
	// BlockSizeIn is the largest uncompressed chunk fed to one block.
	BlockSizeIn = 16777216

	// BlockSizeOut bounds one compressed block on the wire; it exists
	// purely as a sanity check against a corrupted header inflating
	// the claimed payload length to something absurd.
	BlockSizeOut = 18000000

	// MatchIdxExBit is how many low bits of a match index are packed
	// as raw extra bits rather than run through the Polar table, since
	// (BucketItemSize >> MatchIdxExBit) must stay under POLAR_SYMBOLS.
	MatchIdxExBit     = 4
	matchIdxExBitMask = 0x0f

	headerSize     = 8
	packedTableLen = entropy.POLAR_SYMBOLS / 2
)

// blockHeader is the 8-byte little-endian (rlen, olen) pair prefixing
// every block on the wire.
type blockHeader struct {
	rlen uint32 // token count produced by the ROLZ stage
	olen uint32 // bytes of payload that follow the header
}

func (h blockHeader) marshal() []byte {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.rlen)
	binary.LittleEndian.PutUint32(buf[4:8], h.olen)
	return buf
}

func unmarshalHeader(buf []byte) blockHeader {
	return blockHeader{
		rlen: binary.LittleEndian.Uint32(buf[0:4]),
		olen: binary.LittleEndian.Uint32(buf[4:8]),
	}
}

// blockEncode runs src through the ROLZ matcher and the Polar coder
// and returns the full on-wire block (header, packed length tables,
// bit stream).
func blockEncode(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("io.blockEncode: empty block")
	}

	start := time.Now()
	tokens := transform.NewRolzEncoder().Encode(src)
	internal.AddROLZTime(time.Since(start))

	start = time.Now()

	var freq1, freq2 [entropy.POLAR_SYMBOLS]uint32

	for i := 0; i < len(tokens); i++ {
		freq1[tokens[i]]++

		if tokens[i] >= 256 {
			i++
			freq2[tokens[i]>>MatchIdxExBit]++
		}
	}

	lengths1 := entropy.BuildLengthTable(&freq1)
	lengths2 := entropy.BuildLengthTable(&freq2)
	codes1 := entropy.BuildCodeTable(&lengths1)
	codes2 := entropy.BuildCodeTable(&lengths2)

	w, err := bitstream.NewWriter()
	if err != nil {
		return nil, fmt.Errorf("io.blockEncode: %w", err)
	}

	for i := 0; i < len(tokens); i++ {
		sym := tokens[i]
		w.WriteBits(uint64(codes1[sym]), uint(lengths1[sym]))

		if sym >= 256 {
			i++
			idx := tokens[i]
			w.WriteBits(uint64(codes2[idx>>MatchIdxExBit]), uint(lengths2[idx>>MatchIdxExBit]))
			w.WriteBits(uint64(idx&matchIdxExBitMask), MatchIdxExBit)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("io.blockEncode: %w", err)
	}

	payload := make([]byte, 0, packedTableLen*2+w.Len())
	payload = append(payload, entropy.PackLengthTable(&lengths1)...)
	payload = append(payload, entropy.PackLengthTable(&lengths2)...)
	payload = append(payload, w.Bytes()...)

	internal.AddPolarTime(time.Since(start))

	header := blockHeader{rlen: uint32(len(tokens)), olen: uint32(len(payload))}
	out := make([]byte, 0, headerSize+len(payload))
	out = append(out, header.marshal()...)
	out = append(out, payload...)
	return out, nil
}

// blockDecode reverses blockEncode: 'payload' is the olen bytes that
// followed the header, and rlen is the token count recovered from it.
func blockDecode(rlen uint32, payload []byte) ([]byte, error) {
	if len(payload) < packedTableLen*2 {
		return nil, fmt.Errorf("io.blockDecode: payload too short for length tables")
	}

	start := time.Now()

	lengths1 := entropy.UnpackLengthTable(payload[0:packedTableLen])
	lengths2 := entropy.UnpackLengthTable(payload[packedTableLen : packedTableLen*2])
	codes1 := entropy.BuildCodeTable(&lengths1)
	codes2 := entropy.BuildCodeTable(&lengths2)
	decodeTable1 := entropy.BuildDecodeTable(&lengths1, &codes1)
	decodeTable2 := entropy.BuildDecodeTable(&lengths2, &codes2)

	r, err := bitstream.NewReader(payload[packedTableLen*2:])
	if err != nil {
		return nil, fmt.Errorf("io.blockDecode: %w", err)
	}

	tokens := make([]uint16, 0, rlen)

	for uint32(len(tokens)) < rlen {
		sym, length, ok := entropy.DecodeSymbol(&decodeTable1, r.PeekBits(entropy.POLAR_MAXLEN))
		if !ok {
			return nil, fmt.Errorf("io.blockDecode: corrupted stream (unused literal/match-length code)")
		}
		r.SkipBits(length)
		tokens = append(tokens, uint16(sym))

		if sym >= 256 {
			idxHigh, length2, ok := entropy.DecodeSymbol(&decodeTable2, r.PeekBits(entropy.POLAR_MAXLEN))
			if !ok {
				return nil, fmt.Errorf("io.blockDecode: corrupted stream (unused match-index code)")
			}
			r.SkipBits(length2)
			idxLow := r.PeekBits(MatchIdxExBit)
			r.SkipBits(MatchIdxExBit)
			tokens = append(tokens, uint16(idxHigh)<<MatchIdxExBit|uint16(idxLow))
		}
	}

	internal.AddPolarTime(time.Since(start))

	start = time.Now()
	dec := transform.NewRolzDecoder()
	out := make([]byte, decodedLength(tokens))
	dec.Decode(tokens, out)
	internal.AddROLZTime(time.Since(start))

	return out, nil
}

// decodedLength walks the token stream to count how many output bytes
// it expands to, so Decode can be handed a correctly sized buffer
// up front instead of growing one incrementally.
func decodedLength(tokens []uint16) int {
	n := 0

	for i := 0; i < len(tokens); i++ {
		if tokens[i] < 256 {
			n++
			continue
		}

		n += int(tokens[i]) - 256 + transform.MatchMinLen
		i++
	}

	return n
}
