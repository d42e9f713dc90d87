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

// Package zling defines the top level interfaces and exit-code
// conventions shared by the zling ROLZ/Polar compressor.
//
// The actual stage implementations live in sub-packages: bitstream
// (LSB-first bit accumulator), entropy (the Polar prefix coder),
// transform (the ROLZ matcher), and io (the block-frame driver that
// ties the two stages together).
package zling

const (
	ERR_MISSING_PARAM = 1
	ERR_INVALID_PARAM = 2
	ERR_OPEN_FILE     = 3
	ERR_CREATE_FILE   = 4
	ERR_READ_FILE     = 5
	ERR_WRITE_FILE    = 6
	ERR_PROCESS_BLOCK = 7
	ERR_UNKNOWN       = 127
)

// InputBitStream is a bitstream reader. Bits are consumed starting
// from the least significant bit of each byte, as written by the
// matching OutputBitStream (see package bitstream).
type InputBitStream interface {
	// ReadBits reads 'count' (in [1..34]) bits from the bitstream and
	// returns them right-justified in the result. Returns an error once
	// the stream runs out of buffered input.
	ReadBits(count uint) (uint64, error)

	// Close makes the bitstream unavailable for further reads.
	Close() error
}

// OutputBitStream is a bitstream writer. Bits are appended starting
// from the least significant bit of the accumulator and flushed to
// whole bytes, LSB first.
type OutputBitStream interface {
	// WriteBits appends the low 'count' (in [1..34]) bits of 'bits' to
	// the bitstream.
	WriteBits(bits uint64, count uint)

	// Close flushes any partially filled byte (zero-padded in the high
	// bits) and makes the bitstream unavailable for further writes.
	Close() error
}
