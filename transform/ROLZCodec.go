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

// Package transform implements a Reduced Offset Lempel-Ziv matcher: a
// per-preceding-byte bucket of recently seen contexts, searched with a
// small fixed number of probes, producing a stream of 16-bit tokens
// (literal bytes and match length/index pairs) that the entropy stage
// packs down.
//
// More information about ROLZ at http://ezcodesample.com/rolz/rolz_article.html
package transform

const (
	// BucketItemSize bounds how many match candidates a single
	// preceding-byte bucket remembers; the match index encoded into a
	// token is an offset back into this ring, not an absolute position.
	BucketItemSize = 3600

	// BucketItemHash is the size of the per-bucket hash table keyed by
	// the 4 bytes following the match position.
	BucketItemHash = 1024

	// MatchMinLen is the shortest run a match token can represent.
	MatchMinLen = 4

	// MatchMaxLen is the longest run a match token can represent,
	// sized so 256+MatchMaxLen-MatchMinLen stays within the shared
	// 384-symbol Polar alphabet.
	MatchMaxLen = MatchMinLen + (384 - 256) - 1

	// MatchMaxTry caps how many candidates match inspects per call.
	MatchMaxTry = 8

	// MatchDiscardMinLen raises the acceptance bar for matches whose
	// index lands beyond this ring distance, since such matches cost
	// an extra bit in the packed match index and are rarely worth it
	// at length MatchMinLen.
	MatchDiscardMinLen = 1300
)

// encoderBucket tracks, for one preceding byte value, every recently
// written 4-byte context: a hash-chained suffix list keyed by the next
// 4 bytes, plus the literal position (and an 8-bit collision check) of
// each entry.
type encoderBucket struct {
	suffix [BucketItemSize]uint16
	offset [BucketItemSize]uint32 // low 24 bits: position, high 8 bits: check byte
	hash   [BucketItemHash]uint16
	head   uint16
}

// decoderBucket mirrors encoderBucket but only needs the plain
// position ring: the decoder already knows which entry the encoder
// picked (it is given the match index directly) so it has no need to
// search.
type decoderBucket struct {
	offset [BucketItemSize]uint32
	head   uint16
}

func hashContext(p []byte) uint32 {
	return (uint32(p[0])*31337 + uint32(p[1])*3337 + uint32(p[2])*337 + uint32(p[3])) % BucketItemHash
}

func hashCheck(p []byte) uint32 {
	return (uint32(p[0])*11337 + uint32(p[1])*1337 + uint32(p[2])) & 0xff
}

func ringPrev(head uint16, steps int) uint16 {
	n := int(head) - steps
	if n < 0 {
		n += BucketItemSize
	}
	return uint16(n)
}

func ringDistance(head, node uint16) int {
	d := int(head) - int(node)
	if d < 0 {
		d += BucketItemSize
	}
	return d
}

func findCommonLength(a, b []byte, maxLen int) int {
	n := 0
	for n < maxLen && a[n] == b[n] {
		n++
	}
	return n
}

// RolzEncoder runs the forward ROLZ pass over a single block. It keeps
// one bucket per possible preceding byte, so its state is reset for
// every new block (there is no cross-block context).
type RolzEncoder struct {
	buckets [256]encoderBucket
}

// NewRolzEncoder creates an encoder with empty per-byte buckets.
func NewRolzEncoder() *RolzEncoder {
	return &RolzEncoder{}
}

func (this *RolzEncoder) update(buf []byte, pos int) {
	hash := hashContext(buf[pos:])
	bucket := &this.buckets[buf[pos-1]]

	bucket.head = ringAdvance(bucket.head)
	bucket.suffix[bucket.head] = bucket.hash[hash]
	bucket.offset[bucket.head] = uint32(pos) | hashCheck(buf[pos:])<<24
	bucket.hash[hash] = bucket.head
}

func ringAdvance(head uint16) uint16 {
	head++
	if head == BucketItemSize {
		head = 0
	}
	return head
}

// match searches the bucket keyed by buf[pos-1] for the longest run
// starting at buf[pos] among at most MatchMaxTry hash-chained
// candidates, stopping early once MatchMaxLen is reached. It reports
// whether a run long enough to be worth encoding was found.
func (this *RolzEncoder) match(buf []byte, pos int) (matchIdx, matchLen int, ok bool) {
	maxLen := MatchMinLen - 1
	maxIdx := 0
	hash := hashContext(buf[pos:])
	bucket := &this.buckets[buf[pos-1]]
	node := bucket.hash[hash]

	for i := 0; i < MatchMaxTry; i++ {
		entry := bucket.offset[node]
		offset := int(entry & 0xffffff)
		check := entry >> 24

		if check == hashCheck(buf[pos:]) {
			if buf[pos+maxLen] == buf[offset+maxLen] {
				if l := findCommonLength(buf[pos:], buf[offset:], MatchMaxLen); l > maxLen {
					maxLen = l
					maxIdx = ringDistance(bucket.head, node)

					if maxLen == MatchMaxLen {
						break
					}
				}
			}
		}

		next := bucket.suffix[node]
		if offset <= int(bucket.offset[next]&0xffffff) {
			break
		}
		node = next
	}

	threshold := MatchMinLen
	if maxIdx >= MatchDiscardMinLen {
		threshold++
	}

	if maxLen >= threshold {
		return maxIdx, maxLen, true
	}
	return 0, 0, false
}

// Encode runs the ROLZ pass over ibuf and returns the token stream: a
// literal byte is a value in [0,256); a match is two consecutive
// tokens, 256+matchLen-MatchMinLen followed by the raw match index
// (which can exceed 255, hence the 16-bit token width).
func (this *RolzEncoder) Encode(ibuf []byte) []uint16 {
	tokens := make([]uint16, 0, len(ibuf))
	pos := 0

	if pos < len(ibuf) {
		tokens = append(tokens, uint16(ibuf[pos]))
		pos++
	}

	for pos+MatchMaxLen < len(ibuf) {
		if idx, length, ok := this.match(ibuf, pos); ok {
			tokens = append(tokens, uint16(256+length-MatchMinLen))
			tokens = append(tokens, uint16(idx))
			this.update(ibuf, pos)
			pos += length
		} else {
			tokens = append(tokens, uint16(ibuf[pos]))
			this.update(ibuf, pos)
			pos++
		}
	}

	for pos < len(ibuf) {
		tokens = append(tokens, uint16(ibuf[pos]))
		pos++
	}

	return tokens
}

// RolzDecoder runs the inverse ROLZ pass. Like RolzEncoder its buckets
// hold no cross-block state.
type RolzDecoder struct {
	buckets [256]decoderBucket
}

// NewRolzDecoder creates a decoder with empty per-byte buckets.
func NewRolzDecoder() *RolzDecoder {
	return &RolzDecoder{}
}

func (this *RolzDecoder) update(buf []byte, pos int) {
	bucket := &this.buckets[buf[pos-1]]
	bucket.head = ringAdvance(bucket.head)
	bucket.offset[bucket.head] = uint32(pos)
}

func (this *RolzDecoder) offsetAt(buf []byte, pos, idx int) int {
	bucket := &this.buckets[buf[pos-1]]
	node := ringPrev(bucket.head, idx)
	return int(bucket.offset[node])
}

// Decode expands a token stream produced by RolzEncoder.Encode back
// into the original byte run, writing len(obuf) bytes into obuf (the
// caller must size obuf to the known decompressed length).
func (this *RolzDecoder) Decode(tokens []uint16, obuf []byte) {
	olen := 0
	pos := 0

	for pos < len(tokens) {
		if tokens[pos] < 256 {
			obuf[olen] = byte(tokens[pos])
			if olen > 0 {
				this.update(obuf, olen)
			}
			pos++
			olen++
			continue
		}

		matchLen := int(tokens[pos]) - 256 + MatchMinLen
		pos++
		matchIdx := int(tokens[pos])
		pos++

		matchOffset := olen - this.offsetAt(obuf, olen, matchIdx)
		this.update(obuf, olen)

		for matchLen > 0 {
			obuf[olen] = obuf[olen-matchOffset]
			olen++
			matchLen--
		}
	}
}
