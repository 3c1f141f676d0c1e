/*
 * MIT License
 *
 * Copyright (c) 2026 excavator-link contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package wire encodes and decodes the two fixed-shape frames exchanged by
// the transport: the handshake descriptor and the float32 data frame with
// its CRC-16/CCITT-FALSE trailer. All scalars are packed little-endian.
package wire

import (
	"encoding/binary"
	"math"

	"github.com/fieldrig/excavator-link/crc"
)

// ScalarType is the single-byte tag character advertised in the handshake
// for the scalar type an endpoint emits.
type ScalarType byte

const (
	ScalarI8  ScalarType = 'b'
	ScalarU8  ScalarType = 'B'
	ScalarI16 ScalarType = 'h'
	ScalarU16 ScalarType = 'H'
	ScalarI32 ScalarType = 'i'
	ScalarU32 ScalarType = 'I'
	ScalarI64 ScalarType = 'q'
	ScalarU64 ScalarType = 'Q'
	ScalarF32 ScalarType = 'f'
	ScalarF64 ScalarType = 'd'
)

// String renders the tag as its single wire character.
func (s ScalarType) String() string {
	return string(rune(s))
}

// EncodeDataFrame packs values as little-endian float32 and appends the
// two-byte little-endian CRC-16/CCITT-FALSE trailer computed over the
// packed bytes. The returned slice length is always len(values)*4+2.
func EncodeDataFrame(values []float32) []byte {
	buf := make([]byte, len(values)*4+2)

	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	sum := crc.Checksum16(buf[:len(values)*4])
	binary.LittleEndian.PutUint16(buf[len(values)*4:], sum)

	return buf
}

// DecodeOutcome classifies a received datagram so the receive pipeline can
// increment the matching counter (spec.md §4.6 steps 4-6).
type DecodeOutcome uint8

const (
	// DecodeOK means the datagram passed the CRC and shape checks and values
	// holds numInputs decoded float32s.
	DecodeOK DecodeOutcome = iota
	// DecodeShapeInvalid means the datagram was shorter than 2 bytes, or its
	// CRC-verified payload length did not equal numInputs*4.
	DecodeShapeInvalid
	// DecodeCorrupted means the datagram was at least 2 bytes but its CRC
	// trailer did not match the computed CRC of the payload.
	DecodeCorrupted
)

// DecodeDataFrame implements spec.md §4.6 steps 4-6: it classifies datagram
// and, only on DecodeOK, decodes the payload into numInputs little-endian
// float32 values.
func DecodeDataFrame(datagram []byte, numInputs int) (values []float32, outcome DecodeOutcome) {
	if len(datagram) < 2 {
		return nil, DecodeShapeInvalid
	}

	payload := datagram[:len(datagram)-2]
	trailer := binary.LittleEndian.Uint16(datagram[len(datagram)-2:])

	if !crc.Verify(payload, trailer) {
		return nil, DecodeCorrupted
	}

	if len(payload) != numInputs*4 {
		return nil, DecodeShapeInvalid
	}

	values = make([]float32, numInputs)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
	}

	return values, DecodeOK
}
