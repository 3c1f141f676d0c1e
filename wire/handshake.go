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

package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// HandshakeSize is the fixed byte count of a handshake descriptor. Any
// received datagram of a different length is a handshake failure.
const HandshakeSize = 7

// Handshake is the 7-byte descriptor exchanged once per session
// (spec.md §4.2, §6): num_outputs and num_inputs as seen by the sender,
// the sender's scalar type tag, and the sender's configured max age,
// truncated to a uint16 of seconds.
type Handshake struct {
	NumOutputs uint16
	NumInputs  uint16
	SendType   ScalarType
	MaxAgeSec  uint16
}

// Encode packs h into the fixed 7-byte wire layout.
func (h Handshake) Encode() []byte {
	buf := make([]byte, HandshakeSize)
	binary.LittleEndian.PutUint16(buf[0:2], h.NumOutputs)
	binary.LittleEndian.PutUint16(buf[2:4], h.NumInputs)
	buf[4] = byte(h.SendType)
	binary.LittleEndian.PutUint16(buf[5:7], h.MaxAgeSec)
	return buf
}

// DecodeHandshake parses a received handshake datagram. A byte count other
// than HandshakeSize is a fatal handshake failure (spec.md §4.5, §8).
func DecodeHandshake(datagram []byte) (Handshake, error) {
	if len(datagram) != HandshakeSize {
		return Handshake{}, fmt.Errorf("wire: handshake frame must be %d bytes, got %d", HandshakeSize, len(datagram))
	}

	return Handshake{
		NumOutputs: binary.LittleEndian.Uint16(datagram[0:2]),
		NumInputs:  binary.LittleEndian.Uint16(datagram[2:4]),
		SendType:   ScalarType(datagram[4]),
		MaxAgeSec:  binary.LittleEndian.Uint16(datagram[5:7]),
	}, nil
}

// TruncateMaxAge reproduces the source program's lossy cast of a
// configured max-age duration (seconds, as a float64) into the wire's
// uint16 seconds field. Values above 65535 silently wrap, matching
// spec.md §9's first open question: the truncating cast is preserved
// as-is rather than saturated or rejected.
func TruncateMaxAge(seconds float64) uint16 {
	return uint16(uint64(math.Trunc(seconds)) & 0xFFFF)
}
