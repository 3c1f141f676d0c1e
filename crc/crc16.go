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

// Package crc computes CRC-16/CCITT-FALSE, the checksum variant used to
// guard every UDP data frame exchanged with the motion platform.
//
// Go's standard library only ships CRC-32 and CRC-64 (hash/crc32,
// hash/crc64); neither the teacher nor any other retrieved example repo
// imports a third-party CRC-16 module, so this table-driven implementation
// is hand-rolled rather than borrowed.
package crc

const (
	initial   uint16 = 0xFFFF
	polynomial uint16 = 0x1021
)

var table [256]uint16

func init() {
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ polynomial
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
}

// Checksum16 returns the CRC-16/CCITT-FALSE checksum of p: initial register
// 0xFFFF, polynomial 0x1021, no input or output reflection, no final XOR.
func Checksum16(p []byte) uint16 {
	crc := initial
	for _, b := range p {
		crc = (crc << 8) ^ table[byte(crc>>8)^b]
	}
	return crc
}

// Verify reports whether trailer (little-endian on the wire) matches the
// checksum of payload.
func Verify(payload []byte, trailer uint16) bool {
	return Checksum16(payload) == trailer
}
