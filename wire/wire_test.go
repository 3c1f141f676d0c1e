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

package wire_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fieldrig/excavator-link/wire"
)

func TestWire(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Wire Suite")
}

var allScalarTypes = []wire.ScalarType{
	wire.ScalarI8, wire.ScalarU8,
	wire.ScalarI16, wire.ScalarU16,
	wire.ScalarI32, wire.ScalarU32,
	wire.ScalarI64, wire.ScalarU64,
	wire.ScalarF32, wire.ScalarF64,
}

var _ = Describe("Handshake", func() {
	It("round-trips every scalar type tag through Encode/DecodeHandshake", func() {
		for _, tag := range allScalarTypes {
			h := wire.Handshake{
				NumOutputs: 3,
				NumInputs:  5,
				SendType:   tag,
				MaxAgeSec:  120,
			}

			encoded := h.Encode()
			Expect(encoded).To(HaveLen(wire.HandshakeSize))

			decoded, err := wire.DecodeHandshake(encoded)
			Expect(err).ToNot(HaveOccurred())
			Expect(decoded).To(Equal(h))
		}
	})

	It("fails for any byte count other than 7", func() {
		for _, n := range []int{0, 1, 6, 8, 14} {
			_, err := wire.DecodeHandshake(make([]byte, n))
			Expect(err).To(HaveOccurred())
		}
	})
})

var _ = Describe("TruncateMaxAge", func() {
	It("passes through values within uint16 range", func() {
		Expect(wire.TruncateMaxAge(30)).To(Equal(uint16(30)))
		Expect(wire.TruncateMaxAge(65535)).To(Equal(uint16(65535)))
	})

	It("truncates fractional seconds", func() {
		Expect(wire.TruncateMaxAge(5.9)).To(Equal(uint16(5)))
	})

	It("silently wraps values above 65535", func() {
		Expect(wire.TruncateMaxAge(65536)).To(Equal(uint16(0)))
		Expect(wire.TruncateMaxAge(65537)).To(Equal(uint16(1)))
	})
})

var _ = Describe("Data frame", func() {
	It("round-trips values through Encode/DecodeDataFrame", func() {
		values := []float32{1.5, -2.25, 0, 3.125}
		frame := wire.EncodeDataFrame(values)
		Expect(frame).To(HaveLen(len(values)*4 + 2))

		decoded, outcome := wire.DecodeDataFrame(frame, len(values))
		Expect(outcome).To(Equal(wire.DecodeOK))
		Expect(decoded).To(Equal(values))
	})

	It("classifies a too-short datagram as shape invalid", func() {
		_, outcome := wire.DecodeDataFrame([]byte{0x01}, 1)
		Expect(outcome).To(Equal(wire.DecodeShapeInvalid))
	})

	It("classifies a CRC mismatch as corrupted", func() {
		frame := wire.EncodeDataFrame([]float32{42})
		frame[0] ^= 0xFF

		_, outcome := wire.DecodeDataFrame(frame, 1)
		Expect(outcome).To(Equal(wire.DecodeCorrupted))
	})

	It("classifies a wrong input count as shape invalid", func() {
		frame := wire.EncodeDataFrame([]float32{1, 2, 3})

		_, outcome := wire.DecodeDataFrame(frame, 7)
		Expect(outcome).To(Equal(wire.DecodeShapeInvalid))
	})
})
