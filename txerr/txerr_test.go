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

package txerr_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fieldrig/excavator-link/txerr"
)

func TestTxErr(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TxErr Suite")
}

var _ = Describe("CodeError", func() {
	It("builds an Error carrying its own code", func() {
		err := txerr.SendFailed.Error()
		Expect(err.IsCode(txerr.SendFailed)).To(BeTrue())
		Expect(err.IsCode(txerr.SetupFailed)).To(BeFalse())
	})

	It("includes the parent error's message in Error()", func() {
		parent := errors.New("connection refused")
		err := txerr.BackChannelUnreachable.Error(parent)
		Expect(err.Error()).To(ContainSubstring("connection refused"))
		Expect(err.Error()).To(ContainSubstring(txerr.BackChannelUnreachable.Message()))
	})

	It("finds a code nested in a parent txerr.Error", func() {
		inner := txerr.HandshakeMalformed.Error()
		outer := txerr.HandshakeTimeout.Error(inner)

		Expect(outer.IsCode(txerr.HandshakeTimeout)).To(BeTrue())
		Expect(outer.IsCode(txerr.HandshakeMalformed)).To(BeFalse())
		Expect(outer.HasCode(txerr.HandshakeMalformed)).To(BeTrue())
	})

	It("recognizes a txerr.Error but not a plain error copying its message", func() {
		wrapped := errors.New("wrapped: " + txerr.ShapeMismatch.Error().Error())
		Expect(txerr.Is(wrapped)).To(BeFalse())
		Expect(txerr.Is(txerr.ShapeMismatch.Error())).To(BeTrue())
	})

	It("appends parents via Add", func() {
		err := txerr.SetupFailed.Error()
		err.Add(errors.New("bind failed"))
		Expect(err.GetParent()).To(HaveLen(1))
	})

	It("falls back to the unknown-error message for an unregistered code", func() {
		Expect(txerr.CodeError(65000).Message()).To(Equal(txerr.UnknownError.Message()))
	})

	It("reports HasCode via the package-level helper", func() {
		err := txerr.HandshakeMismatch.Error()
		Expect(txerr.HasCode(err, txerr.HandshakeMismatch)).To(BeTrue())
		Expect(txerr.HasCode(errors.New("plain"), txerr.HandshakeMismatch)).To(BeFalse())
	})
})
