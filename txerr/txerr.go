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

// Package txerr provides the session's typed error hierarchy: a numeric
// CodeError classification compatible with errors.Is/errors.As, with
// optional parent errors for context (e.g. the underlying net.OpError
// behind a send failure).
package txerr

import (
	"errors"
	"strconv"
)

// CodeError classifies a session-level failure.
type CodeError uint16

const (
	// UnknownError is the fallback code for errors with no specific
	// classification.
	UnknownError CodeError = 0

	// SetupFailed covers socket bind/resolve failures during setup, a
	// missing tcp_port, and Start being called before the handshake.
	SetupFailed CodeError = 100

	// HandshakeTimeout means the handshake round-trip did not complete: the
	// peer's handshake datagram did not arrive within the handshake timeout,
	// the receive failed, or our own descriptor could not be sent.
	HandshakeTimeout CodeError = 200

	// HandshakeMalformed means a received handshake datagram was not
	// exactly 7 bytes.
	HandshakeMalformed CodeError = 201

	// HandshakeMismatch means the peer's advertised shape did not agree
	// with the local shape, or Handshake was called a second time.
	HandshakeMismatch CodeError = 202

	// ShapeMismatch means a Send call's value count did not match the
	// negotiated output count, or the output count is zero. Received frames
	// of the wrong shape are counted, never returned as errors.
	ShapeMismatch CodeError = 300

	// SendFailed means the session's underlying socket returned an error
	// from a write.
	SendFailed CodeError = 400

	// BackChannelUnreachable means the TCP cleanup channel could not be
	// dialed or the cleanup signal could not be sent.
	BackChannelUnreachable CodeError = 500
)

var messages = map[CodeError]string{
	UnknownError:           "unknown error",
	SetupFailed:            "session setup failed",
	HandshakeTimeout:       "handshake timed out",
	HandshakeMalformed:     "handshake frame malformed",
	HandshakeMismatch:      "handshake shape mismatch",
	ShapeMismatch:          "data frame shape mismatch",
	SendFailed:             "send failed",
	BackChannelUnreachable: "back-channel unreachable",
}

// Message returns the registered text for c, or "unknown error" if c has no
// registration.
func (c CodeError) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return messages[UnknownError]
}

// String renders the numeric code.
func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

// Error builds an Error of this code, optionally wrapping parent errors for
// added context.
func (c CodeError) Error(parent ...error) Error {
	return &txError{code: c, parents: nonNil(parent)}
}

func nonNil(errs []error) []error {
	out := make([]error, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Error is a CodeError paired with zero or more parent errors, compatible
// with errors.Is and errors.As via Unwrap.
type Error interface {
	error

	// IsCode reports whether this error's own code equals code.
	IsCode(code CodeError) bool
	// HasCode reports whether this error or any parent has code.
	HasCode(code CodeError) bool
	// GetCode returns this error's own code.
	GetCode() CodeError
	// Add appends parent errors onto this error.
	Add(parent ...error)
	// GetParent returns the parent errors attached to this error.
	GetParent() []error
	// Unwrap exposes the parent chain to errors.Is/errors.As.
	Unwrap() []error
}

type txError struct {
	code    CodeError
	parents []error
}

func (e *txError) Error() string {
	msg := e.code.Message()
	for _, p := range e.parents {
		msg += ": " + p.Error()
	}
	return msg
}

func (e *txError) IsCode(code CodeError) bool {
	return e.code == code
}

func (e *txError) HasCode(code CodeError) bool {
	if e.code == code {
		return true
	}
	for _, p := range e.parents {
		var te Error
		if errors.As(p, &te) && te.HasCode(code) {
			return true
		}
	}
	return false
}

func (e *txError) GetCode() CodeError {
	return e.code
}

func (e *txError) Add(parent ...error) {
	e.parents = append(e.parents, nonNil(parent)...)
}

func (e *txError) GetParent() []error {
	return e.parents
}

func (e *txError) Unwrap() []error {
	return e.parents
}

// Is reports whether e is a txerr.Error, for use with errors.As(err, &e).
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// HasCode reports whether e is a txerr.Error carrying code, anywhere in its
// parent chain.
func HasCode(e error, code CodeError) bool {
	var err Error
	if !errors.As(e, &err) {
		return false
	}
	return err.HasCode(code)
}
