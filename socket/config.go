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

// Package socket is a UDP facade scoped to this transport's single-peer
// model: one local endpoint, one remote peer, no connection handshake
// dispatch. An Endpoint binds a local address and sends every datagram to
// one resolved remote address; that address changes only when PinRemote is
// called, never on its own when a datagram arrives.
package socket

import (
	"net"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config describes one endpoint of a UDP pairing.
type Config struct {
	// LocalAddress is the host:port this endpoint binds to. The host half
	// may be empty (e.g. ":9000") to bind every interface.
	LocalAddress string `validate:"required"`
	// RemoteAddress is the host:port of the peer this endpoint talks to.
	RemoteAddress string `validate:"required"`
}

// Validate checks that both addresses are well-formed host:port pairs and
// resolvable as UDP endpoints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := net.ResolveUDPAddr("udp", c.LocalAddress); err != nil {
		return err
	}
	if _, err := net.ResolveUDPAddr("udp", c.RemoteAddress); err != nil {
		return err
	}
	return nil
}
