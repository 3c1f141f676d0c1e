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

package socket

import (
	"net"
	"sync"
	"time"

	"github.com/fieldrig/excavator-link/txerr"
)

// Endpoint is a bound UDP socket paired with a single remote peer. It is
// safe for concurrent Send and Receive calls; Receive is expected to be
// called from a single goroutine at a time per spec, but the underlying
// conn supports concurrent reads and writes from the net package.
type Endpoint struct {
	conn   *net.UDPConn
	local  *net.UDPAddr
	remote *net.UDPAddr

	mu     sync.Mutex
	closed bool
}

// Bind opens cfg.LocalAddress as a UDP listener and resolves
// cfg.RemoteAddress as the peer every Send targets.
func Bind(cfg Config) (*Endpoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, txerr.SetupFailed.Error(err)
	}

	local, err := net.ResolveUDPAddr("udp", cfg.LocalAddress)
	if err != nil {
		return nil, txerr.SetupFailed.Error(err)
	}

	remote, err := net.ResolveUDPAddr("udp", cfg.RemoteAddress)
	if err != nil {
		return nil, txerr.SetupFailed.Error(err)
	}

	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		return nil, txerr.SetupFailed.Error(err)
	}

	return &Endpoint{conn: conn, local: local, remote: remote}, nil
}

// LocalAddr returns the bound local address.
func (e *Endpoint) LocalAddr() net.Addr {
	return e.conn.LocalAddr()
}

// RemoteAddr returns the configured peer address.
func (e *Endpoint) RemoteAddr() net.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remote
}

// PinRemote rewrites the peer address every subsequent Send targets. Used
// once, when the peer's handshake datagram is received, to adopt the source
// address that datagram actually arrived from.
func (e *Endpoint) PinRemote(addr *net.UDPAddr) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.remote = addr
}

// Send writes payload to the configured remote peer.
func (e *Endpoint) Send(payload []byte) error {
	e.mu.Lock()
	remote := e.remote
	e.mu.Unlock()

	_, err := e.conn.WriteToUDP(payload, remote)
	if err != nil {
		return txerr.SendFailed.Error(err)
	}
	return nil
}

// Receive blocks until a datagram arrives, timeout elapses, or the socket
// is closed, returning the datagram bytes and the address it came from. A
// zero timeout blocks indefinitely.
func (e *Endpoint) Receive(buf []byte, timeout time.Duration) (n int, from *net.UDPAddr, err error) {
	if timeout > 0 {
		if err := e.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return 0, nil, err
		}
	} else {
		if err := e.conn.SetReadDeadline(time.Time{}); err != nil {
			return 0, nil, err
		}
	}

	n, from, err = e.conn.ReadFromUDP(buf)
	return n, from, err
}

// IsTimeout reports whether err was returned by Receive because its
// deadline elapsed without a datagram arriving.
func IsTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

// Close closes the underlying socket. Safe to call more than once.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	return e.conn.Close()
}
