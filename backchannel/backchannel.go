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

// Package backchannel is the TCP side-channel used to signal cleanup
// out-of-band from the UDP data path: a single connection, dialed once at
// setup, that carries exactly one byte when the session wants its peer to
// tear down.
package backchannel

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fieldrig/excavator-link/txerr"
)

// cleanupByte is the single byte sent to request peer cleanup.
const cleanupByte = 0x01

var validate = validator.New()

// Client identifies the TCP endpoint a cleanup channel dials or binds,
// mirroring the socket package's own {field, field}+Validate() config
// shape rather than a bare host:port string.
type Client struct {
	Host string `validate:"required"`
	Port int    `validate:"required,gte=1,lte=65535"`
}

// Address renders the client as the host:port string net.Dial expects.
func (c Client) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the struct tags and that the result resolves as a TCP
// address.
func (c Client) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := net.ResolveTCPAddr("tcp", c.Address()); err != nil {
		return err
	}
	return nil
}

// Channel is a single TCP connection used only to carry the cleanup signal.
type Channel struct {
	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

// Dial connects to the client's address as the cleanup channel's sole
// connection. The dial has the given timeout; a zero timeout uses the
// platform default.
func Dial(c Client, timeout time.Duration) (*Channel, error) {
	if err := c.Validate(); err != nil {
		return nil, txerr.BackChannelUnreachable.Error(err)
	}
	conn, err := net.DialTimeout("tcp", c.Address(), timeout)
	if err != nil {
		return nil, txerr.BackChannelUnreachable.Error(err)
	}
	return &Channel{conn: conn}, nil
}

// Listen binds the client's address and accepts exactly one incoming
// connection to serve as the cleanup channel's sole connection, then stops
// listening.
func Listen(c Client, timeout time.Duration) (*Channel, error) {
	if err := c.Validate(); err != nil {
		return nil, txerr.BackChannelUnreachable.Error(err)
	}

	ln, err := net.Listen("tcp", c.Address())
	if err != nil {
		return nil, txerr.BackChannelUnreachable.Error(err)
	}
	defer func() { _ = ln.Close() }()

	if timeout > 0 {
		if tl, ok := ln.(*net.TCPListener); ok {
			if err := tl.SetDeadline(time.Now().Add(timeout)); err != nil {
				return nil, txerr.BackChannelUnreachable.Error(err)
			}
		}
	}

	conn, err := ln.Accept()
	if err != nil {
		return nil, txerr.BackChannelUnreachable.Error(err)
	}

	return &Channel{conn: conn}, nil
}

// InvokeCleanup sends the single-byte cleanup signal. Safe to call more
// than once; the underlying write is serialized against Close.
func (c *Channel) InvokeCleanup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return txerr.BackChannelUnreachable.Error()
	}

	_, err := c.conn.Write([]byte{cleanupByte})
	if err != nil {
		return txerr.BackChannelUnreachable.Error(err)
	}
	return nil
}

// WaitForCleanup blocks until the single cleanup byte is received, the
// deadline elapses, or the channel is closed.
func (c *Channel) WaitForCleanup(timeout time.Duration) error {
	if timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}

	buf := make([]byte, 1)
	_, err := c.conn.Read(buf)
	if err != nil {
		return err
	}
	if buf[0] != cleanupByte {
		return txerr.BackChannelUnreachable.Error()
	}
	return nil
}

// Close closes the underlying connection. Safe to call more than once.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
