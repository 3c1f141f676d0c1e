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

package socket_test

import (
	"fmt"
	"net"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fieldrig/excavator-link/socket"
)

func TestSocket(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Socket Suite")
}

// freeUDPPort returns a currently unused UDP port on localhost.
func freeUDPPort() int {
	addr, err := net.ResolveUDPAddr("udp", "127.0.0.1:0")
	Expect(err).ToNot(HaveOccurred())

	conn, err := net.ListenUDP("udp", addr)
	Expect(err).ToNot(HaveOccurred())
	defer func() { _ = conn.Close() }()

	return conn.LocalAddr().(*net.UDPAddr).Port
}

var _ = Describe("Config", func() {
	It("rejects an empty local address", func() {
		cfg := socket.Config{LocalAddress: "", RemoteAddress: "127.0.0.1:9000"}
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("accepts a well-formed loopback pairing", func() {
		cfg := socket.Config{LocalAddress: "127.0.0.1:9001", RemoteAddress: "127.0.0.1:9002"}
		Expect(cfg.Validate()).ToNot(HaveOccurred())
	})
})

var _ = Describe("Endpoint", func() {
	It("sends a datagram that the peer receives", func() {
		portA, portB := freeUDPPort(), freeUDPPort()
		addrA := fmt.Sprintf("127.0.0.1:%d", portA)
		addrB := fmt.Sprintf("127.0.0.1:%d", portB)

		a, err := socket.Bind(socket.Config{LocalAddress: addrA, RemoteAddress: addrB})
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = a.Close() }()

		b, err := socket.Bind(socket.Config{LocalAddress: addrB, RemoteAddress: addrA})
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = b.Close() }()

		Expect(a.Send([]byte("ping"))).ToNot(HaveOccurred())

		buf := make([]byte, 64)
		n, _, err := b.Receive(buf, time.Second)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("ping"))
	})

	It("times out when no datagram arrives", func() {
		portA, portB := freeUDPPort(), freeUDPPort()
		addrA := fmt.Sprintf("127.0.0.1:%d", portA)
		addrB := fmt.Sprintf("127.0.0.1:%d", portB)

		a, err := socket.Bind(socket.Config{LocalAddress: addrA, RemoteAddress: addrB})
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = a.Close() }()

		buf := make([]byte, 64)
		_, _, err = a.Receive(buf, 50*time.Millisecond)
		Expect(err).To(HaveOccurred())
		Expect(socket.IsTimeout(err)).To(BeTrue())
	})

	It("is safe to Close more than once", func() {
		portA, portB := freeUDPPort(), freeUDPPort()
		a, err := socket.Bind(socket.Config{
			LocalAddress:  fmt.Sprintf("127.0.0.1:%d", portA),
			RemoteAddress: fmt.Sprintf("127.0.0.1:%d", portB),
		})
		Expect(err).ToNot(HaveOccurred())

		Expect(a.Close()).ToNot(HaveOccurred())
		Expect(a.Close()).ToNot(HaveOccurred())
	})
})
