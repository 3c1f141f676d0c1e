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

package backchannel_test

import (
	"net"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fieldrig/excavator-link/backchannel"
)

func TestBackchannel(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Backchannel Suite")
}

func freeTCPClient() backchannel.Client {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).ToNot(HaveOccurred())
	defer func() { _ = ln.Close() }()
	return backchannel.Client{Host: "127.0.0.1", Port: ln.Addr().(*net.TCPAddr).Port}
}

var _ = Describe("Client", func() {
	It("rejects a zero port", func() {
		Expect(backchannel.Client{Host: "127.0.0.1"}.Validate()).To(HaveOccurred())
	})

	It("rejects an empty host", func() {
		Expect(backchannel.Client{Port: 9001}.Validate()).To(HaveOccurred())
	})

	It("accepts a well-formed host and port", func() {
		Expect(backchannel.Client{Host: "127.0.0.1", Port: 9001}.Validate()).ToNot(HaveOccurred())
	})
})

var _ = Describe("Channel", func() {
	It("delivers the cleanup signal from dialer to listener", func() {
		addr := freeTCPClient()

		srvCh := make(chan *backchannel.Channel, 1)
		errCh := make(chan error, 1)
		go func() {
			srv, err := backchannel.Listen(addr, 2*time.Second)
			if err != nil {
				errCh <- err
				return
			}
			srvCh <- srv
		}()

		time.Sleep(20 * time.Millisecond)

		cli, err := backchannel.Dial(addr, time.Second)
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = cli.Close() }()

		var srv *backchannel.Channel
		select {
		case srv = <-srvCh:
		case err := <-errCh:
			Fail(err.Error())
		case <-time.After(2 * time.Second):
			Fail("timed out waiting for listener to accept")
		}
		defer func() { _ = srv.Close() }()

		Expect(cli.InvokeCleanup()).ToNot(HaveOccurred())
		Expect(srv.WaitForCleanup(time.Second)).ToNot(HaveOccurred())
	})

	It("fails to dial an address with nothing listening", func() {
		addr := freeTCPClient()
		_, err := backchannel.Dial(addr, 100*time.Millisecond)
		Expect(err).To(HaveOccurred())
	})

	It("rejects InvokeCleanup after Close", func() {
		addr := freeTCPClient()

		srvCh := make(chan *backchannel.Channel, 1)
		go func() {
			srv, err := backchannel.Listen(addr, 2*time.Second)
			if err == nil {
				srvCh <- srv
			}
		}()
		time.Sleep(20 * time.Millisecond)

		cli, err := backchannel.Dial(addr, time.Second)
		Expect(err).ToNot(HaveOccurred())

		srv := <-srvCh
		defer func() { _ = srv.Close() }()

		Expect(cli.Close()).ToNot(HaveOccurred())
		Expect(cli.InvokeCleanup()).To(HaveOccurred())
	})
})
