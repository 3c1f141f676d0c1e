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

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fieldrig/excavator-link/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

const sample = `
role: server
peer_host: 10.0.0.5
peer_port: 9100
tcp_port: 9101
num_inputs: 3
num_outputs: 0
local_max_age_ms: 250
log_level: debug
`

var _ = Describe("Load", func() {
	It("decodes a yaml file into Settings", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "link.yaml")
		Expect(os.WriteFile(path, []byte(sample), 0o644)).To(Succeed())

		_, s, err := config.Load(path)
		Expect(err).ToNot(HaveOccurred())

		Expect(s.Role).To(Equal("server"))
		Expect(s.PeerHost).To(Equal("10.0.0.5"))
		Expect(s.PeerPort).To(Equal(9100))
		Expect(s.TCPPort).To(Equal(9101))
		Expect(s.NumInputs).To(Equal(3))
		Expect(s.LocalMaxAgeMS).To(Equal(250))
		Expect(s.LogLevel).To(Equal("debug"))
	})

	It("fills in defaults for fields the file omits", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "link.yaml")
		Expect(os.WriteFile(path, []byte("role: client\n"), 0o644)).To(Succeed())

		_, s, err := config.Load(path)
		Expect(err).ToNot(HaveOccurred())

		Expect(s.Role).To(Equal("client"))
		Expect(s.PeerPort).To(Equal(9000))
		Expect(s.TCPPort).To(Equal(9001))
	})

	It("errors on a missing file", func() {
		_, _, err := config.Load(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).To(HaveOccurred())
	})

	It("re-notifies on file changes via Watch", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "link.yaml")
		Expect(os.WriteFile(path, []byte(sample), 0o644)).To(Succeed())

		loader, _, err := config.Load(path)
		Expect(err).ToNot(HaveOccurred())

		seen := make(chan config.Settings, 1)
		loader.Watch(func(s config.Settings) { seen <- s })

		updated := strings.Replace(sample, "num_outputs: 0", "num_outputs: 7", 1)
		time.Sleep(50 * time.Millisecond)
		Expect(os.WriteFile(path, []byte(updated), 0o644)).To(Succeed())

		Eventually(seen, 2*time.Second).Should(Receive(
			WithTransform(func(s config.Settings) int { return s.NumOutputs }, Equal(7)),
		))
	})
})
