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

package session

import (
	"io"
	"os"
	"time"

	"github.com/fieldrig/excavator-link/logging"
	"github.com/fieldrig/excavator-link/wire"
)

// Role distinguishes which side of the handshake an endpoint plays.
type Role uint8

const (
	RoleServer Role = iota
	RoleClient
)

func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}

const (
	defaultSocketTimeout    = 200 * time.Millisecond
	defaultHandshakeTimeout = 15 * time.Second
	defaultWatchdogInterval = 100 * time.Millisecond
	defaultMinCleanupAge    = 5 * time.Second
)

// params holds every construction-time setting an Option can adjust. The
// shape parameters (host, port, num_inputs, num_outputs, role) are not
// among them: they are supplied to Setup, not New, per the transport's
// construct/setup split.
type params struct {
	tcpPort int

	sendType wire.ScalarType

	localMaxAge      time.Duration
	socketTimeout    time.Duration
	handshakeTimeout time.Duration

	delayTracking bool
	debugEnabled  bool

	logWriter io.Writer
	logLevel  logging.Level

	recorder Recorder
}

func defaultParams() params {
	return params{
		sendType:         wire.ScalarF32,
		localMaxAge:      3 * time.Second,
		socketTimeout:    defaultSocketTimeout,
		handshakeTimeout: defaultHandshakeTimeout,
		logWriter:        os.Stderr,
		logLevel:         logging.InfoLevel,
		recorder:         noopRecorder{},
	}
}

// Option configures a Session at construction time.
type Option func(*params)

// WithSendType overrides the advertised scalar type tag. The transport
// itself always packs f32 payloads; this only changes what is advertised.
func WithSendType(t wire.ScalarType) Option {
	return func(p *params) { p.sendType = t }
}

// WithLocalMaxAge sets the freshness bound get_latest enforces, and the
// basis of the watchdog's derived cleanup threshold.
func WithLocalMaxAge(d time.Duration) Option {
	return func(p *params) { p.localMaxAge = d }
}

// WithSocketTimeout sets the receive timeout used outside the handshake.
func WithSocketTimeout(d time.Duration) Option {
	return func(p *params) { p.socketTimeout = d }
}

// WithHandshakeTimeout sets the elongated receive timeout used only during
// the handshake round-trip.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(p *params) { p.handshakeTimeout = d }
}

// WithDelayTracking enables feeding inter-arrival intervals of valid
// packets into the running mean/variance estimator.
func WithDelayTracking(enabled bool) Option {
	return func(p *params) { p.delayTracking = enabled }
}

// WithDebug toggles verbose logging.
func WithDebug(enabled bool) Option {
	return func(p *params) {
		p.debugEnabled = enabled
		if enabled {
			p.logLevel = logging.DebugLevel
		}
	}
}

// WithLogWriter redirects session log output; os.Stderr is the default.
func WithLogWriter(w io.Writer) Option {
	return func(p *params) { p.logWriter = w }
}

// WithRecorder attaches a metrics sink mirroring the session's counters
// and delay statistics. The zero value records nothing.
func WithRecorder(r Recorder) Option {
	return func(p *params) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithTCPPort sets the loopback port where the owning service's cleanup
// listener waits. Setup fails if this is never set to a nonzero value.
func WithTCPPort(port int) Option {
	return func(p *params) { p.tcpPort = port }
}
