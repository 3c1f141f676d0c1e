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

// Package session implements the point-to-point UDP transport: a negotiated
// handshake, a receive pipeline, a liveness watchdog, and an out-of-band
// cleanup signal to the owning process. One Session handles exactly one
// peer for its lifetime; reshaping after handshake requires a new Session.
package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-uuid"

	"github.com/fieldrig/excavator-link/backchannel"
	"github.com/fieldrig/excavator-link/logging"
	"github.com/fieldrig/excavator-link/socket"
	"github.com/fieldrig/excavator-link/txerr"
	"github.com/fieldrig/excavator-link/welford"
	"github.com/fieldrig/excavator-link/wire"
)

// recvBufferSize is the fixed-size buffer the receive loop reads into
// (spec: "a 2048-byte buffer").
const recvBufferSize = 2048

// Session is the transport's public handle: construct with New, then carry
// it through Setup, Handshake, Start, and eventually Close.
type Session struct {
	p params

	// sessionID is a random tag assigned at construction, carried as a
	// logging field for correlating one session's log lines across a
	// process that may open several; it never appears on the wire.
	sessionID string

	log *logging.Logger

	role       Role
	numInputs  int
	numOutputs int

	receiveType  wire.ScalarType
	remoteMaxAge time.Duration

	ep *socket.Endpoint
	bc *backchannel.Channel

	startTime time.Time

	dataMu              sync.Mutex
	latestData          []float32
	consumed            bool
	lastPacketTime      time.Time
	hasLastPacket       bool
	packetsReceived     uint64
	packetsSent         uint64
	packetsExpired      uint64
	packetsCorrupted    uint64
	packetsShapeInvalid uint64

	delay welford.Estimator

	handshakeDone atomic.Bool
	running       atomic.Bool
	stopRequested atomic.Bool

	closeMu sync.Mutex
	closed  bool

	cleanupOnce sync.Once

	wg sync.WaitGroup
}

// New constructs a Session in the *constructed* state. No I/O happens until
// Setup.
func New(opts ...Option) *Session {
	p := defaultParams()
	for _, o := range opts {
		o(&p)
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		// GenerateUUID only fails if crypto/rand can't be read; fall back to
		// a fixed tag rather than leaving the field absent from every log
		// line for the rest of the process's life.
		id = "unavailable"
	}

	s := &Session{p: p, sessionID: id}
	s.log = logging.New(p.logWriter, p.logLevel).With(logging.Fields{
		"component":  "session",
		"session_id": id,
	})
	return s
}

// Setup binds (server role) or resolves (client role) the UDP endpoint at
// host:port, connects the cleanup back-channel, and records the shape this
// endpoint will advertise at handshake. It must be called exactly once,
// before Handshake.
func (s *Session) Setup(host string, port int, numInputs, numOutputs int, isServer bool) error {
	if s.p.tcpPort == 0 {
		return txerr.SetupFailed.Error(fmt.Errorf("tcp_port not configured"))
	}

	s.numInputs = numInputs
	s.numOutputs = numOutputs
	if isServer {
		s.role = RoleServer
	} else {
		s.role = RoleClient
	}

	var local, remote string
	if isServer {
		// A server binds the well-known port on every interface and learns
		// its peer's address from the first handshake datagram; until then
		// any resolvable placeholder works since Send is illegal before
		// handshake.
		local = fmt.Sprintf("0.0.0.0:%d", port)
		remote = fmt.Sprintf("%s:%d", host, port)
	} else {
		// A client resolves the server's address and binds an ephemeral
		// local port; the server records whatever source port this
		// produces as the peer address during handshake.
		local = "0.0.0.0:0"
		remote = fmt.Sprintf("%s:%d", host, port)
	}

	ep, err := socket.Bind(socket.Config{LocalAddress: local, RemoteAddress: remote})
	if err != nil {
		return err
	}

	bc, err := backchannel.Dial(backchannel.Client{Host: "127.0.0.1", Port: s.p.tcpPort}, 5*time.Second)
	if err != nil {
		_ = ep.Close()
		return err
	}

	s.ep = ep
	s.bc = bc

	if s.p.debugEnabled {
		s.log.Debugf("setup complete: role=%v local=%s remote=%s numInputs=%d numOutputs=%d",
			s.role, local, remote, numInputs, numOutputs)
	}

	return nil
}

// Handshake performs the one-time shape negotiation described by the
// transport's role-dependent send/receive ordering. It is an error to call
// this more than once.
func (s *Session) Handshake(timeout time.Duration) error {
	if s.handshakeDone.Load() {
		return txerr.HandshakeMismatch.Error(fmt.Errorf("handshake already performed"))
	}
	if timeout <= 0 {
		timeout = s.p.handshakeTimeout
	}

	ours := wire.Handshake{
		NumOutputs: uint16(s.numOutputs),
		NumInputs:  uint16(s.numInputs),
		SendType:   s.p.sendType,
		MaxAgeSec:  wire.TruncateMaxAge(s.p.localMaxAge.Seconds()),
	}

	var peer wire.Handshake
	var err error

	if s.role == RoleClient {
		if err = s.ep.Send(ours.Encode()); err != nil {
			return txerr.HandshakeTimeout.Error(err)
		}
		peer, err = s.recvHandshake(timeout)
		if err != nil {
			return err
		}
	} else {
		peer, err = s.recvHandshake(timeout)
		if err != nil {
			return err
		}
		if err = s.ep.Send(ours.Encode()); err != nil {
			return txerr.HandshakeTimeout.Error(err)
		}
	}

	if int(peer.NumInputs) != s.numOutputs || int(peer.NumOutputs) != s.numInputs {
		return txerr.HandshakeMismatch.Error(fmt.Errorf(
			"shape disagreement: local(in=%d,out=%d) peer(in=%d,out=%d)",
			s.numInputs, s.numOutputs, peer.NumInputs, peer.NumOutputs))
	}

	s.receiveType = peer.SendType
	s.remoteMaxAge = time.Duration(peer.MaxAgeSec) * time.Second
	s.handshakeDone.Store(true)

	if s.p.debugEnabled {
		s.log.Debugf("handshake complete: receiveType=%s remoteMaxAge=%s", s.receiveType, s.remoteMaxAge)
	}

	return nil
}

func (s *Session) recvHandshake(timeout time.Duration) (wire.Handshake, error) {
	buf := make([]byte, wire.HandshakeSize+1)
	n, from, err := s.ep.Receive(buf, timeout)
	if err != nil {
		return wire.Handshake{}, txerr.HandshakeTimeout.Error(err)
	}

	h, err := wire.DecodeHandshake(buf[:n])
	if err != nil {
		return wire.Handshake{}, txerr.HandshakeMalformed.Error(err)
	}

	s.ep.PinRemote(from)
	return h, nil
}

// Start launches the receive thread and, if num_inputs > 0, the heartbeat
// watchdog thread. Handshake must have completed first.
func (s *Session) Start() error {
	if !s.handshakeDone.Load() {
		return txerr.SetupFailed.Error(fmt.Errorf("handshake not performed"))
	}
	if s.ep == nil {
		return txerr.SetupFailed.Error(fmt.Errorf("socket not ready"))
	}

	s.stopRequested.Store(false)
	s.running.Store(true)
	s.startTime = time.Now()

	s.wg.Add(1)
	go s.receiveLoop()

	if s.numInputs > 0 {
		s.wg.Add(1)
		go s.watchdogLoop()
	}

	return nil
}

// Send transmits values to the negotiated peer. Legal only once num_outputs
// is known to be positive and len(values) matches it exactly.
func (s *Session) Send(values []float32) error {
	if s.numOutputs == 0 || len(values) != s.numOutputs {
		return txerr.ShapeMismatch.Error(fmt.Errorf(
			"send requires exactly %d values, got %d", s.numOutputs, len(values)))
	}

	frame := wire.EncodeDataFrame(values)
	if err := s.ep.Send(frame); err != nil {
		return err
	}

	s.dataMu.Lock()
	s.packetsSent++
	s.dataMu.Unlock()
	s.p.recorder.IncSent()

	return nil
}

// GetLatest returns the most recently decoded payload if it is unconsumed
// and fresh, or ok=false otherwise.
func (s *Session) GetLatest() (values []float32, ok bool) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	if s.consumed || len(s.latestData) == 0 {
		return nil, false
	}

	age := time.Since(s.lastPacketTime)
	if age > s.p.localMaxAge {
		s.packetsExpired++
		s.p.recorder.IncExpired()
		return nil, false
	}

	s.consumed = true
	out := make([]float32, len(s.latestData))
	copy(out, s.latestData)
	return out, true
}

// GetStatus returns an immutable snapshot of counters and negotiated state.
func (s *Session) GetStatus() Status {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	since := time.Duration(-1)
	if s.hasLastPacket {
		since = time.Since(s.lastPacketTime)
	}

	return Status{
		Running:             s.running.Load(),
		Role:                s.role,
		PacketsReceived:     s.packetsReceived,
		PacketsSent:         s.packetsSent,
		PacketsExpired:      s.packetsExpired,
		PacketsCorrupted:    s.packetsCorrupted,
		PacketsShapeInvalid: s.packetsShapeInvalid,
		SinceLastPacket:     since,
		HasUnconsumed:       !s.consumed && len(s.latestData) > 0,
		SendType:            s.p.sendType,
		ReceiveType:         s.receiveType,
		NumInputs:           s.numInputs,
		NumOutputs:          s.numOutputs,
		HandshakePerformed:  s.handshakeDone.Load(),
		Delay:               s.delay.Snapshot(),
	}
}

// GetExpectedRecvPacketSize returns the fixed byte length of a valid
// incoming data frame for this session's negotiated shape.
func (s *Session) GetExpectedRecvPacketSize() int {
	return s.numInputs*4 + 2
}

// invokeCleanup sends the single-byte cleanup signal on the back-channel.
// Failures are logged, never propagated: the caller's own shutdown path is
// unaffected either way.
func (s *Session) invokeCleanup() {
	s.cleanupOnce.Do(func() {
		if s.bc == nil {
			return
		}
		if err := s.bc.InvokeCleanup(); err != nil {
			s.log.Warnf("cleanup signal failed: %v", err)
		}
	})
}

// Close requests shutdown of all background threads and releases the
// socket and back-channel. Idempotent and safe to call from any state.
func (s *Session) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.stopRequested.Store(true)
	if s.ep != nil {
		_ = s.ep.Close()
	}

	s.wg.Wait()
	s.running.Store(false)

	if s.bc != nil {
		_ = s.bc.Close()
	}

	return nil
}
