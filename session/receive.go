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
	"time"

	"github.com/fieldrig/excavator-link/socket"
	"github.com/fieldrig/excavator-link/wire"
)

// receiveLoop reads datagrams until stopRequested, classifying each one per
// the transport's shape/CRC rules before publishing it as latestData.
func (s *Session) receiveLoop() {
	defer s.wg.Done()

	buf := make([]byte, recvBufferSize)

	for {
		if s.stopRequested.Load() {
			return
		}

		n, _, err := s.ep.Receive(buf, s.p.socketTimeout)
		if err != nil {
			if socket.IsTimeout(err) {
				continue
			}
			if s.stopRequested.Load() {
				return
			}
			s.log.Errorf("receive failed: %v", err)
			s.invokeCleanup()
			return
		}

		s.handleDatagram(buf[:n])
	}
}

func (s *Session) handleDatagram(datagram []byte) {
	values, outcome := wire.DecodeDataFrame(datagram, s.numInputs)

	switch outcome {
	case wire.DecodeShapeInvalid:
		s.dataMu.Lock()
		s.packetsShapeInvalid++
		s.dataMu.Unlock()
		s.p.recorder.IncShapeInvalid()
		return

	case wire.DecodeCorrupted:
		s.dataMu.Lock()
		s.packetsCorrupted++
		s.dataMu.Unlock()
		s.p.recorder.IncCorrupted()
		return
	}

	now := time.Now()

	s.dataMu.Lock()
	var interval time.Duration
	hadPrior := s.hasLastPacket
	if hadPrior {
		interval = now.Sub(s.lastPacketTime)
	}

	s.latestData = values
	s.consumed = false
	s.lastPacketTime = now
	s.hasLastPacket = true
	s.packetsReceived++
	s.dataMu.Unlock()

	s.p.recorder.IncReceived()

	if s.p.delayTracking && hadPrior {
		s.delay.Add(interval)
		s.p.recorder.ObserveInterArrival(interval)
	}
}
