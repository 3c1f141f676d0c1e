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

import "time"

// cleanupThreshold derives the watchdog's liveness bound from the locally
// configured max age: deliberately looser than local_max_age so transient
// drops only starve get_latest, not the whole session.
func (s *Session) cleanupThreshold() time.Duration {
	threshold := 3 * s.p.localMaxAge
	if threshold < defaultMinCleanupAge {
		return defaultMinCleanupAge
	}
	return threshold
}

// watchdogLoop fires cleanup if no valid datagram has arrived within
// cleanupThreshold. Only started when num_inputs > 0.
func (s *Session) watchdogLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(defaultWatchdogInterval)
	defer ticker.Stop()

	threshold := s.cleanupThreshold()

	for range ticker.C {
		if s.stopRequested.Load() {
			return
		}

		s.dataMu.Lock()
		hasLast := s.hasLastPacket
		last := s.lastPacketTime
		s.dataMu.Unlock()

		if !hasLast {
			last = s.startTime
		}

		if time.Since(last) > threshold {
			if s.stopRequested.Load() {
				return
			}
			s.log.Warnf("watchdog timeout: no valid packet within %s", threshold)
			s.invokeCleanup()
			return
		}
	}
}
