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

	"github.com/fieldrig/excavator-link/welford"
	"github.com/fieldrig/excavator-link/wire"
)

// Status is an immutable snapshot of a session's counters and negotiated
// parameters, taken under the data lock.
type Status struct {
	Running bool

	// Role is recorded at Setup and carried here purely for diagnostics;
	// nothing about the transport's own behavior depends on it.
	Role Role

	PacketsReceived     uint64
	PacketsSent         uint64
	PacketsExpired      uint64
	PacketsCorrupted    uint64
	PacketsShapeInvalid uint64

	// SinceLastPacket is the elapsed time since the last valid datagram, or
	// -1 if none has ever arrived.
	SinceLastPacket time.Duration
	HasUnconsumed   bool

	SendType    wire.ScalarType
	ReceiveType wire.ScalarType

	NumInputs  int
	NumOutputs int

	HandshakePerformed bool

	Delay welford.Snapshot
}
