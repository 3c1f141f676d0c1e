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

// Recorder mirrors session counters and timing into an external metrics
// sink. The session never depends on a concrete metrics backend; callers
// supply an implementation via WithRecorder.
type Recorder interface {
	IncReceived()
	IncSent()
	IncExpired()
	IncCorrupted()
	IncShapeInvalid()
	ObserveInterArrival(d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) IncReceived()                      {}
func (noopRecorder) IncSent()                          {}
func (noopRecorder) IncExpired()                       {}
func (noopRecorder) IncCorrupted()                     {}
func (noopRecorder) IncShapeInvalid()                  {}
func (noopRecorder) ObserveInterArrival(time.Duration) {}
