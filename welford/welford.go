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

// Package welford tracks the inter-arrival interval of valid datagrams
// using Welford's numerically stable online mean/variance algorithm.
//
// spec.md §9 resolves an open question here: despite the source naming
// this a "delay" estimator, it feeds the interval between consecutive
// valid packets (not a one-way delay, which this transport has no clock
// sync to measure), so this package and its field names call it what it
// measures: inter-arrival interval.
package welford

import (
	"math"
	"sync"
	"time"
)

// Estimator accumulates inter-arrival interval samples. The zero value is
// ready to use. All methods are safe for concurrent use.
type Estimator struct {
	mu    sync.Mutex
	count uint64
	mean  float64
	m2    float64
	min   time.Duration
	max   time.Duration
}

// Add feeds one inter-arrival interval sample into the estimator.
func (e *Estimator) Add(interval time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.count++
	x := float64(interval)
	delta := x - e.mean
	e.mean += delta / float64(e.count)
	delta2 := x - e.mean
	e.m2 += delta * delta2

	if e.count == 1 || interval < e.min {
		e.min = interval
	}
	if e.count == 1 || interval > e.max {
		e.max = interval
	}
}

// Snapshot is an immutable view of the estimator's current state.
type Snapshot struct {
	Count    uint64
	Mean     time.Duration
	StdDev   time.Duration
	Min, Max time.Duration
}

// Snapshot returns the current count, mean, sample standard deviation, and
// min/max of every interval fed to Add so far.
func (e *Estimator) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Count: e.count,
		Mean:  time.Duration(e.mean),
		Min:   e.min,
		Max:   e.max,
	}

	if e.count > 1 {
		variance := e.m2 / float64(e.count-1)
		s.StdDev = time.Duration(math.Sqrt(variance))
	}

	return s
}

// Reset discards all accumulated samples.
func (e *Estimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.count, e.mean, e.m2, e.min, e.max = 0, 0, 0, 0, 0
}
