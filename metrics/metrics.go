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

// Package metrics is a Prometheus-backed session.Recorder: one set of
// counters and a histogram per named link, registered lazily on first use so
// a process that never opens a link never pays for registration.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "excavator_link"

// Recorder implements session.Recorder against a prometheus.Registerer. Link
// identifies which session these observations belong to (e.g. "boom",
// "track-left") and becomes the "link" label on every series.
type Recorder struct {
	link string

	received     prometheus.Counter
	sent         prometheus.Counter
	expired      prometheus.Counter
	corrupted    prometheus.Counter
	shapeInvalid prometheus.Counter
	interArrival prometheus.Histogram
}

// interArrivalBuckets spans 1ms to ~2s, covering the full plausible range
// between a high-rate control loop and a near-stalled link.
var interArrivalBuckets = prometheus.ExponentialBuckets(0.001, 2, 12)

var (
	regOnce sync.Once
	reg     = prometheus.NewRegistry()
)

// Registry returns the process-wide registry metrics are registered against.
// A cmd/udplinkctl-style binary exposes this via promhttp.HandlerFor.
func Registry() *prometheus.Registry {
	regOnce.Do(func() {})
	return reg
}

// New creates and registers the counter/histogram set for one named link.
// Registering the same link twice panics, matching prometheus's own
// AlreadyRegisteredError contract; callers construct one Recorder per link
// for the lifetime of the process.
func New(link string) *Recorder {
	labels := prometheus.Labels{"link": link}

	r := &Recorder{
		link: link,
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "packets_received_total",
			Help:        "Valid data frames received and published to get_latest.",
			ConstLabels: labels,
		}),
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "packets_sent_total",
			Help:        "Data frames successfully handed to the socket for transmission.",
			ConstLabels: labels,
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "packets_expired_total",
			Help:        "Payloads discarded by get_latest for exceeding local_max_age.",
			ConstLabels: labels,
		}),
		corrupted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "packets_corrupted_total",
			Help:        "Datagrams of at least two bytes that failed CRC verification.",
			ConstLabels: labels,
		}),
		shapeInvalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "packets_shape_invalid_total",
			Help:        "Datagrams discarded for not matching the negotiated frame length.",
			ConstLabels: labels,
		}),
		interArrival: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "inter_arrival_seconds",
			Help:        "Time between successive valid data frames from the peer.",
			ConstLabels: labels,
			Buckets:     interArrivalBuckets,
		}),
	}

	reg.MustRegister(r.received, r.sent, r.expired, r.corrupted, r.shapeInvalid, r.interArrival)

	return r
}

func (r *Recorder) IncReceived()     { r.received.Inc() }
func (r *Recorder) IncSent()         { r.sent.Inc() }
func (r *Recorder) IncExpired()      { r.expired.Inc() }
func (r *Recorder) IncCorrupted()    { r.corrupted.Inc() }
func (r *Recorder) IncShapeInvalid() { r.shapeInvalid.Inc() }

func (r *Recorder) ObserveInterArrival(d time.Duration) {
	r.interArrival.Observe(d.Seconds())
}

// Received, Sent, Expired, Corrupted, ShapeInvalid and InterArrival expose
// the underlying collectors for assertions and for manual registration
// against a non-default registry.
func (r *Recorder) Received() prometheus.Counter     { return r.received }
func (r *Recorder) Sent() prometheus.Counter         { return r.sent }
func (r *Recorder) Expired() prometheus.Counter      { return r.expired }
func (r *Recorder) Corrupted() prometheus.Counter    { return r.corrupted }
func (r *Recorder) ShapeInvalid() prometheus.Counter { return r.shapeInvalid }
func (r *Recorder) InterArrival() prometheus.Histogram { return r.interArrival }
