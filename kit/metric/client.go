// Package metric provides RED-style instrumentation for service
// middleware.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/plantops/factoryd/kit/platform/errors"
)

// REDClient is a metrics client for requests, errors, and durations
// (RED) of a service.
type REDClient struct {
	reqs *prometheus.CounterVec
	errs *prometheus.CounterVec
	durs *prometheus.HistogramVec
}

// New creates a new REDClient. The service name becomes part of the
// metric namespace, so each wrapped service reports separately.
func New(reg prometheus.Registerer, service string) *REDClient {
	client := &REDClient{
		reqs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "service",
			Subsystem: service,
			Name:      "call_total",
			Help:      "Number of calls",
		}, []string{"method"}),

		errs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "service",
			Subsystem: service,
			Name:      "error_total",
			Help:      "Number of errors encountered",
		}, []string{"method", "code"}),

		durs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "service",
			Subsystem: service,
			Name:      "duration",
			Help:      "Duration of calls",
			Buckets:   prometheus.ExponentialBuckets(0.001, 5, 7),
		}, []string{"method"}),
	}

	reg.MustRegister(client.reqs, client.errs, client.durs)

	return client
}

// RecordFn records the result of a call. It returns the given error
// unchanged so it can wrap a return statement.
type RecordFn func(err error) error

// Record returns a record fn that is called on the fully executed
// request. Start the clock by calling Record at the top of the method.
func (c *REDClient) Record(method string) RecordFn {
	start := time.Now()
	return func(err error) error {
		c.reqs.With(prometheus.Labels{"method": method}).Inc()

		if err != nil {
			c.errs.With(prometheus.Labels{
				"method": method,
				"code":   errors.ErrorCode(err),
			}).Inc()
		}

		c.durs.With(prometheus.Labels{"method": method}).Observe(time.Since(start).Seconds())

		return err
	}
}
