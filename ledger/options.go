package ledger

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// An Option configures a Ledger at construction.
type Option func(*options)

type options struct {
	name       string
	logger     logrus.FieldLogger
	registerer prometheus.Registerer
}

func defaultOptions() options {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return options{
		name:   "default",
		logger: log,
	}
}

// WithName sets the name under which the ledger logs and reports metrics. Two
// ledgers registered with the same registerer must have different names.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger. By default, nothing is logged.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithRegisterer registers the ledger's metrics with r. By default, metrics
// are kept but not registered anywhere.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}
