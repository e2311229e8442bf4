package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Options represents command line options. Every option can also be set
// through its environment variable.
type Options struct {
	Initial     int64         `long:"initial" env:"LEDGER_INITIAL" default:"0" description:"initial balance of the ledger"`
	Withdraw    int64         `long:"withdraw" env:"LEDGER_WITHDRAW" default:"500" description:"amount each withdrawer takes"`
	Deposit     int64         `long:"deposit" env:"LEDGER_DEPOSIT" default:"500" description:"amount the depositor adds per withdrawer"`
	Withdrawers int           `long:"withdrawers" env:"LEDGER_WITHDRAWERS" default:"1" description:"number of concurrent withdrawers"`
	Timeout     time.Duration `long:"timeout" env:"LEDGER_TIMEOUT" default:"5s" description:"how long a withdrawer waits for funds"`
	Limit       int           `long:"limit" env:"LEDGER_LIMIT" default:"-1" description:"maximum number of operations in flight, negative for no limit"`
	LogLevel    string        `long:"log-level" env:"LEDGER_LOG_LEVEL" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"log level"`
	LogFormat   string        `long:"log-format" env:"LEDGER_LOG_FORMAT" default:"text" choice:"text" choice:"json" description:"log format"`
	MetricsAddr string        `long:"metrics-addr" env:"LEDGER_METRICS_ADDR" description:"address to serve Prometheus metrics on, e.g. :2112"`
}

func newLogger(opts Options) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	switch opts.LogFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.LogFormat)
	}
	return log, nil
}
