// Command ledgerdemo plays out the producer/consumer hand-off on a ledger:
// withdrawers arrive at the ledger, park while it is empty, and are released
// by a depositor running concurrently.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	log, err := newLogger(opts)
	if err != nil {
		logrus.WithError(err).Fatal("failed to configure logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, log); err != nil {
		log.WithError(err).Error("ledger demo failed")
		stop()
		os.Exit(1)
	}
}
