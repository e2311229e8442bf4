package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/notorious-go/sync/ledger"
	"github.com/notorious-go/sync/teller"
)

const depositor = "depositor"

// run executes the demo and returns an error if any withdrawal timed out or
// was canceled. Rejections for insufficient funds are reported but are not
// failures.
func run(ctx context.Context, opts Options, log logrus.FieldLogger) error {
	if opts.Withdrawers < 1 {
		return fmt.Errorf("need at least one withdrawer, got %v", opts.Withdrawers)
	}
	if opts.Limit == 0 {
		return fmt.Errorf("limit of zero operations in flight would block every submission")
	}

	reg := prometheus.NewRegistry()
	l := ledger.New(opts.Initial,
		ledger.WithName("demo"),
		ledger.WithLogger(log),
		ledger.WithRegisterer(reg),
	)

	if opts.MetricsAddr != "" {
		shutdown, err := serveMetrics(opts.MetricsAddr, reg, log)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	desk := teller.NewDesk[string](l)
	desk.SetLimit(opts.Limit)

	withdrawCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var g errgroup.Group
	for i := range opts.Withdrawers {
		client := fmt.Sprintf("withdrawer-%v", i+1)
		receipt := desk.Withdraw(withdrawCtx, client, opts.Withdraw)
		g.Go(func() error {
			return report(log, client, receipt)
		})
	}
	for range opts.Withdrawers {
		receipt := desk.Deposit(depositor, opts.Deposit)
		g.Go(func() error {
			return report(log, depositor, receipt)
		})
	}

	err := g.Wait()
	desk.Wait()
	log.WithFields(logrus.Fields{
		"action":  "ledger_demo_done",
		"balance": l.Balance(),
	}).Info("demo finished")
	return err
}

func report(log logrus.FieldLogger, client string, r *teller.Receipt) error {
	err := r.Err()
	entry := log.WithFields(logrus.Fields{
		"action":  "ledger_demo_receipt",
		"client":  client,
		"amount":  r.Amount(),
		"outcome": ledger.OutcomeOf(err).String(),
	})
	switch ledger.OutcomeOf(err) {
	case ledger.Completed:
		entry.Info("operation completed")
		return nil
	case ledger.Rejected:
		entry.WithError(err).Warn("operation rejected")
		return nil
	default:
		entry.WithError(err).Error("operation failed")
		return fmt.Errorf("%v: %w", client, err)
	}
}

// serveMetrics serves the registry on addr until the returned function is
// called.
func serveMetrics(addr string, reg *prometheus.Registry, log logrus.FieldLogger) (shutdown func(), err error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen for metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log.WithField("addr", lis.Addr().String()).Info("serving metrics")
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
