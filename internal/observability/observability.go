// Package observability turns on the optional telemetry sinks: Uptrace
// traces and logs, Better Stack log shipping, Pyroscope and pprof.
package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/riskibarqy/sports-sync/internal/config"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

// Stack owns every started sink and stops them together.
type Stack struct {
	Logger *logging.Logger

	stopUptrace     func(context.Context) error
	stopBetterStack func(context.Context) error
	stopPyroscope   func() error
	pprof           *http.Server
}

// Setup builds the process logger and starts the sinks enabled in cfg. The
// returned logger is also installed as logging.Default.
func Setup(cfg config.Config) (*Stack, error) {
	logger, stopBetterStack, err := teeBetterStack(cfg, logging.NewJSON(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	logger = logger.With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)

	stopUptrace := startUptrace(cfg, logger)
	stopPyroscope, err := startPyroscope(cfg, logger)
	if err != nil {
		_ = stopUptrace(context.Background())
		_ = stopBetterStack(context.Background())
		return nil, err
	}

	return &Stack{
		Logger:          logger,
		stopUptrace:     stopUptrace,
		stopBetterStack: stopBetterStack,
		stopPyroscope:   stopPyroscope,
		pprof:           StartPprofServer(cfg, logger),
	}, nil
}

// Shutdown flushes every sink concurrently. Better Stack drains last so the
// shutdown errors of the others still reach it.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}

	errs := make([]error, 3)
	var wg conc.WaitGroup
	wg.Go(func() { errs[0] = s.stopUptrace(ctx) })
	wg.Go(func() { errs[1] = s.stopPyroscope() })
	wg.Go(func() { errs[2] = stopPprofServer(ctx, s.pprof) })
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			s.Logger.Warn("telemetry shutdown failed", "error", err)
		}
	}
	return errors.Join(append(errs, s.stopBetterStack(ctx))...)
}
