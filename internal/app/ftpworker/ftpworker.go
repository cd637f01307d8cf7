//go:generate mockgen -source=$GOFILE -package=$GOPACKAGE -destination=./mock/$GOFILE

package ftpworker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	loggerpkg "github.com/hitesh22rana/ftpworker/internal/pkg/logger"
)

// Service provides ftp worker related operations.
type Service interface {
	Run(ctx context.Context) error
}

// Worker represents the ftp worker.
type Worker struct {
	logger *zap.Logger
	svc    Service
}

// New creates a new ftp worker.
func New(ctx context.Context, svc Service) *Worker {
	return &Worker{
		logger: loggerpkg.FromContext(ctx),
		svc:    svc,
	}
}

// Run consumes transfer jobs until shutdown.
// A canceled context or a closed client is a clean stop, not a failure.
func (w *Worker) Run(ctx context.Context) error {
	startedAt := time.Now()
	w.logger.Info("ftp worker consuming transfer jobs")

	err := w.svc.Run(ctx)
	uptime := zap.Duration("uptime", time.Since(startedAt))

	switch {
	case err == nil:
		w.logger.Info("ftp worker stopped", uptime)
	case isShutdown(err):
		w.logger.Info("ftp worker stopped on shutdown", uptime, zap.Error(err))
	default:
		w.logger.Error("ftp worker stopped unexpectedly", uptime, zap.Error(err))
	}

	return nil
}

func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled) || status.Code(err) == codes.Canceled
}
