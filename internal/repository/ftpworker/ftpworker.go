//go:generate mockgen -source=$GOFILE -package=$GOPACKAGE -destination=./mock/$GOFILE

package ftpworker

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	jobsmodel "github.com/hitesh22rana/ftpworker/internal/model/jobs"
	loggerpkg "github.com/hitesh22rana/ftpworker/internal/pkg/logger"
	svcpkg "github.com/hitesh22rana/ftpworker/internal/pkg/svc"
	"github.com/hitesh22rana/ftpworker/internal/pkg/transfer"
)

// Publisher publishes result events on the bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Transferer moves a single file in the given direction.
type Transferer interface {
	Transfer(ctx context.Context, direction jobsmodel.Direction, localPath string, remote *transfer.Remote) error
}

// ParameterResolver extracts values from the parameters of a job.
type ParameterResolver interface {
	GetString(ctx context.Context, parameters []jobsmodel.Parameter, key string) (string, error)
	Decode(ctx context.Context, parameters []jobsmodel.Parameter, key string, dest any) (bool, error)
}

// Services represents the services used by the ftp worker.
type Services struct {
	Publisher Publisher
	Transfer  Transferer
	Params    ParameterResolver
}

// Topics holds the names of the result topics.
type Topics struct {
	Completed string
	Error     string
}

// Config represents the repository constants configuration.
type Config struct {
	ParallelismLimit int
	Topics           Topics
}

type counters struct {
	completed metric.Int64Counter
	errored   metric.Int64Counter
	rejected  metric.Int64Counter
}

// Repository provides the ftp worker repository.
type Repository struct {
	tp        trace.Tracer
	cfg       *Config
	kfk       *kgo.Client
	validator *validator.Validate
	svc       *Services
	counters  counters
}

// New creates a new ftp worker repository.
func New(cfg *Config, validator *validator.Validate, svc *Services, kfk *kgo.Client) *Repository {
	meter := otel.Meter(svcpkg.Info().GetName())

	return &Repository{
		tp:        otel.Tracer(svcpkg.Info().GetName()),
		cfg:       cfg,
		kfk:       kfk,
		validator: validator,
		svc:       svc,
		counters: counters{
			completed: newCounter(meter, "ftp_worker.jobs.completed", "Number of transfer jobs completed."),
			errored:   newCounter(meter, "ftp_worker.jobs.errored", "Number of transfer jobs that failed."),
			rejected:  newCounter(meter, "ftp_worker.jobs.rejected", "Number of transfer jobs dropped on unmet requirements."),
		},
	}
}

// NewValidator returns a validator reporting struct fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

func newCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return noop.Int64Counter{}
	}

	return counter
}

// Run consumes the transfer jobs until the context is canceled or the client is closed.
func (r *Repository) Run(ctx context.Context) error {
	logger := loggerpkg.FromContext(ctx)

	limit := r.cfg.ParallelismLimit
	if limit <= 0 {
		limit = 1
	}

	for {
		// Check context cancellation before processing
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Continue processing
		}

		fetches := r.kfk.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return status.Error(codes.Canceled, "client closed")
		}

		if fetches.Empty() {
			continue
		}

		for _, fetchErr := range fetches.Errors() {
			logger.Error("error while fetching records",
				zap.String("topic", fetchErr.Topic),
				zap.Int32("partition", fetchErr.Partition),
				zap.Error(fetchErr.Err),
			)
		}

		// With the default limit of 1 the records are processed one at a time, in delivery order
		eg, groupCtx := errgroup.WithContext(ctx)
		eg.SetLimit(limit)

		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()
			eg.Go(func() error {
				r.processRecord(groupCtx, record)
				return nil
			})
		}

		// Wait for all the goroutines to finish
		if err := eg.Wait(); err != nil {
			logger.Error("error while running goroutines", zap.Error(err))
		}
	}
}

// processRecord handles a single record and commits it whatever the outcome.
func (r *Repository) processRecord(ctx context.Context, record *kgo.Record) {
	logger := loggerpkg.FromContext(ctx)

	ctxWithTrace, span := r.tp.Start(ctx, "ftpworker.Run")
	defer span.End()

	outcome := r.HandleMessage(ctxWithTrace, record.Value)

	// Commit the record even if the job failed, redelivery is not handled by the worker
	if err := r.kfk.CommitRecords(ctxWithTrace, record); err != nil {
		logger.Error(
			"failed to commit record",
			zap.Any("ctx", ctxWithTrace),
			zap.String("topic", record.Topic),
			zap.Int64("offset", record.Offset),
			zap.Int32("partition", record.Partition),
			zap.Error(err),
		)
		return
	}

	logger.Info("record processed and committed successfully",
		zap.Any("ctx", ctxWithTrace),
		zap.String("topic", record.Topic),
		zap.Int64("offset", record.Offset),
		zap.Int32("partition", record.Partition),
		zap.String("outcome", outcome.String()),
	)
}
