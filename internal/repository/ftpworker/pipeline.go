package ftpworker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	jobsmodel "github.com/hitesh22rana/ftpworker/internal/model/jobs"
	loggerpkg "github.com/hitesh22rana/ftpworker/internal/pkg/logger"
	"github.com/hitesh22rana/ftpworker/internal/pkg/requirements"
	"github.com/hitesh22rana/ftpworker/internal/pkg/transfer"
)

// Outcome is the terminal state of a processed message.
type Outcome int

// Outcomes of a processed message.
const (
	OutcomeCompleted Outcome = iota
	OutcomeRejected
	OutcomeErrored
)

// String returns the name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// errBadJobOrder is returned when the direction of a transfer cannot be inferred.
var errBadJobOrder = status.Error(codes.InvalidArgument, "bad job order parameters")

// envelope is the outer shape of a job message. Parameters are decoded once the job id is known,
// so a malformed parameter list is still reported against its job.
type envelope struct {
	JobID      string          `json:"job_id" validate:"required"`
	Parameters json.RawMessage `json:"parameters"`
}

// message decodes the parameters of the envelope.
func (e *envelope) message() (*jobsmodel.Message, error) {
	msg := &jobsmodel.Message{JobID: e.JobID}
	if len(e.Parameters) == 0 {
		return msg, nil
	}

	if err := json.Unmarshal(e.Parameters, &msg.Parameters); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid job parameters: %v", err)
	}

	return msg, nil
}

// transferOrder holds the resolved parameters of a transfer.
type transferOrder struct {
	SourcePath          string `json:"source_path" validate:"required"`
	SourceHostname      string `json:"source_hostname"`
	SourceUsername      string `json:"source_username"`
	SourcePassword      string `json:"source_password"`
	DestinationPath     string `json:"destination_path" validate:"required"`
	DestinationPrefix   string `json:"destination_prefix"`
	DestinationHostname string `json:"destination_hostname"`
	DestinationUsername string `json:"destination_username"`
	DestinationPassword string `json:"destination_password"`
}

// plan infers the direction of the transfer from the side carrying a hostname.
func (o *transferOrder) plan() (jobsmodel.Direction, string, *transfer.Remote, error) {
	switch {
	case o.SourceHostname != "" && o.DestinationHostname != "":
		return "", "", nil, errBadJobOrder
	case o.SourceHostname != "":
		return jobsmodel.DirectionDownload, o.DestinationPath, &transfer.Remote{
			Hostname: o.SourceHostname,
			Path:     o.SourcePath,
			Username: o.SourceUsername,
			Password: o.SourcePassword,
		}, nil
	case o.DestinationHostname != "":
		return jobsmodel.DirectionUpload, o.SourcePath, &transfer.Remote{
			Hostname: o.DestinationHostname,
			Path:     o.DestinationPath,
			Prefix:   o.DestinationPrefix,
			Username: o.DestinationUsername,
			Password: o.DestinationPassword,
		}, nil
	default:
		return "", "", nil, errBadJobOrder
	}
}

// HandleMessage runs one job message to completion and publishes its outcome.
// Rejected jobs publish nothing. No error escapes: every failure becomes an error event.
func (r *Repository) HandleMessage(ctx context.Context, body []byte) (outcome Outcome) {
	ctx, span := r.tp.Start(ctx, "ftpworker.HandleMessage")
	defer func() {
		span.SetAttributes(attribute.String("outcome", outcome.String()))
		span.End()
	}()

	logger := loggerpkg.FromContext(ctx)

	env, err := r.decode(body)
	if err != nil {
		recordError(span, err)
		logger.Error("failed to decode job message",
			zap.String("message", string(body)),
			zap.Error(err),
		)
		r.publishError(ctx, body, "", err)
		return OutcomeErrored
	}

	span.SetAttributes(attribute.String("job_id", env.JobID))
	logger = logger.With(zap.String("job_id", env.JobID))
	ctx = loggerpkg.WithLogger(ctx, logger)
	logger.Debug("job message received", zap.String("message", string(body)))

	rejected, err := r.process(ctx, span, env)
	if err != nil {
		recordError(span, err)
		logger.Error("failed to process job",
			zap.String("message", string(body)),
			zap.Error(err),
		)
		r.publishError(ctx, body, env.JobID, err)
		return OutcomeErrored
	}

	if rejected {
		r.counters.rejected.Add(ctx, 1)
		logger.Info("job dropped, requirements are not met")
		return OutcomeRejected
	}

	r.publishCompleted(ctx, env.JobID)
	return OutcomeCompleted
}

// decode parses and validates the job envelope, leaving the parameters undecoded.
func (r *Repository) decode(body []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid job message: %v", err)
	}

	if err := r.validator.Struct(&env); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid job message: %s", validationMessage(err))
	}

	return &env, nil
}

// process gates, resolves and runs the transfer. It reports whether the job was rejected.
func (r *Repository) process(ctx context.Context, span trace.Span, env *envelope) (bool, error) {
	logger := loggerpkg.FromContext(ctx)

	msg, err := env.message()
	if err != nil {
		return false, err
	}

	var req jobsmodel.Requirements
	found, err := r.svc.Params.Decode(ctx, msg.Parameters, jobsmodel.ParamRequirements, &req)
	if err != nil {
		return false, err
	}
	if found && !requirements.Meets(&req) {
		logger.Debug("required paths do not exist", zap.Strings("paths", requirements.Missing(&req)))
		return true, nil
	}

	order, err := r.resolveOrder(ctx, msg.Parameters)
	if err != nil {
		return false, err
	}

	direction, localPath, remote, err := order.plan()
	if err != nil {
		return false, err
	}

	if err := r.validator.Struct(order); err != nil {
		return false, status.Errorf(codes.InvalidArgument, "invalid job parameters: %s", validationMessage(err))
	}

	span.SetAttributes(
		attribute.String("direction", direction.ToString()),
		attribute.String("hostname", remote.Hostname),
	)

	if err := r.svc.Transfer.Transfer(ctx, direction, localPath, remote); err != nil {
		return false, err
	}

	logger.Info("end of file transfer",
		zap.String("direction", direction.ToString()),
		zap.String("source", order.SourcePath),
		zap.String("destination", order.DestinationPath),
	)

	return false, nil
}

// resolveOrder resolves every transfer parameter, credentials included.
func (r *Repository) resolveOrder(ctx context.Context, parameters []jobsmodel.Parameter) (*transferOrder, error) {
	order := &transferOrder{}
	for _, field := range []struct {
		key  string
		dest *string
	}{
		{jobsmodel.ParamSourcePath, &order.SourcePath},
		{jobsmodel.ParamDestinationPath, &order.DestinationPath},
		{jobsmodel.ParamSourceHostname, &order.SourceHostname},
		{jobsmodel.ParamSourceUsername, &order.SourceUsername},
		{jobsmodel.ParamSourcePassword, &order.SourcePassword},
		{jobsmodel.ParamDestinationPrefix, &order.DestinationPrefix},
		{jobsmodel.ParamDestinationHostname, &order.DestinationHostname},
		{jobsmodel.ParamDestinationUsername, &order.DestinationUsername},
		{jobsmodel.ParamDestinationPassword, &order.DestinationPassword},
	} {
		value, err := r.svc.Params.GetString(ctx, parameters, field.key)
		if err != nil {
			return nil, err
		}
		*field.dest = value
	}

	return order, nil
}

// publishCompleted emits the completion event of a job.
func (r *Repository) publishCompleted(ctx context.Context, jobID string) {
	r.counters.completed.Add(ctx, 1)
	r.publish(ctx, r.cfg.Topics.Completed, jobID, jobsmodel.NewCompletedEvent(jobID))
}

// publishError emits the error event of a job, jobID is empty when the envelope could not be decoded.
func (r *Repository) publishError(ctx context.Context, body []byte, jobID string, err error) {
	r.counters.errored.Add(ctx, 1)
	r.publish(ctx, r.cfg.Topics.Error, jobID, jobsmodel.NewErrorEvent(body, jobID, status.Convert(err).Message()))
}

func (r *Repository) publish(ctx context.Context, topic, jobID string, event any) {
	logger := loggerpkg.FromContext(ctx)

	value, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to encode event", zap.String("topic", topic), zap.Error(err))
		return
	}

	var key []byte
	if jobID != "" {
		key = []byte(jobID)
	}

	if err := r.svc.Publisher.Publish(ctx, topic, key, value); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event", string(value)),
			zap.Error(err),
		)
	}
}

// validationMessage flattens validation errors into a readable message.
func validationMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err.Error()
	}

	fe := validationErrs[0]
	if fe.Tag() == "required" {
		return fmt.Sprintf("missing required parameter %s", fe.Field())
	}

	return fmt.Sprintf("invalid parameter %s", fe.Field())
}

func recordError(span trace.Span, err error) {
	span.SetStatus(otelcodes.Error, err.Error())
	span.RecordError(err)
}
