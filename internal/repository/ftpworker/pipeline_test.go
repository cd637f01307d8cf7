package ftpworker_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	jobsmodel "github.com/hitesh22rana/ftpworker/internal/model/jobs"
	ftpmock "github.com/hitesh22rana/ftpworker/internal/pkg/ftp/mock"
	"github.com/hitesh22rana/ftpworker/internal/pkg/kafka"
	"github.com/hitesh22rana/ftpworker/internal/pkg/params"
	paramsmock "github.com/hitesh22rana/ftpworker/internal/pkg/params/mock"
	"github.com/hitesh22rana/ftpworker/internal/pkg/transfer"
	"github.com/hitesh22rana/ftpworker/internal/repository/ftpworker"
	ftpworkermock "github.com/hitesh22rana/ftpworker/internal/repository/ftpworker/mock"
)

const jobID = "job-42"

func param(id, value string) jobsmodel.Parameter {
	//nolint:errchkjson // Marshaling a string never fails.
	raw, _ := json.Marshal(value)
	return jobsmodel.Parameter{ID: id, Type: "string", Value: raw}
}

func credentialParam(id, name string) jobsmodel.Parameter {
	p := param(id, name)
	p.Type = jobsmodel.ParameterTypeCredential.ToString()
	return p
}

func requirementsParam(paths ...string) jobsmodel.Parameter {
	//nolint:errchkjson // Marshaling a string slice never fails.
	raw, _ := json.Marshal(jobsmodel.Requirements{Paths: paths})
	return jobsmodel.Parameter{ID: jobsmodel.ParamRequirements, Type: "requirements", Value: raw}
}

func message(t *testing.T, id string, parameters ...jobsmodel.Parameter) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"job_id":     id,
		"parameters": parameters,
	})
	require.NoError(t, err)
	return body
}

type deps struct {
	publisher *ftpworkermock.MockPublisher
	transfer  *ftpworkermock.MockTransferer
	secrets   *paramsmock.MockSecretResolver
}

func newRepository(t *testing.T) (*ftpworker.Repository, *deps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	d := &deps{
		publisher: ftpworkermock.NewMockPublisher(ctrl),
		transfer:  ftpworkermock.NewMockTransferer(ctrl),
		secrets:   paramsmock.NewMockSecretResolver(ctrl),
	}

	repo := ftpworker.New(&ftpworker.Config{
		ParallelismLimit: 1,
		Topics: ftpworker.Topics{
			Completed: kafka.TopicJobFTPCompleted,
			Error:     kafka.TopicJobFTPError,
		},
	}, ftpworker.NewValidator(), &ftpworker.Services{
		Publisher: d.publisher,
		Transfer:  d.transfer,
		Params:    params.New(d.secrets),
	}, nil)

	return repo, d
}

// expectPublish expects exactly one event on topic and stores its payload in dest.
func expectPublish(p *ftpworkermock.MockPublisher, topic string, key any, dest *[]byte) {
	p.EXPECT().Publish(gomock.Any(), topic, key, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _, value []byte) error {
			*dest = value
			return nil
		}).Times(1)
}

func decodeMap(t *testing.T, raw []byte) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestHandleMessage_EnvelopeErrors(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{name: "not json", body: []byte("not json")},
		{name: "json array", body: []byte(`[1,2,3]`)},
		{name: "missing job id", body: []byte(`{"parameters":[]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, d := newRepository(t)

			var published []byte
			expectPublish(d.publisher, kafka.TopicJobFTPError, gomock.Nil(), &published)

			outcome := repo.HandleMessage(t.Context(), tt.body)
			assert.Equal(t, ftpworker.OutcomeErrored, outcome)

			event := decodeMap(t, published)
			assert.NotContains(t, event, "job_id")
			assert.Equal(t, "job_ftp", event["type"])
			assert.Equal(t, string(tt.body), event["body"])
			assert.NotEmpty(t, event["error"])
		})
	}
}

func TestHandleMessage_MalformedParametersKeepJobID(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{
			name: "parameters is not a list",
			body: []byte(`{"job_id":"job-42","parameters":"oops"}`),
		},
		{
			name: "parameter type is not a string",
			body: []byte(`{"job_id":"job-42","parameters":[{"id":"source_path","type":1,"value":"/a"}]}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, d := newRepository(t)

			var published []byte
			expectPublish(d.publisher, kafka.TopicJobFTPError, []byte(jobID), &published)

			outcome := repo.HandleMessage(t.Context(), tt.body)
			assert.Equal(t, ftpworker.OutcomeErrored, outcome)

			event := decodeMap(t, published)
			assert.Equal(t, jobID, event["job_id"])
			assert.Equal(t, "job_ftp", event["type"])
			assert.Equal(t, string(tt.body), event["body"])
			assert.Contains(t, event["error"], "invalid job parameters")
		})
	}
}

func TestHandleMessage_Dispatch(t *testing.T) {
	tests := []struct {
		name          string
		parameters    []jobsmodel.Parameter
		wantDirection jobsmodel.Direction
		wantLocal     string
		wantRemote    *transfer.Remote
	}{
		{
			name: "download when the source carries a hostname",
			parameters: []jobsmodel.Parameter{
				param("source_path", "/a/b.bin"),
				param("source_hostname", "ftp.example.com"),
				param("source_username", "user"),
				param("source_password", "pass"),
				param("destination_path", "/tmp/x/y.bin"),
			},
			wantDirection: jobsmodel.DirectionDownload,
			wantLocal:     "/tmp/x/y.bin",
			wantRemote: &transfer.Remote{
				Hostname: "ftp.example.com",
				Path:     "/a/b.bin",
				Username: "user",
				Password: "pass",
			},
		},
		{
			name: "upload when the destination carries a hostname",
			parameters: []jobsmodel.Parameter{
				param("source_path", "/data/out.mp4"),
				param("destination_path", "/videos/out.mp4"),
				param("destination_prefix", "/srv"),
				param("destination_hostname", "ftps.example.com"),
				param("destination_username", "uploader"),
				param("destination_password", "secret"),
			},
			wantDirection: jobsmodel.DirectionUpload,
			wantLocal:     "/data/out.mp4",
			wantRemote: &transfer.Remote{
				Hostname: "ftps.example.com",
				Path:     "/videos/out.mp4",
				Prefix:   "/srv",
				Username: "uploader",
				Password: "secret",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, d := newRepository(t)

			d.transfer.EXPECT().Transfer(gomock.Any(), tt.wantDirection, tt.wantLocal, tt.wantRemote).Return(nil)

			var published []byte
			expectPublish(d.publisher, kafka.TopicJobFTPCompleted, []byte(jobID), &published)

			outcome := repo.HandleMessage(t.Context(), message(t, jobID, tt.parameters...))
			assert.Equal(t, ftpworker.OutcomeCompleted, outcome)

			assert.JSONEq(t, `{"status":"completed","job_id":"job-42"}`, string(published))
		})
	}
}

func TestHandleMessage_JobErrors(t *testing.T) {
	tests := []struct {
		name        string
		parameters  []jobsmodel.Parameter
		mock        func(d *deps)
		wantMessage string
	}{
		{
			name: "neither side carries a hostname",
			parameters: []jobsmodel.Parameter{
				param("source_path", "/a"),
				param("destination_path", "/b"),
			},
			mock:        func(_ *deps) {},
			wantMessage: "bad job order parameters",
		},
		{
			name:        "no parameters at all",
			mock:        func(_ *deps) {},
			wantMessage: "bad job order parameters",
		},
		{
			name: "both sides carry a hostname",
			parameters: []jobsmodel.Parameter{
				param("source_path", "/a"),
				param("source_hostname", "one.example.com"),
				param("destination_path", "/b"),
				param("destination_hostname", "two.example.com"),
			},
			mock:        func(_ *deps) {},
			wantMessage: "bad job order parameters",
		},
		{
			name: "missing source path",
			parameters: []jobsmodel.Parameter{
				param("source_hostname", "ftp.example.com"),
				param("destination_path", "/b"),
			},
			mock:        func(_ *deps) {},
			wantMessage: "invalid job parameters: missing required parameter source_path",
		},
		{
			name: "credential resolution failure",
			parameters: []jobsmodel.Parameter{
				param("source_path", "/a"),
				param("source_hostname", "ftp.example.com"),
				credentialParam("source_password", "ftp_password"),
				param("destination_path", "/b"),
			},
			mock: func(d *deps) {
				d.secrets.EXPECT().Resolve(gomock.Any(), "ftp_password").
					Return("", status.Error(codes.Unauthenticated, "unable to obtain token"))
			},
			wantMessage: "unable to obtain token",
		},
		{
			name: "missing backend configuration",
			parameters: []jobsmodel.Parameter{
				param("source_path", "/a"),
				param("source_hostname", "ftp.example.com"),
				credentialParam("source_password", "ftp_password"),
				param("destination_path", "/b"),
			},
			mock: func(d *deps) {
				d.secrets.EXPECT().Resolve(gomock.Any(), "ftp_password").
					Return("", status.Error(codes.FailedPrecondition, "missing 'hostname' configuration value"))
			},
			wantMessage: "missing 'hostname' configuration value",
		},
		{
			name: "transfer failure",
			parameters: []jobsmodel.Parameter{
				param("source_path", "/a"),
				param("source_hostname", "ftp.example.com"),
				param("destination_path", "/b"),
			},
			mock: func(d *deps) {
				d.transfer.EXPECT().Transfer(gomock.Any(), jobsmodel.DirectionDownload, "/b", gomock.Any()).
					Return(status.Error(codes.Unavailable, "failed to connect to ftp.example.com:21: connection refused"))
			},
			wantMessage: "failed to connect to ftp.example.com:21: connection refused",
		},
		{
			name: "invalid requirements parameter",
			parameters: []jobsmodel.Parameter{
				{ID: "requirements", Type: "requirements", Value: json.RawMessage(`"not an object"`)},
			},
			mock:        func(_ *deps) {},
			wantMessage: "invalid value for parameter requirements",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, d := newRepository(t)
			tt.mock(d)

			body := message(t, jobID, tt.parameters...)

			var published []byte
			expectPublish(d.publisher, kafka.TopicJobFTPError, []byte(jobID), &published)

			outcome := repo.HandleMessage(t.Context(), body)
			assert.Equal(t, ftpworker.OutcomeErrored, outcome)

			event := decodeMap(t, published)
			assert.Equal(t, jobID, event["job_id"])
			assert.Equal(t, "job_ftp", event["type"])
			assert.Equal(t, string(body), event["body"])
			assert.Contains(t, event["error"], tt.wantMessage)
		})
	}
}

func TestHandleMessage_CredentialIndirection(t *testing.T) {
	repo, d := newRepository(t)

	d.secrets.EXPECT().Resolve(gomock.Any(), "ftp_password").Return("s3cr3t", nil).Times(1)
	d.transfer.EXPECT().Transfer(gomock.Any(), jobsmodel.DirectionDownload, "/tmp/y.bin", &transfer.Remote{
		Hostname: "ftp.example.com",
		Path:     "/a/b.bin",
		Username: "user",
		Password: "s3cr3t",
	}).Return(nil)

	var published []byte
	expectPublish(d.publisher, kafka.TopicJobFTPCompleted, []byte(jobID), &published)

	outcome := repo.HandleMessage(t.Context(), message(t, jobID,
		param("source_path", "/a/b.bin"),
		param("source_hostname", "ftp.example.com"),
		param("source_username", "user"),
		credentialParam("source_password", "ftp_password"),
		param("destination_path", "/tmp/y.bin"),
	))
	assert.Equal(t, ftpworker.OutcomeCompleted, outcome)
}

func TestHandleMessage_Requirements(t *testing.T) {
	present := filepath.Join(t.TempDir(), "present")
	require.NoError(t, os.WriteFile(present, nil, 0o600))
	absent := filepath.Join(t.TempDir(), "absent")

	t.Run("unmet requirements drop the job silently", func(t *testing.T) {
		// No Publish and no Transfer expectations: any call fails the test.
		repo, _ := newRepository(t)

		outcome := repo.HandleMessage(t.Context(), message(t, jobID,
			requirementsParam(present, absent),
			param("source_path", "/a"),
			param("source_hostname", "ftp.example.com"),
			param("destination_path", "/b"),
		))
		assert.Equal(t, ftpworker.OutcomeRejected, outcome)
	})

	t.Run("met requirements proceed", func(t *testing.T) {
		repo, d := newRepository(t)

		d.transfer.EXPECT().Transfer(gomock.Any(), jobsmodel.DirectionDownload, "/b", gomock.Any()).Return(nil)

		var published []byte
		expectPublish(d.publisher, kafka.TopicJobFTPCompleted, []byte(jobID), &published)

		outcome := repo.HandleMessage(t.Context(), message(t, jobID,
			requirementsParam(present),
			param("source_path", "/a"),
			param("source_hostname", "ftp.example.com"),
			param("destination_path", "/b"),
		))
		assert.Equal(t, ftpworker.OutcomeCompleted, outcome)
	})
}

func TestHandleMessage_PublishFailureIsContained(t *testing.T) {
	repo, d := newRepository(t)

	d.transfer.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.publisher.EXPECT().Publish(gomock.Any(), kafka.TopicJobFTPCompleted, gomock.Any(), gomock.Any()).
		Return(errors.New("broker unavailable"))

	outcome := repo.HandleMessage(t.Context(), message(t, jobID,
		param("source_path", "/a"),
		param("source_hostname", "ftp.example.com"),
		param("destination_path", "/b"),
	))
	assert.Equal(t, ftpworker.OutcomeCompleted, outcome)
}

func TestHandleMessage_DownloadEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	payload := []byte("\x00binary\xffpayload\r\n")
	localPath := filepath.Join(t.TempDir(), "x", "y.bin")

	dialer := ftpmock.NewMockDialer(ctrl)
	conn := ftpmock.NewMockConn(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), "ftp.example.com", false).Return(conn, nil)
	conn.EXPECT().Login("user", "pass").Return(nil)
	conn.EXPECT().Retr("/a/b.bin").Return(io.NopCloser(bytes.NewReader(payload)), nil)
	conn.EXPECT().Quit().Return(nil)

	publisher := ftpworkermock.NewMockPublisher(ctrl)
	var published []byte
	expectPublish(publisher, kafka.TopicJobFTPCompleted, []byte(jobID), &published)

	repo := ftpworker.New(&ftpworker.Config{
		Topics: ftpworker.Topics{
			Completed: kafka.TopicJobFTPCompleted,
			Error:     kafka.TopicJobFTPError,
		},
	}, ftpworker.NewValidator(), &ftpworker.Services{
		Publisher: publisher,
		Transfer:  transfer.New(&transfer.Config{}, dialer),
		Params:    params.New(paramsmock.NewMockSecretResolver(ctrl)),
	}, nil)

	outcome := repo.HandleMessage(t.Context(), message(t, jobID,
		param("source_path", "/a/b.bin"),
		param("source_hostname", "ftp.example.com"),
		param("source_username", "user"),
		param("source_password", "pass"),
		param("destination_path", localPath),
	))
	require.Equal(t, ftpworker.OutcomeCompleted, outcome)

	got, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.JSONEq(t, `{"status":"completed","job_id":"job-42"}`, string(published))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "completed", ftpworker.OutcomeCompleted.String())
	assert.Equal(t, "rejected", ftpworker.OutcomeRejected.String())
	assert.Equal(t, "errored", ftpworker.OutcomeErrored.String())
	assert.Equal(t, "unknown", ftpworker.Outcome(99).String())
}
