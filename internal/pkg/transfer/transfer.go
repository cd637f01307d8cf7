package transfer

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	jobsmodel "github.com/hitesh22rana/ftpworker/internal/model/jobs"
	"github.com/hitesh22rana/ftpworker/internal/pkg/ftp"
	loggerpkg "github.com/hitesh22rana/ftpworker/internal/pkg/logger"
)

const (
	anonymousUser     = "anonymous"
	anonymousPassword = "anonymous@"

	localDirPerm = 0o755
)

// Remote is the remote side of a transfer.
type Remote struct {
	Hostname string
	Path     string
	// Prefix is prepended to Path on upload.
	Prefix   string
	Username string
	Password string
}

// Config holds the transfer engine configuration.
type Config struct {
	DownloadTLS bool
	UploadTLS   bool
}

// Engine moves one file between the local filesystem and an FTP server.
// Connections and file handles live for a single transfer and are never shared.
// A failed transfer may leave a partially written file behind.
type Engine struct {
	cfg    *Config
	dialer ftp.Dialer
}

// New creates a new transfer engine.
func New(cfg *Config, dialer ftp.Dialer) *Engine {
	return &Engine{
		cfg:    cfg,
		dialer: dialer,
	}
}

// Transfer runs the transfer in the given direction.
func (e *Engine) Transfer(ctx context.Context, direction jobsmodel.Direction, localPath string, remote *Remote) error {
	switch direction {
	case jobsmodel.DirectionDownload:
		return e.Download(ctx, localPath, remote)
	case jobsmodel.DirectionUpload:
		return e.Upload(ctx, localPath, remote)
	default:
		return status.Errorf(codes.InvalidArgument, "invalid transfer direction: %s", direction)
	}
}

// Download retrieves remote.Path into localPath, creating the local parent directories first.
func (e *Engine) Download(ctx context.Context, localPath string, remote *Remote) error {
	if err := os.MkdirAll(filepath.Dir(localPath), localDirPerm); err != nil {
		return status.Errorf(codes.Internal, "failed to create local directory: %v", err)
	}

	conn, err := e.open(ctx, remote, e.cfg.DownloadTLS)
	if err != nil {
		return err
	}
	defer quit(ctx, conn)

	r, err := conn.Retr(remote.Path)
	if err != nil {
		return status.Errorf(codes.Unavailable, "failed to retrieve %s: %v", remote.Path, err)
	}
	//nolint:errcheck // Closed below, a second close is a no-op.
	defer r.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to create local file: %v", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return status.Errorf(codes.Unavailable, "failed to download %s: %v", remote.Path, err)
	}

	// The final server reply (e.g. 426 or 451 on abort) only surfaces on close.
	if err := r.Close(); err != nil {
		return status.Errorf(codes.Unavailable, "failed to download %s: %v", remote.Path, err)
	}

	if err := f.Sync(); err != nil {
		return status.Errorf(codes.Internal, "failed to write local file: %v", err)
	}

	if err := f.Close(); err != nil {
		return status.Errorf(codes.Internal, "failed to write local file: %v", err)
	}

	loggerpkg.FromContext(ctx).Info("file downloaded",
		zap.String("hostname", remote.Hostname),
		zap.String("source", remote.Path),
		zap.String("destination", localPath),
		zap.Int64("bytes", n),
	)

	return nil
}

// Upload stores localPath at remote.Prefix+remote.Path, creating the remote directories first.
func (e *Engine) Upload(ctx context.Context, localPath string, remote *Remote) error {
	f, err := os.Open(localPath)
	if err != nil {
		return status.Errorf(codes.NotFound, "failed to open local file: %v", err)
	}
	defer f.Close()

	conn, err := e.open(ctx, remote, e.cfg.UploadTLS)
	if err != nil {
		return err
	}
	defer quit(ctx, conn)

	ftp.EnsurePath(ctx, conn, remote.Prefix, remote.Path)

	target := remote.Prefix + remote.Path
	loggerpkg.FromContext(ctx).Info("starting upload",
		zap.String("hostname", remote.Hostname),
		zap.String("source", localPath),
		zap.String("destination", target),
	)

	if err := conn.Stor(target, f); err != nil {
		return status.Errorf(codes.Unavailable, "failed to upload %s: %v", target, err)
	}

	return nil
}

// open dials the remote host and logs in, anonymously when no username is given.
func (e *Engine) open(ctx context.Context, remote *Remote, useTLS bool) (ftp.Conn, error) {
	conn, err := e.dialer.Dial(ctx, remote.Hostname, useTLS)
	if err != nil {
		return nil, err
	}

	username, password := remote.Username, remote.Password
	if username == "" {
		username = anonymousUser
	}
	if username == anonymousUser && password == "" {
		password = anonymousPassword
	}

	if err := conn.Login(username, password); err != nil {
		quit(ctx, conn)
		return nil, status.Errorf(codes.Unauthenticated, "failed to login to %s: %v", remote.Hostname, err)
	}

	return conn, nil
}

// quit closes the control connection.
func quit(ctx context.Context, conn ftp.Conn) {
	if err := conn.Quit(); err != nil {
		loggerpkg.FromContext(ctx).Debug("failed to close ftp connection", zap.Error(err))
	}
}
