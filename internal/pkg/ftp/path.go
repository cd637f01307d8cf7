package ftp

import (
	"context"
	"strings"

	"go.uber.org/zap"

	loggerpkg "github.com/hitesh22rana/ftpworker/internal/pkg/logger"
)

// EnsurePath creates, under prefix, every directory of destinationPath except its last segment.
// Creation is best-effort: concurrent workers may race on the same chain, so failures are
// logged and swallowed and the following store decides whether the upload succeeds.
func EnsurePath(ctx context.Context, conn Conn, prefix, destinationPath string) {
	logger := loggerpkg.FromContext(ctx)

	levels := strings.Split(destinationPath, "/")
	path := prefix
	for _, level := range levels[:len(levels)-1] {
		if level == "" {
			continue
		}

		path = path + "/" + level
		if exists(conn, path) {
			continue
		}

		if err := conn.MakeDir(path); err != nil {
			logger.Info("failed to create remote directory",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}
}

// exists probes for a remote directory by entering it and coming back.
func exists(conn Conn, path string) bool {
	pwd, err := conn.CurrentDir()
	if err != nil {
		return false
	}

	if err := conn.ChangeDir(path); err != nil {
		return false
	}

	//nolint:errcheck // Best effort, the directory is known to exist at this point.
	conn.ChangeDir(pwd)
	return true
}
