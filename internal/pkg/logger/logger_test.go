package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	loggerpkg "github.com/hitesh22rana/ftpworker/internal/pkg/logger"
)

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	tests := []struct {
		name     string
		ctx      context.Context
		wantLogs int
	}{
		{
			name:     "logger present",
			ctx:      loggerpkg.WithLogger(t.Context(), logger),
			wantLogs: 1,
		},
		{
			name:     "logger missing falls back to nop",
			ctx:      t.Context(),
			wantLogs: 0,
		},
		{
			name:     "wrong value type falls back to nop",
			ctx:      context.WithValue(t.Context(), struct{}{}, "not a logger"),
			wantLogs: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := logs.Len()
			loggerpkg.FromContext(tt.ctx).Info("hello")
			assert.Equal(t, tt.wantLogs, logs.Len()-before)
		})
	}
}
