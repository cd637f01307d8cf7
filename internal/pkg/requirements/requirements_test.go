package requirements_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobsmodel "github.com/hitesh22rana/ftpworker/internal/model/jobs"
	"github.com/hitesh22rana/ftpworker/internal/pkg/requirements"
)

func TestMeets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(existing, []byte("ok"), 0o600))
	missing := filepath.Join(dir, "absent.txt")

	tests := []struct {
		name        string
		req         *jobsmodel.Requirements
		want        bool
		wantMissing []string
	}{
		{
			name: "nil requirements",
			req:  nil,
			want: true,
		},
		{
			name: "empty paths",
			req:  &jobsmodel.Requirements{},
			want: true,
		},
		{
			name: "all paths exist",
			req:  &jobsmodel.Requirements{Paths: []string{existing, dir}},
			want: true,
		},
		{
			name:        "one path missing",
			req:         &jobsmodel.Requirements{Paths: []string{existing, missing}},
			want:        false,
			wantMissing: []string{missing},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, requirements.Meets(tt.req))
			assert.Equal(t, tt.wantMissing, requirements.Missing(tt.req))
		})
	}
}
