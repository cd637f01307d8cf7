package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitesh22rana/ftpworker/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "worker.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadBackend(t *testing.T) {
	content := `
[backend]
hostname = "https://backend.local"
username = "operator@example.com"
password = "from-file"
`

	tests := []struct {
		name    string
		env     map[string]string
		paths   func(t *testing.T) []string
		want    *config.Backend
		wantErr bool
	}{
		{
			name: "success: values from file",
			paths: func(t *testing.T) []string {
				return []string{writeConfigFile(t, content)}
			},
			want: &config.Backend{
				Hostname: "https://backend.local",
				Username: "operator@example.com",
				Password: "from-file",
			},
		},
		{
			name: "success: environment takes precedence over file",
			env: map[string]string{
				"BACKEND_PASSWORD": "from-env",
			},
			paths: func(t *testing.T) []string {
				return []string{writeConfigFile(t, content)}
			},
			want: &config.Backend{
				Hostname: "https://backend.local",
				Username: "operator@example.com",
				Password: "from-env",
			},
		},
		{
			name: "success: first existing file wins",
			paths: func(t *testing.T) []string {
				return []string{
					filepath.Join(t.TempDir(), "missing.toml"),
					writeConfigFile(t, content),
					writeConfigFile(t, "[backend]\nhostname = \"other\"\n"),
				}
			},
			want: &config.Backend{
				Hostname: "https://backend.local",
				Username: "operator@example.com",
				Password: "from-file",
			},
		},
		{
			name: "success: no file, environment only",
			env: map[string]string{
				"BACKEND_HOSTNAME": "https://env.local",
			},
			paths: func(t *testing.T) []string {
				return []string{filepath.Join(t.TempDir(), "missing.toml")}
			},
			want: &config.Backend{
				Hostname: "https://env.local",
			},
		},
		{
			name: "error: invalid file",
			paths: func(t *testing.T) []string {
				return []string{writeConfigFile(t, "[backend\nhostname = ")}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BACKEND_HOSTNAME", "")
			t.Setenv("BACKEND_USERNAME", "")
			t.Setenv("BACKEND_PASSWORD", "")
			os.Unsetenv("BACKEND_HOSTNAME")
			os.Unsetenv("BACKEND_USERNAME")
			os.Unsetenv("BACKEND_PASSWORD")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := config.LoadBackend(tt.paths(t)...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
