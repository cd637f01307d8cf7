package config

import (
	"github.com/kelseyhightower/envconfig"
)

// FTPWorker holds the ftp worker configuration.
type FTPWorker struct {
	Environment

	Kafka
	FTP
	BackendClient
	FTPWorkerConfig

	// Backend is loaded separately from the configuration files.
	Backend *Backend `ignored:"true"`
}

// FTPWorkerConfig holds the configuration for the ftp worker.
type FTPWorkerConfig struct {
	ParallelismLimit int      `envconfig:"FTP_WORKER_PARALLELISM_LIMIT" default:"1"`
	ConfigFiles      []string `envconfig:"FTP_WORKER_CONFIG_FILES" default:"worker.toml,/etc/ftp-worker/worker.toml"`
}

// InitFTPWorkerConfig initializes the ftp worker configuration.
func InitFTPWorkerConfig() (*FTPWorker, error) {
	var cfg FTPWorker
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, err
	}

	backend, err := LoadBackend(cfg.ConfigFiles...)
	if err != nil {
		return nil, err
	}
	cfg.Backend = backend

	return &cfg, nil
}
