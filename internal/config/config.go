package config

import (
	"time"
)

const envPrefix = ""

// Environment holds the runtime environment.
type Environment struct {
	Env string `envconfig:"ENV" default:"development"`
}

// Kafka holds the bus client configuration.
type Kafka struct {
	Brokers       []string `envconfig:"KAFKA_BROKERS" required:"true"`
	ConsumeTopics []string `envconfig:"KAFKA_CONSUME_TOPICS" default:"job_ftp"`
	ConsumerGroup string   `envconfig:"KAFKA_CONSUMER_GROUP" default:"ftp-worker"`
	TLS           KafkaTLS
}

// KafkaTLS holds the TLS configuration used to reach the brokers.
type KafkaTLS struct {
	Enabled  bool   `envconfig:"KAFKA_TLS_ENABLED" default:"false"`
	CAFile   string `envconfig:"KAFKA_TLS_CA_FILE"`
	CertFile string `envconfig:"KAFKA_TLS_CERT_FILE"`
	KeyFile  string `envconfig:"KAFKA_TLS_KEY_FILE"`
}

// FTP holds the FTP/FTPS client configuration.
type FTP struct {
	DialTimeout           time.Duration `envconfig:"FTP_DIAL_TIMEOUT" default:"30s"`
	DownloadTLS           bool          `envconfig:"FTP_DOWNLOAD_TLS" default:"false"`
	UploadTLS             bool          `envconfig:"FTP_UPLOAD_TLS" default:"true"`
	TLSInsecureSkipVerify bool          `envconfig:"FTP_TLS_INSECURE_SKIP_VERIFY" default:"false"`
}

// BackendClient holds the transport settings used to reach the credential service.
type BackendClient struct {
	RequestTimeout          time.Duration `envconfig:"BACKEND_REQUEST_TIMEOUT" default:"10s"`
	BreakerErrorThreshold   int           `envconfig:"BACKEND_BREAKER_ERROR_THRESHOLD" default:"5"`
	BreakerSuccessThreshold int           `envconfig:"BACKEND_BREAKER_SUCCESS_THRESHOLD" default:"1"`
	BreakerTimeout          time.Duration `envconfig:"BACKEND_BREAKER_TIMEOUT" default:"30s"`
}
