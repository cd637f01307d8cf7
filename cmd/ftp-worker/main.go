package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	ftpworkerapp "github.com/hitesh22rana/ftpworker/internal/app/ftpworker"
	"github.com/hitesh22rana/ftpworker/internal/config"
	"github.com/hitesh22rana/ftpworker/internal/pkg/credential"
	"github.com/hitesh22rana/ftpworker/internal/pkg/ftp"
	"github.com/hitesh22rana/ftpworker/internal/pkg/kafka"
	loggerpkg "github.com/hitesh22rana/ftpworker/internal/pkg/logger"
	otelpkg "github.com/hitesh22rana/ftpworker/internal/pkg/otel"
	"github.com/hitesh22rana/ftpworker/internal/pkg/params"
	svcpkg "github.com/hitesh22rana/ftpworker/internal/pkg/svc"
	"github.com/hitesh22rana/ftpworker/internal/pkg/transfer"
	ftpworkerrepo "github.com/hitesh22rana/ftpworker/internal/repository/ftpworker"
	ftpworkersvc "github.com/hitesh22rana/ftpworker/internal/service/ftpworker"
)

const (
	// ExitOk and ExitError are the exit codes.
	ExitOk = iota
	// ExitError is the exit code for errors.
	ExitError
)

var (
	// version is the service version.
	version string

	// name is the name of the service.
	name string
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the service information
	initSvcInfo()

	// Handle OS signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Load the ftp worker configuration
	cfg, err := config.InitFTPWorkerConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitError
	}

	// Initialize the telemetry providers
	providers, err := otelpkg.Init(ctx, svcpkg.Info().GetName(), svcpkg.Info().GetVersion())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init OTel providers: %v\n", err)
		return ExitError
	}
	defer func() {
		// The run context is canceled by now, flush with a fresh one
		if err = providers.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shutdown OTel providers: %v\n", err)
		}
	}()

	// Set up logger
	ctx, logger := loggerpkg.Init(ctx, svcpkg.Info().GetName(), cfg.Environment.Env, providers.Logger)
	defer func() {
		if err = logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", err)
		}
	}()

	// Initialize the kafka client
	kfk, err := kafka.New(ctx,
		kafka.WithBrokers(cfg.Kafka.Brokers...),
		kafka.WithConsumerGroup(cfg.Kafka.ConsumerGroup),
		kafka.WithConsumeTopics(cfg.Kafka.ConsumeTopics...),
		kafka.WithDisableAutoCommit(),
		kafka.WithTLS(&kafka.TLSConfig{
			Enabled:  cfg.Kafka.TLS.Enabled,
			CAFile:   cfg.Kafka.TLS.CAFile,
			CertFile: cfg.Kafka.TLS.CertFile,
			KeyFile:  cfg.Kafka.TLS.KeyFile,
		}),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitError
	}
	defer kfk.Close()

	// Initialize the credential resolver
	cred := credential.New(&credential.Config{
		Hostname:                cfg.Backend.Hostname,
		Username:                cfg.Backend.Username,
		Password:                cfg.Backend.Password,
		RequestTimeout:          cfg.BackendClient.RequestTimeout,
		BreakerErrorThreshold:   cfg.BackendClient.BreakerErrorThreshold,
		BreakerSuccessThreshold: cfg.BackendClient.BreakerSuccessThreshold,
		BreakerTimeout:          cfg.BackendClient.BreakerTimeout,
	})

	// Initialize the transfer engine
	engine := transfer.New(&transfer.Config{
		DownloadTLS: cfg.FTP.DownloadTLS,
		UploadTLS:   cfg.FTP.UploadTLS,
	}, ftp.NewDialer(&ftp.Config{
		DialTimeout:           cfg.FTP.DialTimeout,
		TLSInsecureSkipVerify: cfg.FTP.TLSInsecureSkipVerify,
	}))

	// Initialize the ftp worker components
	repo := ftpworkerrepo.New(&ftpworkerrepo.Config{
		ParallelismLimit: cfg.FTPWorkerConfig.ParallelismLimit,
		Topics: ftpworkerrepo.Topics{
			Completed: kafka.TopicJobFTPCompleted,
			Error:     kafka.TopicJobFTPError,
		},
	}, ftpworkerrepo.NewValidator(), &ftpworkerrepo.Services{
		Publisher: kafka.NewProducer(kfk),
		Transfer:  engine,
		Params:    params.New(cred),
	}, kfk)
	svc := ftpworkersvc.New(repo)
	app := ftpworkerapp.New(ctx, svc)

	// Log the job information
	logger.Info(
		"starting job",
		zap.Any("ctx", ctx),
		zap.String("name", svcpkg.Info().Name),
		zap.String("version", svcpkg.Info().Version),
		zap.String("environment", cfg.Environment.Env),
		zap.Strings("topics", cfg.Kafka.ConsumeTopics),
		zap.Int("parallelism_limit", cfg.FTPWorkerConfig.ParallelismLimit),
	)

	// Run the ftp worker
	if err := app.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitError
	}

	return ExitOk
}

// initSvcInfo initializes the job information.
func initSvcInfo() {
	svcpkg.SetVersion(version)
	svcpkg.SetName(name)
}
