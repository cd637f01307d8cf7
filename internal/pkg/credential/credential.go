package credential

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eapache/go-resiliency/breaker"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	sessionsPath    = "/sessions"
	credentialsPath = "/credentials/"

	defaultRequestTimeout = 10 * time.Second
	defaultBreakerTimeout = 30 * time.Second

	// maxResponseSize bounds the body read from the credential service.
	maxResponseSize = 1 << 20
)

// Config holds the operator credentials and transport settings of the credential service.
type Config struct {
	Hostname string
	Username string
	Password string

	RequestTimeout          time.Duration
	BreakerErrorThreshold   int
	BreakerSuccessThreshold int
	BreakerTimeout          time.Duration
}

// Resolver fetches secret values by name from the credential service.
// Every resolution authenticates again, tokens are never cached.
type Resolver struct {
	cfg    *Config
	client *http.Client
	cb     *breaker.Breaker
}

type sessionRequest struct {
	Session sessionCredentials `json:"session"`
}

type sessionCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
}

type credentialResponse struct {
	Data *struct {
		Value *string `json:"value"`
	} `json:"data"`
}

// New creates a new credential resolver.
func New(cfg *Config) *Resolver {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	errorThreshold := cfg.BreakerErrorThreshold
	if errorThreshold <= 0 {
		errorThreshold = 5
	}
	successThreshold := cfg.BreakerSuccessThreshold
	if successThreshold <= 0 {
		successThreshold = 1
	}
	breakerTimeout := cfg.BreakerTimeout
	if breakerTimeout <= 0 {
		breakerTimeout = defaultBreakerTimeout
	}

	return &Resolver{
		cfg: cfg,
		client: &http.Client{
			Timeout: timeout,
		},
		cb: breaker.New(errorThreshold, successThreshold, breakerTimeout),
	}
}

// Resolve authenticates against the credential service and returns the secret named name.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	if err := r.validateConfig(); err != nil {
		return "", err
	}

	var (
		secret     string
		resolveErr error
	)
	// Only transport failures count against the breaker.
	err := r.cb.Run(func() error {
		secret, resolveErr = r.resolve(ctx, name)
		if status.Code(resolveErr) == codes.Unavailable {
			return resolveErr
		}
		return nil
	})
	if errors.Is(err, breaker.ErrBreakerOpen) {
		return "", status.Error(codes.Unavailable, "credential service unavailable")
	}
	if resolveErr != nil {
		return "", resolveErr
	}

	return secret, nil
}

// resolve runs one authenticate-then-fetch sequence.
func (r *Resolver) resolve(ctx context.Context, name string) (string, error) {
	token, err := r.obtainToken(ctx)
	if err != nil {
		return "", err
	}

	return r.fetchCredential(ctx, token, name)
}

// validateConfig reports the first missing configuration key.
func (r *Resolver) validateConfig() error {
	for _, kv := range []struct {
		key   string
		value string
	}{
		{"hostname", r.cfg.Hostname},
		{"username", r.cfg.Username},
		{"password", r.cfg.Password},
	} {
		if kv.value == "" {
			return status.Errorf(codes.FailedPrecondition, "missing '%s' configuration value", kv.key)
		}
	}

	return nil
}

// obtainToken opens a session and returns its access token.
func (r *Resolver) obtainToken(ctx context.Context) (string, error) {
	payload, err := json.Marshal(&sessionRequest{
		Session: sessionCredentials{
			Email:    r.cfg.Username,
			Password: r.cfg.Password,
		},
	})
	if err != nil {
		return "", status.Errorf(codes.Internal, "failed to encode session request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint(sessionsPath), bytes.NewReader(payload))
	if err != nil {
		return "", status.Errorf(codes.InvalidArgument, "failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, statusCode, err := r.do(req)
	if err != nil {
		return "", err
	}
	if statusCode != http.StatusOK {
		return "", status.Error(codes.Unauthenticated, "unable to obtain token")
	}

	var res sessionResponse
	if err := json.Unmarshal(body, &res); err != nil || res.AccessToken == "" {
		return "", status.Error(codes.Internal, "malformed credential response")
	}

	return res.AccessToken, nil
}

// fetchCredential reads the value of the named credential with the given token.
func (r *Resolver) fetchCredential(ctx context.Context, token, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint(credentialsPath+url.PathEscape(name)), http.NoBody)
	if err != nil {
		return "", status.Errorf(codes.InvalidArgument, "failed to create request: %v", err)
	}
	req.Header.Set("Authorization", token)

	body, statusCode, err := r.do(req)
	if err != nil {
		return "", err
	}
	if statusCode != http.StatusOK {
		return "", status.Errorf(codes.PermissionDenied, "unable to access credential named `%s`", name)
	}

	var res credentialResponse
	if err := json.Unmarshal(body, &res); err != nil || res.Data == nil || res.Data.Value == nil {
		return "", status.Error(codes.Internal, "malformed credential response")
	}

	return *res.Data.Value, nil
}

// do executes the request and returns its body and status code.
func (r *Resolver) do(req *http.Request) ([]byte, int, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, status.Errorf(codes.Unavailable, "failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, status.Errorf(codes.Unavailable, "failed to read response: %v", err)
	}

	return body, resp.StatusCode, nil
}

func (r *Resolver) endpoint(path string) string {
	return fmt.Sprintf("%s%s", strings.TrimRight(r.cfg.Hostname, "/"), path)
}
