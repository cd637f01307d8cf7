//go:generate mockgen -source=$GOFILE -package=$GOPACKAGE -destination=./mock/$GOFILE

package ftp

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"time"

	"github.com/jlaffaye/ftp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultPort = "21"

// Conn is an authenticated-or-not control connection to an FTP server.
type Conn interface {
	Login(user, password string) error
	CurrentDir() (string, error)
	ChangeDir(path string) error
	MakeDir(path string) error
	Retr(path string) (io.ReadCloser, error)
	Stor(path string, r io.Reader) error
	Quit() error
}

// Dialer opens control connections.
type Dialer interface {
	Dial(ctx context.Context, host string, useTLS bool) (Conn, error)
}

// Config holds the FTP client configuration.
type Config struct {
	DialTimeout           time.Duration
	TLSInsecureSkipVerify bool
}

// ClientDialer dials FTP servers, optionally upgrading the control and data channels with explicit TLS.
type ClientDialer struct {
	cfg *Config
}

// NewDialer creates a new FTP dialer.
func NewDialer(cfg *Config) *ClientDialer {
	return &ClientDialer{cfg: cfg}
}

// Dial connects to host, port 21 being used when host carries none.
// With useTLS the connection is upgraded with AUTH TLS and the data channel is protected after login.
func (d *ClientDialer) Dial(ctx context.Context, host string, useTLS bool) (Conn, error) {
	addr := Address(host)

	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
	}

	if d.cfg.DialTimeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(d.cfg.DialTimeout))
	}

	if useTLS {
		serverName, _, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid hostname %s: %v", host, err)
		}

		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName: serverName,
			//nolint:gosec // Opt-in for servers with self-signed certificates.
			InsecureSkipVerify: d.cfg.TLSInsecureSkipVerify,
			MinVersion:         tls.VersionTLS12,
		}))
	}

	c, err := ftp.Dial(addr, opts...)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "failed to connect to %s: %v", addr, err)
	}

	return &serverConn{c: c}, nil
}

// Address returns host with the default FTP port appended when it carries none.
func Address(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}

	return net.JoinHostPort(host, defaultPort)
}

// serverConn adapts *ftp.ServerConn to Conn.
type serverConn struct {
	c *ftp.ServerConn
}

func (s *serverConn) Login(user, password string) error {
	return s.c.Login(user, password)
}

func (s *serverConn) CurrentDir() (string, error) {
	return s.c.CurrentDir()
}

func (s *serverConn) ChangeDir(path string) error {
	return s.c.ChangeDir(path)
}

func (s *serverConn) MakeDir(path string) error {
	return s.c.MakeDir(path)
}

func (s *serverConn) Retr(path string) (io.ReadCloser, error) {
	resp, err := s.c.Retr(path)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *serverConn) Stor(path string, r io.Reader) error {
	return s.c.Stor(path, r)
}

func (s *serverConn) Quit() error {
	return s.c.Quit()
}
