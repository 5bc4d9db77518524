package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"
)

// Dialer lets tests substitute the TLS connection with an in-memory one.
// *tls.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string

	// bound on the whole SMTP session
	Timeout time.Duration
}

// Mailer sends confirmation emails over implicit-TLS SMTP with AUTH LOGIN.
// The relay offers no higher-level API, so the protocol is driven by the
// session FSM directly.
type Mailer struct {
	cfg    Config
	dialer Dialer
}

func New(cfg Config, dialer Dialer) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if dialer == nil {
		dialer = &tls.Dialer{}
	}

	return &Mailer{cfg: cfg, dialer: dialer}
}

// Enabled reports whether relay credentials are configured. Callers handle
// the disabled branch themselves (log the would-be email, report success).
func (m *Mailer) Enabled() bool {
	return m.cfg.Username != "" && m.cfg.Password != ""
}

// Send runs one complete SMTP session. The connection is closed on every
// path, success or failure.
func (m *Mailer) Send(ctx context.Context, msg *Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	conn, err := m.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp connect %s: %w", addr, err)
	}

	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if msg.From == "" {
		msg.From = m.cfg.From
	}
	if msg.FromName == "" {
		msg.FromName = m.cfg.FromName
	}

	sess := newSession(conn, Credentials{
		Username: m.cfg.Username,
		Password: m.cfg.Password,
		From:     m.cfg.From,
	}, msg)

	return sess.run()
}
