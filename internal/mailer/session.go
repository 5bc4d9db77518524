package mailer

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"strings"
)

var ErrAuthFailed = errors.New("smtp authentication failed")

// session drives one send attempt over an already-open connection. It is
// deliberately a small FSM: run loops session.step until a terminal state,
// and each step either reads an expected reply or writes the next command.
type session struct {
	conn  net.Conn
	r     *bufio.Reader
	creds Credentials
	msg   *Message

	state State
}

type Credentials struct {
	Username string
	Password string
	From     string
}

func newSession(conn net.Conn, creds Credentials, msg *Message) *session {
	return &session{
		conn:  conn,
		r:     bufio.NewReader(conn),
		creds: creds,
		msg:   msg,
		state: StateConnecting,
	}
}

func (s *session) run() error {
	for s.state != StateCompleted && s.state != StateFailed {
		if err := s.step(); err != nil {
			s.state = StateFailed
			return err
		}
	}
	return nil
}

func (s *session) step() error {
	switch s.state {
	case StateConnecting:
		// server speaks first: expect "service ready"
		return s.expect("220", StateGreeted)

	case StateGreeted:
		return s.sendExpect("EHLO localhost", "250", StateEhloSent)

	case StateEhloSent:
		return s.sendExpect("AUTH LOGIN", "334", StateAuthPromptReceived)

	case StateAuthPromptReceived:
		user := base64.StdEncoding.EncodeToString([]byte(s.creds.Username))
		return s.sendExpect(user, "334", StateUsernameSent)

	case StateUsernameSent:
		pass := base64.StdEncoding.EncodeToString([]byte(s.creds.Password))
		if err := s.writeLine(pass); err != nil {
			return err
		}
		s.state = StatePasswordSent
		return nil

	case StatePasswordSent:
		// any reply other than 235 is an authentication failure
		reply, err := s.readReply()
		if err != nil {
			return err
		}
		if !strings.HasPrefix(reply, "235") {
			return fmt.Errorf("%w: %s", ErrAuthFailed, strings.TrimSpace(reply))
		}
		s.state = StateAuthenticated
		return nil

	case StateAuthenticated:
		return s.sendExpect(fmt.Sprintf("MAIL FROM:<%s>", s.creds.From), "250", StateMailFromSent)

	case StateMailFromSent:
		return s.sendExpect(fmt.Sprintf("RCPT TO:<%s>", s.msg.To), "250", StateRcptToSent)

	case StateRcptToSent:
		return s.sendExpect("DATA", "354", StateDataPromptReceived)

	case StateDataPromptReceived:
		if _, err := s.conn.Write(s.msg.Build()); err != nil {
			return fmt.Errorf("smtp %s: write body: %w", s.state, err)
		}
		s.state = StateBodySent
		return nil

	case StateBodySent:
		if err := s.expect("250", StateCompleted); err != nil {
			return err
		}
		// QUIT is a courtesy; the deferred close is what actually ends it
		_ = s.writeLine("QUIT")
		return nil

	default:
		return fmt.Errorf("smtp: step called in terminal state %s", s.state)
	}
}

func (s *session) sendExpect(cmd, code string, next State) error {
	if err := s.writeLine(cmd); err != nil {
		return err
	}
	return s.expect(code, next)
}

func (s *session) expect(code string, next State) error {
	reply, err := s.readReply()
	if err != nil {
		return err
	}
	if !strings.HasPrefix(reply, code) {
		return fmt.Errorf("smtp %s: unexpected reply %q (want %s)", s.state, strings.TrimSpace(reply), code)
	}
	s.state = next
	return nil
}

func (s *session) writeLine(line string) error {
	if _, err := s.conn.Write([]byte(line + "\r\n")); err != nil {
		return fmt.Errorf("smtp %s: write: %w", s.state, err)
	}
	return nil
}

// readReply consumes one full (possibly multi-line) SMTP reply and
// returns its first line.
func (s *session) readReply() (string, error) {
	first := ""

	for {
		line, err := s.r.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("smtp %s: read: %w", s.state, err)
		}
		if first == "" {
			first = line
		}
		// continuation lines look like "250-..."; the last is "250 ..."
		if len(line) < 4 || line[3] != '-' {
			return first, nil
		}
	}
}
