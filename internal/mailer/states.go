package mailer

// State names one position in the SMTP send sequence. Every state has a
// single transition (performed by session.step); any step can move to
// StateFailed, and the connection is closed regardless of where the
// session ends up.
type State int

const (
	StateConnecting State = iota
	StateGreeted
	StateEhloSent
	StateAuthPromptReceived
	StateUsernameSent
	StatePasswordSent
	StateAuthenticated
	StateMailFromSent
	StateRcptToSent
	StateDataPromptReceived
	StateBodySent
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateGreeted:
		return "greeted"
	case StateEhloSent:
		return "ehlo_sent"
	case StateAuthPromptReceived:
		return "auth_prompt_received"
	case StateUsernameSent:
		return "username_sent"
	case StatePasswordSent:
		return "password_sent"
	case StateAuthenticated:
		return "authenticated"
	case StateMailFromSent:
		return "mail_from_sent"
	case StateRcptToSent:
		return "rcpt_to_sent"
	case StateDataPromptReceived:
		return "data_prompt_received"
	case StateBodySent:
		return "body_sent"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
