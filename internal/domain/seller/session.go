package seller

import (
	"fmt"
	"log/slog"
	"strings"
)

const redacted = "[REDACTED]"

// Session is a decrypted platform credential pair. It only lives in memory
// for the duration of one outbound call sequence and never formats its tokens.
type Session struct {
	ID   string
	Sign string
}

func NewSession(id, sign string) (Session, error) {
	id = strings.TrimSpace(id)
	sign = strings.TrimSpace(sign)
	if id == "" || sign == "" {
		return Session{}, fmt.Errorf("both session id and session signature are required")
	}
	return Session{ID: id, Sign: sign}, nil
}

func (s Session) String() string {
	return redacted
}

func (s Session) GoString() string {
	return "seller.Session{" + redacted + "}"
}

// LogValue keeps tokens out of structured logs.
func (s Session) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
