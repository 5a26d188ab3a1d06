package domain

import (
	"fmt"
	"strings"
	"time"
)

// Identity is the unique account key (username or email).
type Identity string

func ParseIdentity(raw string) (Identity, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: identity is required", ErrInvalidIdentity)
	}
	if strings.ContainsAny(trimmed, " \t\r\n/\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentity, raw)
	}
	if strings.HasPrefix(trimmed, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentity, raw)
	}

	return Identity(strings.ToLower(trimmed)), nil
}

func (i Identity) String() string {
	return string(i)
}

// Account is the remote record for a user. ServiceCategories is nil when the
// record carries no services array at all, which is different from an empty one.
type Account struct {
	Identity          Identity
	IsProfessional    bool
	ServiceCategories []string
}

func (a Account) HasServiceCategories() bool {
	return a.ServiceCategories != nil
}

type Session struct {
	Identity       Identity
	IsProfessional bool
	Token          string
	CreatedAt      time.Time
}

func (s Session) Authenticated() bool {
	return s.Identity != "" && strings.TrimSpace(s.Token) != ""
}
