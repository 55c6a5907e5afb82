package model

import "strings"

// DetailItem is a label/value pair describing the authentication attempt.
type DetailItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Challenge is the optional multi-numbered challenge of a session.
// A nil or empty Challenge means the session has none.
type Challenge []int

// Present reports whether the user must pick a number before approving.
func (c Challenge) Present() bool {
	return len(c) > 0
}

// Contains reports whether n is one of the offered numbers.
func (c Challenge) Contains(n int) bool {
	for _, v := range c {
		if v == n {
			return true
		}
	}
	return false
}

// Account is the locally enrolled account a session belongs to.
type Account struct {
	UserID      string
	ServiceName string
	Username    string
	LogoURL     string
}

// ApprovalSession is the resolved metadata of a session awaiting a decision.
type ApprovalSession struct {
	ID        string
	UserID    string
	TypeLabel string
	// Timeout is the approval window in seconds.
	Timeout   int
	Details   []DetailItem
	ExtraInfo []DetailItem
	Challenge Challenge
}

// HasUser reports whether the session names a non-blank user.
func (s ApprovalSession) HasUser() bool {
	return strings.TrimSpace(s.UserID) != ""
}

// IdentificationPolicy describes how a SessionIdentification addresses its session.
type IdentificationPolicy int

const (
	// ByToken addresses the session with the token from a code or link.
	ByToken IdentificationPolicy = iota + 1
	// ByID addresses the session with its server-assigned id.
	ByID
)

// SessionIdentification is an opaque handle used to resolve, approve or
// reject a session. It lives for one approval cycle and is never persisted.
type SessionIdentification struct {
	policy    IdentificationPolicy
	token     string
	sessionID string
	userID    string
}

// NewTokenIdentification builds a token-addressed identification.
func NewTokenIdentification(token, userID string) SessionIdentification {
	return SessionIdentification{policy: ByToken, token: token, userID: userID}
}

// NewIDIdentification builds an id-addressed identification.
func NewIDIdentification(sessionID, userID string) SessionIdentification {
	return SessionIdentification{policy: ByID, sessionID: sessionID, userID: userID}
}

func (i SessionIdentification) Policy() IdentificationPolicy { return i.policy }
func (i SessionIdentification) Token() string                { return i.token }
func (i SessionIdentification) SessionID() string            { return i.sessionID }
func (i SessionIdentification) UserID() string               { return i.userID }

// WithUserID returns a copy bound to userID.
func (i SessionIdentification) WithUserID(userID string) SessionIdentification {
	i.userID = userID
	return i
}
