package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies a user-facing notification.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationFailure NotificationKind = "failure"
)

// Notification is a one-shot user-facing message.
type Notification struct {
	Kind    NotificationKind
	Message string
}

// Navigation is a one-shot navigation signal for the presentation layer.
type Navigation string

const (
	NavigateToApproval Navigation = "approval"
	NavigateToAccounts Navigation = "accounts"
)

// Response is the user's answer to a pending approval.
type Response int

const (
	ResponseApprove Response = iota + 1
	ResponseReject
	ResponseChallengeChoice
)

func (r Response) String() string {
	switch r {
	case ResponseApprove:
		return "approve"
	case ResponseReject:
		return "reject"
	case ResponseChallengeChoice:
		return "challenge_choice"
	default:
		return "unknown"
	}
}

// OutcomeResult is how an approval cycle ended.
type OutcomeResult string

const (
	OutcomeApproved OutcomeResult = "approved"
	OutcomeRejected OutcomeResult = "rejected"
	OutcomeExpired  OutcomeResult = "expired"
	OutcomeFailed   OutcomeResult = "failed"
)

// Outcome is a history record of a completed approval cycle.
type Outcome struct {
	ID        uuid.UUID
	CycleID   uuid.UUID
	SessionID string
	UserID    string
	Kind      RequestKind
	Result    OutcomeResult
	Choice    *int
	Message   string
	CreatedAt time.Time
}
