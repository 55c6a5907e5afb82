package model

import "context"

// SessionResolver fetches full session metadata for an identification.
type SessionResolver interface {
	ResolveSession(ctx context.Context, id SessionIdentification) (ApprovalSession, error)
}

// SessionResponder delivers the user's decision to the remote session.
// A nil choice means the session had no challenge.
type SessionResponder interface {
	ApproveSession(ctx context.Context, id SessionIdentification, extraInfo []DetailItem, choice *int) error
	RejectSession(ctx context.Context, id SessionIdentification, extraInfo []DetailItem) error
}

// ExtrasDecryptor recovers detail items from an encrypted push payload.
type ExtrasDecryptor interface {
	DecryptExtras(ctx context.Context, userID, blob string) ([]DetailItem, error)
}

// OfflineCodeFetcher computes the verification code for an offline code.
type OfflineCodeFetcher interface {
	FetchOfflineVerificationCode(ctx context.Context, rawCode string) (string, error)
}

// AccountDirectory looks up an enrolled account. It returns ErrNotFound
// when no account is enrolled for userID.
type AccountDirectory interface {
	LookupAccount(ctx context.Context, userID string) (Account, error)
}

// AccountLister enumerates enrolled accounts.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]Account, error)
}

// PendingSessionSource lists sessions awaiting a decision for a user.
type PendingSessionSource interface {
	PendingSessions(ctx context.Context, userID string) ([]ApprovalSession, error)
}

// OutcomeStore persists completed approval cycles.
type OutcomeStore interface {
	Record(ctx context.Context, outcome Outcome) error
}
