package model

import "context"

// Orchestrator is the approval surface driven by presentation clients.
type Orchestrator interface {
	HandleRequest(req AuthRequest)
	RespondApprove()
	RespondReject()
	RespondChallenge(choice int)

	WatchState(ctx context.Context) <-chan UIState
	WatchProgress(ctx context.Context) <-chan float64
	Notifications(ctx context.Context) <-chan Notification
	Navigation(ctx context.Context) <-chan Navigation
	VerificationCodes(ctx context.Context) <-chan string
}
