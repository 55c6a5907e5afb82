// Package poller periodically looks for pending sessions of enrolled
// accounts and feeds them to the orchestrator.
package poller

import (
	"context"
	"time"

	"github.com/dtroode/approver/internal/cache/memory"
	"github.com/dtroode/approver/internal/logger"
	"github.com/dtroode/approver/internal/model"
)

// minSeenTTL keeps sessions without a usable timeout from being offered
// again on the next poll.
const minSeenTTL = time.Minute

// Orchestrator is the part of the approval service the poller drives.
type Orchestrator interface {
	Idle() bool
	HandleRequest(req model.AuthRequest)
}

// Poller dispatches at most one new pending session per round, and only
// while no approval is in progress.
type Poller struct {
	accounts     model.AccountLister
	source       model.PendingSessionSource
	orchestrator Orchestrator
	seen         *memory.SeenSet
	interval     time.Duration
	logger       *logger.Logger
}

// New creates a Poller.
func New(accounts model.AccountLister, source model.PendingSessionSource, orchestrator Orchestrator, interval time.Duration, logger *logger.Logger) *Poller {
	return &Poller{
		accounts:     accounts,
		source:       source,
		orchestrator: orchestrator,
		seen:         memory.NewSeenSet(minSeenTTL),
		interval:     interval,
		logger:       logger,
	}
}

// Run polls every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll runs one round and reports whether a session was dispatched.
func (p *Poller) Poll(ctx context.Context) bool {
	if !p.orchestrator.Idle() {
		return false
	}

	accounts, err := p.accounts.ListAccounts(ctx)
	if err != nil {
		p.logger.Error("Poller: failed to list accounts", "error", err.Error())
		return false
	}

	for _, account := range accounts {
		sessions, err := p.source.PendingSessions(ctx, account.UserID)
		if err != nil {
			p.logger.Warn("Poller: failed to fetch pending sessions",
				"user_id", account.UserID,
				"error", err.Error())
			continue
		}

		for _, s := range sessions {
			ttl := time.Duration(s.Timeout) * time.Second
			if ttl < minSeenTTL {
				ttl = minSeenTTL
			}
			if p.seen.Seen(s.ID) {
				continue
			}
			// A cycle may have started while fetching; the session stays
			// unmarked so the next round offers it again.
			if !p.orchestrator.Idle() {
				return false
			}
			if !p.seen.MarkIfNew(s.ID, ttl) {
				continue
			}

			p.logger.Info("Poller: dispatching pending session",
				"session_id", s.ID,
				"user_id", account.UserID)
			p.orchestrator.HandleRequest(model.SessionPoll{UserID: account.UserID, Session: s})
			return true
		}
	}

	return false
}
