package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/approver/internal/model"
)

type resolution struct {
	session   model.ApprovalSession
	ident     model.SessionIdentification
	account   *model.Account
	extraInfo []model.DetailItem
}

// resolveSession fetches the session behind a live request, validates that
// it can be attributed to a user, resolves the owning account and merges
// push extras.
func (a *Approval) resolveSession(ctx context.Context, req model.AuthRequest) (resolution, error) {
	ident, account, ok := identify(req)
	if !ok {
		return resolution{}, fmt.Errorf("request %s has no live session", req.Kind())
	}

	start := time.Now()
	session, err := a.resolver.ResolveSession(ctx, ident)
	a.metrics.ObserveCall("resolve", time.Since(start), err)
	if err != nil {
		return resolution{}, err
	}

	userID := strings.TrimSpace(ident.UserID())
	if userID == "" {
		userID = strings.TrimSpace(session.UserID)
	}
	if userID == "" && account == nil {
		return resolution{}, model.ErrMissingUserID
	}
	ident = ident.WithUserID(userID)

	if account == nil {
		account = a.lookupAccount(ctx, userID)
	}

	extraInfo := session.ExtraInfo
	if push, ok := req.(model.PushApproval); ok && push.EncryptedExtras != nil {
		if items := a.decryptExtras(ctx, userID, *push.EncryptedExtras); items != nil {
			extraInfo = items
		}
	}

	if session.Timeout < 0 {
		session.Timeout = 0
	}
	if !session.Challenge.Present() {
		session.Challenge = nil
	}

	return resolution{
		session:   session,
		ident:     ident,
		account:   account,
		extraInfo: extraInfo,
	}, nil
}

func (a *Approval) lookupAccount(ctx context.Context, userID string) *model.Account {
	if a.accounts == nil || strings.TrimSpace(userID) == "" {
		return nil
	}

	account, err := a.accounts.LookupAccount(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Warn("Approval service: failed to look up account",
				"user_id", userID,
				"error", err.Error())
		}
		return nil
	}

	return &account
}
