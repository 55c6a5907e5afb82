package service

import (
	"context"
	"time"

	"github.com/dtroode/approver/internal/model"
)

// decryptExtras recovers push extras. Failures are logged and reported as
// no extra info; they never fail the approval.
func (a *Approval) decryptExtras(ctx context.Context, userID, blob string) []model.DetailItem {
	if a.decryptor == nil {
		return nil
	}

	start := time.Now()
	items, err := a.decryptor.DecryptExtras(ctx, userID, blob)
	a.metrics.ObserveCall("decrypt", time.Since(start), err)
	if err != nil {
		a.logger.Warn("Approval service: failed to decrypt extra info, continuing without it",
			"user_id", userID,
			"error", err.Error())
		return nil
	}
	if len(items) == 0 {
		return nil
	}

	return items
}
