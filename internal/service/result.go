package service

import (
	"context"
	"time"

	"github.com/dtroode/approver/internal/logger"
	"github.com/dtroode/approver/internal/metrics"
	"github.com/dtroode/approver/internal/model"
)

// ResultRouter delivers the user's decision: approve and reject go to the
// remote session, approving an offline code fetches its verification code.
type ResultRouter struct {
	responder model.SessionResponder
	offline   model.OfflineCodeFetcher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewResultRouter creates a ResultRouter.
func NewResultRouter(responder model.SessionResponder, offline model.OfflineCodeFetcher, metrics *metrics.Metrics, logger *logger.Logger) *ResultRouter {
	return &ResultRouter{
		responder: responder,
		offline:   offline,
		metrics:   metrics,
		logger:    logger,
	}
}

// Approve approves the session, passing the picked challenge number when
// the session had a challenge.
func (r *ResultRouter) Approve(ctx context.Context, id model.SessionIdentification, extraInfo []model.DetailItem, choice *int) error {
	r.logger.Debug("Result router: approving session",
		"session_id", id.SessionID(),
		"user_id", id.UserID(),
		"with_choice", choice != nil)

	start := time.Now()
	err := r.responder.ApproveSession(ctx, id, extraInfo, choice)
	r.metrics.ObserveCall("approve", time.Since(start), err)
	if err != nil {
		r.logger.Error("Result router: failed to approve session",
			"session_id", id.SessionID(),
			"user_id", id.UserID(),
			"error", err.Error())
		return err
	}

	return nil
}

// Reject rejects the session.
func (r *ResultRouter) Reject(ctx context.Context, id model.SessionIdentification, extraInfo []model.DetailItem) error {
	r.logger.Debug("Result router: rejecting session",
		"session_id", id.SessionID(),
		"user_id", id.UserID())

	start := time.Now()
	err := r.responder.RejectSession(ctx, id, extraInfo)
	r.metrics.ObserveCall("reject", time.Since(start), err)
	if err != nil {
		r.logger.Error("Result router: failed to reject session",
			"session_id", id.SessionID(),
			"user_id", id.UserID(),
			"error", err.Error())
		return err
	}

	return nil
}

// FetchOfflineVerificationCode returns the verification code for rawCode.
func (r *ResultRouter) FetchOfflineVerificationCode(ctx context.Context, rawCode string) (string, error) {
	start := time.Now()
	code, err := r.offline.FetchOfflineVerificationCode(ctx, rawCode)
	r.metrics.ObserveCall("offline_code", time.Since(start), err)
	if err != nil {
		r.logger.Error("Result router: failed to fetch offline verification code",
			"error", err.Error())
		return "", err
	}

	return code, nil
}
