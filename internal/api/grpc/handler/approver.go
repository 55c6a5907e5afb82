package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dtroode/approver/internal/logger"
	"github.com/dtroode/approver/internal/model"
	"github.com/dtroode/approver/internal/trigger"
)

// Request fields of HandleCode.
const (
	fieldCode          = "code"
	fieldAccountUserID = "account_user_id"
)

// Approver handles gRPC endpoints of presentation clients.
type Approver struct {
	orchestrator   model.Orchestrator
	accounts       model.AccountDirectory
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ ApproverServer = (*Approver)(nil)

// NewApprover creates a new Approver handler.
func NewApprover(
	orchestrator model.Orchestrator,
	accounts model.AccountDirectory,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Approver {
	return &Approver{
		orchestrator:   orchestrator,
		accounts:       accounts,
		contextManager: contextManager,
		logger:         logger,
	}
}

// HandleCode classifies scanned code text or a deep link and starts an
// approval cycle for it. account_user_id selects the enrolled account
// usernameless requests resolve against.
func (h *Approver) HandleCode(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	clientID, err := h.extractClientIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	fields := req.GetFields()
	raw := fields[fieldCode].GetStringValue()
	selectedID := strings.TrimSpace(fields[fieldAccountUserID].GetStringValue())

	h.logger.Debug("Approver handler: processing code",
		"client_id", clientID,
		"selected_account", selectedID)

	var selected *model.Account
	if selectedID != "" {
		account, err := h.accounts.LookupAccount(ctx, selectedID)
		if err != nil {
			h.logger.Error("Approver handler: selected account lookup failed",
				"client_id", clientID,
				"user_id", selectedID,
				"error", err.Error())
			return nil, handleError(err)
		}
		selected = &account
	}

	request, err := trigger.Parse(raw, selected)
	if err != nil {
		h.logger.Info("Approver handler: code rejected",
			"client_id", clientID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.orchestrator.HandleRequest(request)

	h.logger.Info("Approver handler: request dispatched",
		"client_id", clientID,
		"kind", request.Kind())

	return &emptypb.Empty{}, nil
}

// Approve forwards an approve tap to the orchestrator.
func (h *Approver) Approve(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if _, err := h.extractClientIDFromContext(ctx); err != nil {
		return nil, err
	}
	h.orchestrator.RespondApprove()
	return &emptypb.Empty{}, nil
}

// Reject forwards a reject tap to the orchestrator.
func (h *Approver) Reject(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if _, err := h.extractClientIDFromContext(ctx); err != nil {
		return nil, err
	}
	h.orchestrator.RespondReject()
	return &emptypb.Empty{}, nil
}

// Challenge forwards the picked challenge number to the orchestrator.
func (h *Approver) Challenge(ctx context.Context, req *wrapperspb.Int32Value) (*emptypb.Empty, error) {
	if _, err := h.extractClientIDFromContext(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "challenge choice is required")
	}
	h.orchestrator.RespondChallenge(int(req.GetValue()))
	return &emptypb.Empty{}, nil
}

// Watch streams the presented state, countdown progress and one-shot events
// until the client goes away. The current state and progress are sent first.
func (h *Approver) Watch(_ *emptypb.Empty, stream Approver_WatchServer) error {
	ctx := stream.Context()

	clientID, err := h.extractClientIDFromContext(ctx)
	if err != nil {
		return err
	}

	h.logger.Info("Approver handler: watch started", "client_id", clientID)
	defer h.logger.Info("Approver handler: watch finished", "client_id", clientID)

	states := h.orchestrator.WatchState(ctx)
	progress := h.orchestrator.WatchProgress(ctx)
	notifications := h.orchestrator.Notifications(ctx)
	navigation := h.orchestrator.Navigation(ctx)
	verificationCodes := h.orchestrator.VerificationCodes(ctx)

	for {
		var (
			msg *structpb.Struct
			err error
		)

		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-states:
			if !ok {
				return nil
			}
			msg, err = encodeState(s)
		case p, ok := <-progress:
			if !ok {
				return nil
			}
			msg, err = encodeProgress(p)
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			msg, err = encodeNotification(n)
		case n, ok := <-navigation:
			if !ok {
				return nil
			}
			msg, err = encodeNavigation(n)
		case c, ok := <-verificationCodes:
			if !ok {
				return nil
			}
			msg, err = encodeVerificationCode(c)
		}
		if err != nil {
			h.logger.Error("Approver handler: failed to encode event",
				"client_id", clientID,
				"error", err.Error())
			return status.Error(codes.Internal, "internal server error")
		}

		if err := stream.Send(msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("failed to send event: %w", err)
		}
	}
}

func (h *Approver) extractClientIDFromContext(ctx context.Context) (uuid.UUID, error) {
	clientID, ok := h.contextManager.GetClientIDFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "missing authorization token")
	}
	return clientID, nil
}
