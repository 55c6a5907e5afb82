// Package push turns push payloads published on Redis into approval
// requests.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/approver/internal/logger"
	"github.com/dtroode/approver/internal/model"
)

// maxExtrasSize bounds an extras object downloaded from storage.
const maxExtrasSize = 1 << 20

// RequestHandler accepts normalized requests.
type RequestHandler interface {
	HandleRequest(req model.AuthRequest)
}

// Payload is the JSON body of a push message. ExtrasRef names an object
// holding EncryptedExtras when they were too large to inline.
type Payload struct {
	SessionID       string             `json:"session_id"`
	UserID          string             `json:"user_id"`
	Type            string             `json:"type,omitempty"`
	Timeout         int                `json:"timeout"`
	Challenge       []int              `json:"challenge,omitempty"`
	Details         []model.DetailItem `json:"details,omitempty"`
	EncryptedExtras string             `json:"encrypted_extras,omitempty"`
	ExtrasRef       string             `json:"extras_ref,omitempty"`
}

// Subscriber listens on a Redis channel for push payloads.
type Subscriber struct {
	client  *redis.Client
	channel string
	blobs   model.BlobStorage
	handler RequestHandler
	logger  *logger.Logger
}

// NewSubscriber creates a Subscriber. blobs may be nil when extras are
// never stored out of band.
func NewSubscriber(client *redis.Client, channel string, blobs model.BlobStorage, handler RequestHandler, logger *logger.Logger) *Subscriber {
	return &Subscriber{
		client:  client,
		channel: channel,
		blobs:   blobs,
		handler: handler,
		logger:  logger,
	}
}

// Run receives payloads until ctx is done.
func (s *Subscriber) Run(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}

	s.logger.Info("Push subscriber: listening", "channel", s.channel)

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			s.Handle(ctx, msg.Payload)
		}
	}
}

// Handle decodes one payload and hands the request on. Malformed payloads
// are logged and dropped.
func (s *Subscriber) Handle(ctx context.Context, raw string) {
	req, err := s.Decode(ctx, raw)
	if err != nil {
		s.logger.Warn("Push subscriber: dropping payload", "error", err.Error())
		return
	}

	s.logger.Info("Push subscriber: push approval received",
		"session_id", req.Session.ID,
		"user_id", req.UserID)

	s.handler.HandleRequest(req)
}

// Decode builds a PushApproval from raw. Extras that cannot be fetched
// from storage are left out.
func (s *Subscriber) Decode(ctx context.Context, raw string) (model.PushApproval, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return model.PushApproval{}, fmt.Errorf("failed to unmarshal push payload: %w", err)
	}
	if strings.TrimSpace(p.SessionID) == "" {
		return model.PushApproval{}, errors.New("push payload without session id")
	}

	req := model.PushApproval{
		Session: model.ApprovalSession{
			ID:        p.SessionID,
			UserID:    p.UserID,
			TypeLabel: p.Type,
			Timeout:   p.Timeout,
			Details:   p.Details,
			Challenge: model.Challenge(p.Challenge),
		},
		UserID: p.UserID,
	}

	extras := p.EncryptedExtras
	if extras == "" && p.ExtrasRef != "" {
		extras = s.fetchExtras(ctx, p.ExtrasRef)
	}
	if extras != "" {
		req.EncryptedExtras = &extras
	}

	return req, nil
}

func (s *Subscriber) fetchExtras(ctx context.Context, ref string) string {
	if s.blobs == nil {
		s.logger.Warn("Push subscriber: extras reference without storage", "extras_ref", ref)
		return ""
	}

	rc, err := s.blobs.Download(ctx, ref)
	if err != nil {
		s.logger.Warn("Push subscriber: failed to download extras", "extras_ref", ref, "error", err.Error())
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(rc, maxExtrasSize+1))
	rc.Close()
	if err != nil {
		s.logger.Warn("Push subscriber: failed to read extras", "extras_ref", ref, "error", err.Error())
		return ""
	}

	if err := s.blobs.Delete(ctx, ref); err != nil {
		s.logger.Warn("Push subscriber: failed to delete extras", "extras_ref", ref, "error", err.Error())
	}

	// A truncated blob would only fail decryption later.
	if len(data) > maxExtrasSize {
		s.logger.Warn("Push subscriber: extras too large", "extras_ref", ref, "limit", maxExtrasSize)
		return ""
	}

	return strings.TrimSpace(string(data))
}
