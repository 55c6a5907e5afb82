// Package httpapi is the JSON-over-HTTP client of the remote
// authentication service.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dtroode/approver/internal/model"
)

const (
	resolvePath = "/v1/sessions/resolve"
	approvePath = "/v1/sessions/approve"
	rejectPath  = "/v1/sessions/reject"
	pendingPath = "/v1/users/%s/sessions/pending"

	policyToken = "token"
	policyID    = "id"
)

var (
	_ model.SessionResolver      = (*Client)(nil)
	_ model.SessionResponder     = (*Client)(nil)
	_ model.PendingSessionSource = (*Client)(nil)
)

// Client talks to the remote authentication service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for baseURL. Each request is bounded by timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type identificationDTO struct {
	Policy    string `json:"policy"`
	Token     string `json:"token,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

func toIdentificationDTO(id model.SessionIdentification) identificationDTO {
	dto := identificationDTO{UserID: id.UserID()}
	switch id.Policy() {
	case model.ByToken:
		dto.Policy = policyToken
		dto.Token = id.Token()
	case model.ByID:
		dto.Policy = policyID
		dto.SessionID = id.SessionID()
	}
	return dto
}

type sessionDTO struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Type      string             `json:"type"`
	Timeout   int                `json:"timeout"`
	Details   []model.DetailItem `json:"details"`
	ExtraInfo []model.DetailItem `json:"extra_info"`
	Challenge []int              `json:"challenge"`
}

func (s sessionDTO) toModel() model.ApprovalSession {
	return model.ApprovalSession{
		ID:        s.ID,
		UserID:    s.UserID,
		TypeLabel: s.Type,
		Timeout:   s.Timeout,
		Details:   s.Details,
		ExtraInfo: s.ExtraInfo,
		Challenge: model.Challenge(s.Challenge),
	}
}

type resolveRequest struct {
	Identification identificationDTO `json:"identification"`
}

type decisionRequest struct {
	Identification identificationDTO  `json:"identification"`
	ExtraInfo      []model.DetailItem `json:"extra_info,omitempty"`
	Choice         *int               `json:"choice,omitempty"`
}

type pendingResponse struct {
	Sessions []sessionDTO `json:"sessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ResolveSession fetches the session behind id.
func (c *Client) ResolveSession(ctx context.Context, id model.SessionIdentification) (model.ApprovalSession, error) {
	var s sessionDTO
	if err := c.do(ctx, http.MethodPost, resolvePath, resolveRequest{Identification: toIdentificationDTO(id)}, &s); err != nil {
		return model.ApprovalSession{}, err
	}
	return s.toModel(), nil
}

// ApproveSession approves the session behind id.
func (c *Client) ApproveSession(ctx context.Context, id model.SessionIdentification, extraInfo []model.DetailItem, choice *int) error {
	return c.do(ctx, http.MethodPost, approvePath, decisionRequest{
		Identification: toIdentificationDTO(id),
		ExtraInfo:      extraInfo,
		Choice:         choice,
	}, nil)
}

// RejectSession rejects the session behind id.
func (c *Client) RejectSession(ctx context.Context, id model.SessionIdentification, extraInfo []model.DetailItem) error {
	return c.do(ctx, http.MethodPost, rejectPath, decisionRequest{
		Identification: toIdentificationDTO(id),
		ExtraInfo:      extraInfo,
	}, nil)
}

// PendingSessions lists sessions awaiting a decision from userID.
func (c *Client) PendingSessions(ctx context.Context, userID string) ([]model.ApprovalSession, error) {
	var resp pendingResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf(pendingPath, url.PathEscape(userID)), nil, &resp); err != nil {
		return nil, err
	}

	sessions := make([]model.ApprovalSession, 0, len(resp.Sessions))
	for _, s := range resp.Sessions {
		session := s.toModel()
		if !session.HasUser() {
			session.UserID = userID
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
			return errors.New(e.Error)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
