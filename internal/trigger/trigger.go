// Package trigger classifies raw code text and deep links into
// authentication requests.
package trigger

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/dtroode/approver/internal/model"
)

// Scheme is the URI scheme of codes issued for this agent.
const Scheme = "approver"

const (
	hostOnline       = "online"
	hostUsernameless = "usernameless"
	hostOffline      = "offline"
)

// Parse turns decoded code text or a deep-link URI into a request. selected
// is the account the user picked before scanning; it is attached to
// usernameless requests and ignored otherwise.
func Parse(raw string, selected *model.Account) (model.AuthRequest, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, model.ErrEmptyCode
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnrecognizedCode, err)
	}
	q := u.Query()

	switch strings.ToLower(u.Scheme) {
	case Scheme:
		return parseApprover(raw, u.Host, q, selected)
	case "http", "https":
		token := q.Get("token")
		if token == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: link without session token", model.ErrUnrecognizedCode)
		}
		return model.UsernamelessLink{SessionToken: token, URI: raw, Account: selected}, nil
	default:
		return nil, model.ErrUnrecognizedCode
	}
}

func parseApprover(raw, host string, q url.Values, selected *model.Account) (model.AuthRequest, error) {
	switch strings.ToLower(host) {
	case hostOnline:
		token, user := q.Get("token"), q.Get("user")
		if token == "" || user == "" {
			return nil, fmt.Errorf("%w: online code needs token and user", model.ErrUnrecognizedCode)
		}
		return model.OnlineCode{SessionToken: token, UserID: user, RawCode: raw}, nil

	case hostUsernameless:
		token := q.Get("token")
		if token == "" {
			return nil, fmt.Errorf("%w: usernameless code needs token", model.ErrUnrecognizedCode)
		}
		return model.UsernamelessCode{SessionToken: token, RawCode: raw, Account: selected}, nil

	case hostOffline:
		user := q.Get("user")
		if user == "" {
			return nil, fmt.Errorf("%w: offline code needs user", model.ErrUnrecognizedCode)
		}
		info, err := decodeInfo(q.Get("info"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrUnrecognizedCode, err)
		}
		return model.OfflineCode{RawCode: raw, UserID: user, InlineExtraInfo: info}, nil

	default:
		return nil, model.ErrUnrecognizedCode
	}
}

// decodeInfo decodes the base64url JSON detail list of an offline code.
func decodeInfo(s string) ([]model.DetailItem, error) {
	if s == "" {
		return nil, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("failed to decode offline info: %w", err)
	}

	var items []model.DetailItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offline info: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	return items, nil
}

// EncodeInfo encodes detail items for the info parameter of an offline code.
func EncodeInfo(items []model.DetailItem) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to marshal offline info: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}
