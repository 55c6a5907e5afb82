package handler

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/approver/internal/model"
)

// Event type tags written to the "type" field of every Watch message.
const (
	EventState            = "state"
	EventProgress         = "progress"
	EventNotification     = "notification"
	EventNavigation       = "navigation"
	EventVerificationCode = "verification_code"
)

func encodeState(s model.UIState) (*structpb.Struct, error) {
	m := map[string]interface{}{"type": EventState}

	switch v := s.(type) {
	case model.Idle:
		m["state"] = "idle"
	case model.Loading:
		m["state"] = "loading"
	case model.PendingApproval:
		m["state"] = "pending_approval"
		m["session_id"] = v.SessionID
		m["type_label"] = v.TypeLabel
		m["account"] = encodeAccount(v.Account)
		m["details"] = encodeDetails(v.Details)
		m["extra_info"] = encodeDetails(v.ExtraInfo)
		m["challenge"] = encodeChallenge(v.Challenge)
	case model.PendingChallengeChoice:
		m["state"] = "pending_challenge_choice"
		m["session_id"] = v.SessionID
		m["type_label"] = v.TypeLabel
		m["account"] = encodeAccount(v.Account)
		m["choices"] = encodeChallenge(v.Choices)
	case model.OfflineCodePending:
		m["state"] = "offline_code_pending"
		m["raw_code"] = v.RawCode
		m["account"] = encodeAccount(v.Account)
		m["extra_info"] = encodeDetails(v.ExtraInfo)
	default:
		return nil, fmt.Errorf("unknown ui state %T", s)
	}

	return structpb.NewStruct(m)
}

func encodeProgress(p float64) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{"type": EventProgress, "value": p})
}

func encodeNotification(n model.Notification) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"type":    EventNotification,
		"kind":    string(n.Kind),
		"message": n.Message,
	})
}

func encodeNavigation(n model.Navigation) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{"type": EventNavigation, "target": string(n)})
}

func encodeVerificationCode(code string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{"type": EventVerificationCode, "code": code})
}

func encodeAccount(a *model.Account) interface{} {
	if a == nil {
		return nil
	}
	return map[string]interface{}{
		"user_id":      a.UserID,
		"service_name": a.ServiceName,
		"username":     a.Username,
		"logo_url":     a.LogoURL,
	}
}

func encodeDetails(items []model.DetailItem) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]interface{}{"label": it.Label, "value": it.Value})
	}
	return out
}

func encodeChallenge(c model.Challenge) []interface{} {
	out := make([]interface{}, 0, len(c))
	for _, n := range c {
		out = append(out, n)
	}
	return out
}
