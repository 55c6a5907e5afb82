package service

import "github.com/dtroode/approver/internal/model"

// identify derives the identification of a live request together with the
// account the user selected for it, if any. Offline codes have no live
// session and report ok == false.
func identify(req model.AuthRequest) (id model.SessionIdentification, account *model.Account, ok bool) {
	switch r := req.(type) {
	case model.OnlineCode:
		return model.NewTokenIdentification(r.SessionToken, r.UserID), nil, true
	case model.UsernamelessCode:
		return model.NewTokenIdentification(r.SessionToken, accountUserID(r.Account)), r.Account, true
	case model.UsernamelessLink:
		return model.NewTokenIdentification(r.SessionToken, accountUserID(r.Account)), r.Account, true
	case model.PushApproval:
		return model.NewIDIdentification(r.Session.ID, r.UserID), nil, true
	case model.SessionPoll:
		return model.NewIDIdentification(r.Session.ID, r.UserID), nil, true
	case model.OfflineCode:
		return model.SessionIdentification{}, nil, false
	}
	return model.SessionIdentification{}, nil, false
}

func accountUserID(a *model.Account) string {
	if a == nil {
		return ""
	}
	return a.UserID
}
