package model

// State is the single mutable record owned by the orchestrator.
// Its shape is exactly one of: offline code pending, session present,
// loading, or idle (all empty).
type State struct {
	Session          *ApprovalSession
	ExtraInfo        []DetailItem
	Account          *Account
	ShowLoader       bool
	OfflineCode      *string
	Identification   *SessionIdentification
	ShowingChallenge bool
}

// UIState is the presented state derived from State.
//
//go-sumtype:decl UIState
type UIState interface {
	uiState()
}

// Idle means no approval is in progress.
type Idle struct{}

// Loading means a request is being resolved.
type Loading struct{}

// PendingApproval shows session details with approve/reject controls.
// Challenge holds the numbers the user will be asked to pick from after
// the first approve tap; it is empty when the session has no challenge.
type PendingApproval struct {
	SessionID string
	TypeLabel string
	Account   *Account
	Details   []DetailItem
	ExtraInfo []DetailItem
	Challenge Challenge
}

// PendingChallengeChoice asks the user to pick one of Choices.
type PendingChallengeChoice struct {
	SessionID string
	TypeLabel string
	Account   *Account
	Choices   Challenge
}

// OfflineCodePending shows an offline code awaiting approve/reject.
type OfflineCodePending struct {
	RawCode   string
	Account   *Account
	ExtraInfo []DetailItem
}

func (Idle) uiState()                   {}
func (Loading) uiState()                {}
func (PendingApproval) uiState()        {}
func (PendingChallengeChoice) uiState() {}
func (OfflineCodePending) uiState()     {}

// Derive computes the presented state. It is a pure function of s.
func Derive(s State) UIState {
	switch {
	case s.OfflineCode != nil:
		return OfflineCodePending{
			RawCode:   *s.OfflineCode,
			Account:   s.Account,
			ExtraInfo: s.ExtraInfo,
		}
	case s.Session != nil:
		if s.ShowingChallenge && s.Session.Challenge.Present() {
			return PendingChallengeChoice{
				SessionID: s.Session.ID,
				TypeLabel: s.Session.TypeLabel,
				Account:   s.Account,
				Choices:   s.Session.Challenge,
			}
		}
		return PendingApproval{
			SessionID: s.Session.ID,
			TypeLabel: s.Session.TypeLabel,
			Account:   s.Account,
			Details:   s.Session.Details,
			ExtraInfo: s.ExtraInfo,
			Challenge: s.Session.Challenge,
		}
	case s.ShowLoader:
		return Loading{}
	default:
		return Idle{}
	}
}
