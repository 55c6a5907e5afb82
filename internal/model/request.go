package model

// RequestKind names the channel an authentication request arrived through.
type RequestKind string

const (
	// KindOnlineCode is a scanned code bound to a known user.
	KindOnlineCode RequestKind = "online_code"
	// KindUsernamelessCode is a scanned code without a user, resolved against a selected account.
	KindUsernamelessCode RequestKind = "usernameless_code"
	// KindUsernamelessLink is a deep link without a user, resolved against a selected account.
	KindUsernamelessLink RequestKind = "usernameless_link"
	// KindOfflineCode is a code with no live remote session.
	KindOfflineCode RequestKind = "offline_code"
	// KindPushApproval is a push notification payload.
	KindPushApproval RequestKind = "push_approval"
	// KindSessionPoll is a pending session found by the background poller.
	KindSessionPoll RequestKind = "session_poll"
)

// AuthRequest is a normalized authentication trigger. The set of
// implementations is closed; switches over it must handle every variant.
//
//go-sumtype:decl AuthRequest
type AuthRequest interface {
	Kind() RequestKind
	sealed()
}

// OnlineCode is a scanned code that names both the session token and the user.
type OnlineCode struct {
	SessionToken string
	UserID       string
	RawCode      string
}

// UsernamelessCode is a scanned code carrying only a session token.
// Account is the account the user picked before scanning, if any.
type UsernamelessCode struct {
	SessionToken string
	RawCode      string
	Account      *Account
}

// UsernamelessLink is a deep-linked URI carrying only a session token.
type UsernamelessLink struct {
	SessionToken string
	URI          string
	Account      *Account
}

// OfflineCode has no remote session; approving it reveals a verification code.
type OfflineCode struct {
	RawCode         string
	UserID          string
	InlineExtraInfo []DetailItem
}

// PushApproval is delivered by push. EncryptedExtras is nil when the
// payload carried no encrypted detail items.
type PushApproval struct {
	Session         ApprovalSession
	UserID          string
	EncryptedExtras *string
}

// SessionPoll is a pending session discovered by periodic polling.
type SessionPoll struct {
	UserID  string
	Session ApprovalSession
}

func (OnlineCode) Kind() RequestKind       { return KindOnlineCode }
func (UsernamelessCode) Kind() RequestKind { return KindUsernamelessCode }
func (UsernamelessLink) Kind() RequestKind { return KindUsernamelessLink }
func (OfflineCode) Kind() RequestKind      { return KindOfflineCode }
func (PushApproval) Kind() RequestKind     { return KindPushApproval }
func (SessionPoll) Kind() RequestKind      { return KindSessionPoll }

func (OnlineCode) sealed()       {}
func (UsernamelessCode) sealed() {}
func (UsernamelessLink) sealed() {}
func (OfflineCode) sealed()      {}
func (PushApproval) sealed()     {}
func (SessionPoll) sealed()      {}
