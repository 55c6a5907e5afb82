package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/approver/internal/metrics"
	"github.com/dtroode/approver/internal/mocks"
	"github.com/dtroode/approver/internal/model"
	"github.com/dtroode/approver/internal/testutil"
)

type harness struct {
	resolver  *mocks.SessionResolver
	responder *mocks.SessionResponder
	decryptor *mocks.ExtrasDecryptor
	offline   *mocks.OfflineCodeFetcher
	accounts  *mocks.AccountDirectory

	approval      *Approval
	notifications <-chan model.Notification
	navigation    <-chan model.Navigation
	codes         <-chan string
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	return newHarnessWithContext(t, context.Background(), opts...)
}

func newHarnessWithContext(t *testing.T, parent context.Context, opts ...Option) *harness {
	t.Helper()

	h := &harness{
		resolver:  mocks.NewSessionResolver(t),
		responder: mocks.NewSessionResponder(t),
		decryptor: mocks.NewExtrasDecryptor(t),
		offline:   mocks.NewOfflineCodeFetcher(t),
		accounts:  mocks.NewAccountDirectory(t),
	}

	opts = append([]Option{
		WithTimeoutUnit(10 * time.Millisecond),
		WithTickInterval(5 * time.Millisecond),
	}, opts...)

	h.approval = NewApproval(parent,
		h.resolver, h.responder, h.decryptor, h.offline, h.accounts,
		testutil.MakeNoopLogger(), opts...)
	t.Cleanup(h.approval.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h.notifications = h.approval.Notifications(ctx)
	h.navigation = h.approval.Navigation(ctx)
	h.codes = h.approval.VerificationCodes(ctx)

	return h
}

func waitFor[T model.UIState](t *testing.T, a *Approval) T {
	t.Helper()

	var got T
	require.Eventually(t, func() bool {
		s, ok := a.UIState().(T)
		if ok {
			got = s
		}
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	return got
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	var zero T
	return zero
}

func assertNoEvent[T any](t *testing.T, ch <-chan T) {
	t.Helper()

	select {
	case v := <-ch:
		t.Fatalf("unexpected event: %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestApproval_OnlineCode(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := model.NewTokenIdentification("ABC123", "alice")
	details := []model.DetailItem{{Label: "Browser", Value: "Firefox"}}
	account := model.Account{UserID: "alice", ServiceName: "Acme", Username: "alice@acme.test"}

	h.resolver.On("ResolveSession", mock.Anything, id).Return(model.ApprovalSession{
		ID:        "S-online",
		UserID:    "alice",
		TypeLabel: "Login",
		Timeout:   60,
		Details:   details,
	}, nil)
	h.accounts.On("LookupAccount", mock.Anything, "alice").Return(account, nil)

	h.approval.HandleRequest(model.OnlineCode{SessionToken: "ABC123", UserID: "alice", RawCode: "approver://online?token=ABC123&user=alice"})
	assert.Equal(t, model.NavigateToApproval, receive(t, h.navigation))

	pending := waitFor[model.PendingApproval](t, h.approval)
	assert.Equal(t, "S-online", pending.SessionID)
	assert.Equal(t, details, pending.Details)
	require.NotNil(t, pending.Account)
	assert.Equal(t, "Acme", pending.Account.ServiceName)
	assert.Equal(t, "alice@acme.test", pending.Account.Username)
	assert.Empty(t, pending.Challenge)

	require.Eventually(t, func() bool {
		p := h.approval.Progress()
		return p > 0 && p < 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.False(t, h.approval.Idle())
}

func TestApproval_ChallengeRequiresChoice(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := model.NewIDIdentification("S1", "bob")
	session := model.ApprovalSession{ID: "S1", Timeout: 30, Challenge: model.Challenge{12, 34, 56}}

	h.resolver.On("ResolveSession", mock.Anything, id).Return(session, nil)
	h.accounts.On("LookupAccount", mock.Anything, "bob").Return(model.Account{}, model.ErrNotFound)
	h.responder.On("ApproveSession", mock.Anything, id, mock.Anything, mock.MatchedBy(func(c *int) bool {
		return c != nil && *c == 34
	})).Return(nil).Once()

	h.approval.HandleRequest(model.PushApproval{Session: session, UserID: "bob"})

	pending := waitFor[model.PendingApproval](t, h.approval)
	assert.Equal(t, model.Challenge{12, 34, 56}, pending.Challenge)
	assert.Nil(t, pending.Account)

	h.approval.RespondApprove()
	choice := waitFor[model.PendingChallengeChoice](t, h.approval)
	assert.Equal(t, model.Challenge{12, 34, 56}, choice.Choices)

	// A second approve tap while choices are shown changes nothing.
	h.approval.RespondApprove()
	time.Sleep(20 * time.Millisecond)
	h.responder.AssertNotCalled(t, "ApproveSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	h.responder.AssertNotCalled(t, "RejectSession", mock.Anything, mock.Anything, mock.Anything)

	h.approval.RespondChallenge(34)

	n := receive(t, h.notifications)
	assert.Equal(t, model.Notification{Kind: model.NotificationSuccess, Message: "Session approved"}, n)
	waitFor[model.Idle](t, h.approval)
	assert.True(t, h.approval.Idle())
}

func TestApproval_ChallengeChoiceIgnoredBeforeShown(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	session := model.ApprovalSession{ID: "S2", UserID: "bob", Timeout: 30, Challenge: model.Challenge{1, 2, 3}}

	h.resolver.On("ResolveSession", mock.Anything, mock.Anything).Return(session, nil)
	h.accounts.On("LookupAccount", mock.Anything, "bob").Return(model.Account{}, model.ErrNotFound)

	h.approval.HandleRequest(model.SessionPoll{UserID: "bob", Session: session})
	waitFor[model.PendingApproval](t, h.approval)

	h.approval.RespondChallenge(2)
	time.Sleep(20 * time.Millisecond)

	waitFor[model.PendingApproval](t, h.approval)
	h.responder.AssertNotCalled(t, "ApproveSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproval_ChallengeChoiceNotOffered(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := model.NewIDIdentification("S5", "bob")
	session := model.ApprovalSession{ID: "S5", Timeout: 30, Challenge: model.Challenge{12, 34, 56}}

	h.resolver.On("ResolveSession", mock.Anything, id).Return(session, nil)
	h.accounts.On("LookupAccount", mock.Anything, "bob").Return(model.Account{}, model.ErrNotFound)
	h.responder.On("ApproveSession", mock.Anything, id, mock.Anything, mock.MatchedBy(func(c *int) bool {
		return c != nil && *c == 56
	})).Return(nil).Once()

	h.approval.HandleRequest(model.PushApproval{Session: session, UserID: "bob"})
	waitFor[model.PendingApproval](t, h.approval)
	h.approval.RespondApprove()
	waitFor[model.PendingChallengeChoice](t, h.approval)

	h.approval.RespondChallenge(99)
	time.Sleep(20 * time.Millisecond)
	h.responder.AssertNotCalled(t, "ApproveSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	waitFor[model.PendingChallengeChoice](t, h.approval)

	// The cycle is still answerable with an offered number.
	h.approval.RespondChallenge(56)
	assert.Equal(t, model.Notification{Kind: model.NotificationSuccess, Message: "Session approved"}, receive(t, h.notifications))
	waitFor[model.Idle](t, h.approval)
}

func TestApproval_PushExtras(t *testing.T) {
	t.Parallel()

	inline := []model.DetailItem{{Label: "IP", Value: "10.0.0.1"}}
	decrypted := []model.DetailItem{{Label: "Location", Value: "Berlin"}}

	tests := []struct {
		name       string
		decrypted  []model.DetailItem
		decryptErr error
		want       []model.DetailItem
	}{
		{
			name:       "decryption failure falls back to inline extras",
			decryptErr: errors.New("bad-blob"),
			want:       inline,
		},
		{
			name:      "decrypted extras replace inline extras",
			decrypted: decrypted,
			want:      decrypted,
		},
		{
			name: "empty decryption result keeps inline extras",
			want: inline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			blob := "bad-blob"
			session := model.ApprovalSession{ID: "S3", Timeout: 30, ExtraInfo: inline}

			h.resolver.On("ResolveSession", mock.Anything, model.NewIDIdentification("S3", "bob")).Return(session, nil)
			h.accounts.On("LookupAccount", mock.Anything, "bob").Return(model.Account{}, model.ErrNotFound)
			h.decryptor.On("DecryptExtras", mock.Anything, "bob", blob).Return(tt.decrypted, tt.decryptErr)

			h.approval.HandleRequest(model.PushApproval{Session: session, UserID: "bob", EncryptedExtras: &blob})

			pending := waitFor[model.PendingApproval](t, h.approval)
			assert.Equal(t, tt.want, pending.ExtraInfo)
			assertNoEvent(t, h.notifications)
		})
	}
}

func TestApproval_PushDecryptFailureWithoutInlineExtras(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	blob := "bad-blob"
	session := model.ApprovalSession{ID: "S4", Timeout: 30}

	h.resolver.On("ResolveSession", mock.Anything, mock.Anything).Return(session, nil)
	h.accounts.On("LookupAccount", mock.Anything, "bob").Return(model.Account{}, model.ErrNotFound)
	h.decryptor.On("DecryptExtras", mock.Anything, "bob", blob).Return(nil, errors.New("cipher: message authentication failed"))

	h.approval.HandleRequest(model.PushApproval{Session: session, UserID: "bob", EncryptedExtras: &blob})

	pending := waitFor[model.PendingApproval](t, h.approval)
	assert.Nil(t, pending.ExtraInfo)
	assertNoEvent(t, h.notifications)
}

func TestApproval_OfflineCode(t *testing.T) {
	t.Parallel()

	inline := []model.DetailItem{{Label: "Device", Value: "Laptop"}}

	t.Run("approve reveals verification code", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.accounts.On("LookupAccount", mock.Anything, "carol").Return(model.Account{UserID: "carol", ServiceName: "Acme"}, nil)
		h.offline.On("FetchOfflineVerificationCode", mock.Anything, "XYZ").Return("778899", nil).Once()

		h.approval.HandleRequest(model.OfflineCode{RawCode: "XYZ", UserID: "carol", InlineExtraInfo: inline})

		pending := waitFor[model.OfflineCodePending](t, h.approval)
		assert.Equal(t, "XYZ", pending.RawCode)
		assert.Equal(t, inline, pending.ExtraInfo)
		require.Eventually(t, func() bool {
			s, ok := h.approval.UIState().(model.OfflineCodePending)
			return ok && s.Account != nil && s.Account.ServiceName == "Acme"
		}, 2*time.Second, 5*time.Millisecond)

		h.approval.RespondApprove()
		assert.Equal(t, "778899", receive(t, h.codes))

		// The offline state stays until the user dismisses it.
		waitFor[model.OfflineCodePending](t, h.approval)
		h.resolver.AssertNotCalled(t, "ResolveSession", mock.Anything, mock.Anything)
	})

	t.Run("reject returns to idle without collaborator calls", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.accounts.On("LookupAccount", mock.Anything, "carol").Return(model.Account{}, model.ErrNotFound)

		h.approval.HandleRequest(model.OfflineCode{RawCode: "XYZ", UserID: "carol"})
		assert.Equal(t, model.NavigateToApproval, receive(t, h.navigation))
		waitFor[model.OfflineCodePending](t, h.approval)

		h.approval.RespondReject()

		waitFor[model.Idle](t, h.approval)
		assert.Equal(t, model.NavigateToAccounts, receive(t, h.navigation))
		h.offline.AssertNotCalled(t, "FetchOfflineVerificationCode", mock.Anything, mock.Anything)
		h.responder.AssertNotCalled(t, "RejectSession", mock.Anything, mock.Anything, mock.Anything)
		assertNoEvent(t, h.notifications)
	})

	t.Run("fetch failure resets with notification", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.accounts.On("LookupAccount", mock.Anything, "carol").Return(model.Account{}, model.ErrNotFound)
		h.offline.On("FetchOfflineVerificationCode", mock.Anything, "XYZ").Return("", errors.New("invalid code"))

		h.approval.HandleRequest(model.OfflineCode{RawCode: "XYZ", UserID: "carol"})
		waitFor[model.OfflineCodePending](t, h.approval)

		h.approval.RespondApprove()

		n := receive(t, h.notifications)
		assert.Equal(t, model.NotificationFailure, n.Kind)
		assert.Equal(t, "fetching verification code failed: invalid code", n.Message)
		waitFor[model.Idle](t, h.approval)
		assertNoEvent(t, h.codes)
	})
}

func TestApproval_ResolveFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	session := model.ApprovalSession{ID: "S9"}
	h.resolver.On("ResolveSession", mock.Anything, model.NewIDIdentification("S9", "dave")).
		Return(model.ApprovalSession{}, errors.New("timeout"))

	h.approval.HandleRequest(model.SessionPoll{UserID: "dave", Session: session})

	n := receive(t, h.notifications)
	assert.Equal(t, model.NotificationFailure, n.Kind)
	assert.Contains(t, n.Message, "timeout")
	assert.Equal(t, "fetching session failed: timeout", n.Message)
	waitFor[model.Idle](t, h.approval)
	assert.True(t, h.approval.Idle())
}

func TestApproval_MissingUserID(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.resolver.On("ResolveSession", mock.Anything, model.NewTokenIdentification("TOK", "")).
		Return(model.ApprovalSession{ID: "S5", Timeout: 30}, nil)

	h.approval.HandleRequest(model.UsernamelessCode{SessionToken: "TOK", RawCode: "approver://usernameless?token=TOK"})

	n := receive(t, h.notifications)
	assert.Equal(t, "fetching session failed: session missing user id", n.Message)
	waitFor[model.Idle](t, h.approval)
}

func TestApproval_UsernamelessWithSelectedAccount(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	account := &model.Account{UserID: "erin", ServiceName: "Acme"}
	id := model.NewTokenIdentification("TOK", "erin")

	h.resolver.On("ResolveSession", mock.Anything, id).Return(model.ApprovalSession{ID: "S6", Timeout: 30}, nil)
	h.responder.On("RejectSession", mock.Anything, id, mock.Anything).Return(nil)

	h.approval.HandleRequest(model.UsernamelessLink{SessionToken: "TOK", URI: "https://login.acme.test/approve?token=TOK", Account: account})

	pending := waitFor[model.PendingApproval](t, h.approval)
	assert.Equal(t, account, pending.Account)

	h.approval.RespondReject()
	assert.Equal(t, "Session rejected", receive(t, h.notifications).Message)
	h.accounts.AssertNotCalled(t, "LookupAccount", mock.Anything, mock.Anything)
}

func TestApproval_Reject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rejectErr error
		want      model.Notification
	}{
		{
			name: "success",
			want: model.Notification{Kind: model.NotificationSuccess, Message: "Session rejected"},
		},
		{
			name:      "failure still completes the cycle",
			rejectErr: errors.New("connection refused"),
			want:      model.Notification{Kind: model.NotificationFailure, Message: "rejecting session failed: connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			id := model.NewTokenIdentification("ABC", "alice")
			h.resolver.On("ResolveSession", mock.Anything, id).Return(model.ApprovalSession{ID: "S7", Timeout: 30, Challenge: model.Challenge{1, 2}}, nil)
			h.accounts.On("LookupAccount", mock.Anything, "alice").Return(model.Account{}, model.ErrNotFound)
			h.responder.On("RejectSession", mock.Anything, id, mock.Anything).Return(tt.rejectErr).Once()

			h.approval.HandleRequest(model.OnlineCode{SessionToken: "ABC", UserID: "alice"})
			assert.Equal(t, model.NavigateToApproval, receive(t, h.navigation))
			waitFor[model.PendingApproval](t, h.approval)

			h.approval.RespondReject()

			assert.Equal(t, tt.want, receive(t, h.notifications))
			assert.Equal(t, model.NavigateToAccounts, receive(t, h.navigation))
			waitFor[model.Idle](t, h.approval)
			h.responder.AssertNotCalled(t, "ApproveSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestApproval_ApproveFailureCompletesCycle(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h := newHarness(t, WithMetrics(m))
	id := model.NewTokenIdentification("ABC", "alice")

	h.resolver.On("ResolveSession", mock.Anything, id).Return(model.ApprovalSession{ID: "S8", Timeout: 30}, nil)
	h.accounts.On("LookupAccount", mock.Anything, "alice").Return(model.Account{}, model.ErrNotFound)
	h.responder.On("ApproveSession", mock.Anything, id, mock.Anything, (*int)(nil)).Return(errors.New("session expired"))

	h.approval.HandleRequest(model.OnlineCode{SessionToken: "ABC", UserID: "alice"})
	assert.Equal(t, model.NavigateToApproval, receive(t, h.navigation))
	waitFor[model.PendingApproval](t, h.approval)

	h.approval.RespondApprove()

	n := receive(t, h.notifications)
	assert.Equal(t, model.Notification{Kind: model.NotificationFailure, Message: "approving session failed: session expired"}, n)
	assert.Equal(t, model.NavigateToAccounts, receive(t, h.navigation))
	waitFor[model.Idle](t, h.approval)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Requests.WithLabelValues(string(model.KindOnlineCode))))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Outcomes.WithLabelValues(string(model.OutcomeFailed))))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.CallFailures.WithLabelValues("approve")))
}

func TestApproval_Timeout(t *testing.T) {
	t.Parallel()

	outcomes := mocks.NewOutcomeStore(t)
	outcomes.On("Record", mock.Anything, mock.MatchedBy(func(o model.Outcome) bool {
		return o.Result == model.OutcomeExpired && o.SessionID == "S10" && o.UserID == "alice"
	})).Return(nil).Once()

	h := newHarness(t, WithOutcomeStore(outcomes))
	h.resolver.On("ResolveSession", mock.Anything, mock.Anything).Return(model.ApprovalSession{ID: "S10", Timeout: 10}, nil)
	h.accounts.On("LookupAccount", mock.Anything, "alice").Return(model.Account{}, model.ErrNotFound)

	h.approval.HandleRequest(model.OnlineCode{SessionToken: "ABC", UserID: "alice"})
	assert.Equal(t, model.NavigateToApproval, receive(t, h.navigation))
	waitFor[model.PendingApproval](t, h.approval)

	assert.Equal(t, model.NavigateToAccounts, receive(t, h.navigation))
	waitFor[model.Idle](t, h.approval)
	assert.Equal(t, 1.0, h.approval.Progress())

	h.responder.AssertNotCalled(t, "ApproveSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	h.responder.AssertNotCalled(t, "RejectSession", mock.Anything, mock.Anything, mock.Anything)
	assertNoEvent(t, h.notifications)
}

func TestApproval_NewestRequestWins(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	first := model.NewTokenIdentification("FIRST", "alice")
	second := model.NewTokenIdentification("SECOND", "alice")

	started := make(chan struct{})
	h.resolver.On("ResolveSession", mock.Anything, first).Run(func(args mock.Arguments) {
		close(started)
		<-args.Get(0).(context.Context).Done()
	}).Return(model.ApprovalSession{}, context.Canceled)
	h.resolver.On("ResolveSession", mock.Anything, second).Return(model.ApprovalSession{ID: "S-second", Timeout: 30}, nil)
	h.accounts.On("LookupAccount", mock.Anything, "alice").Return(model.Account{}, model.ErrNotFound)

	h.approval.HandleRequest(model.OnlineCode{SessionToken: "FIRST", UserID: "alice"})
	<-started
	waitFor[model.Loading](t, h.approval)

	h.approval.HandleRequest(model.OnlineCode{SessionToken: "SECOND", UserID: "alice"})

	pending := waitFor[model.PendingApproval](t, h.approval)
	assert.Equal(t, "S-second", pending.SessionID)
	assertNoEvent(t, h.notifications)
}

func TestApproval_NewRequestCancelsCountdown(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.resolver.On("ResolveSession", mock.Anything, model.NewTokenIdentification("FIRST", "alice")).
		Return(model.ApprovalSession{ID: "S-first", Timeout: 8}, nil)
	h.accounts.On("LookupAccount", mock.Anything, "alice").Return(model.Account{}, model.ErrNotFound)

	h.approval.HandleRequest(model.OnlineCode{SessionToken: "FIRST", UserID: "alice"})
	waitFor[model.PendingApproval](t, h.approval)

	h.approval.HandleRequest(model.OfflineCode{RawCode: "XYZ", UserID: "alice"})
	waitFor[model.OfflineCodePending](t, h.approval)
	assert.Equal(t, 0.0, h.approval.Progress())

	// Well past the first session's timeout the offline state is untouched.
	time.Sleep(150 * time.Millisecond)
	waitFor[model.OfflineCodePending](t, h.approval)
	assert.Equal(t, 0.0, h.approval.Progress())
}

func TestApproval_IgnoresResponsesWhileBusy(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := model.NewTokenIdentification("ABC", "alice")
	called := make(chan struct{})
	release := make(chan struct{})

	h.resolver.On("ResolveSession", mock.Anything, id).Return(model.ApprovalSession{ID: "S11", Timeout: 30}, nil)
	h.accounts.On("LookupAccount", mock.Anything, "alice").Return(model.Account{}, model.ErrNotFound)
	h.responder.On("ApproveSession", mock.Anything, id, mock.Anything, (*int)(nil)).Run(func(mock.Arguments) {
		close(called)
		<-release
	}).Return(nil).Once()

	h.approval.HandleRequest(model.OnlineCode{SessionToken: "ABC", UserID: "alice"})
	waitFor[model.PendingApproval](t, h.approval)

	h.approval.RespondApprove()
	<-called

	h.approval.RespondApprove()
	h.approval.RespondReject()
	close(release)

	assert.Equal(t, "Session approved", receive(t, h.notifications).Message)
	waitFor[model.Idle](t, h.approval)
	h.responder.AssertNumberOfCalls(t, "ApproveSession", 1)
	h.responder.AssertNotCalled(t, "RejectSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproval_ResponsesWithoutCycleAreIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	h.approval.RespondApprove()
	h.approval.RespondReject()
	h.approval.RespondChallenge(1)

	assert.IsType(t, model.Idle{}, h.approval.UIState())
	assertNoEvent(t, h.notifications)
	assertNoEvent(t, h.navigation)
}

func TestApproval_Close(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	started := make(chan struct{})
	h.resolver.On("ResolveSession", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		close(started)
		<-args.Get(0).(context.Context).Done()
	}).Return(model.ApprovalSession{}, context.Canceled)

	h.approval.HandleRequest(model.OnlineCode{SessionToken: "ABC", UserID: "alice"})
	<-started

	done := make(chan struct{})
	go func() {
		h.approval.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	assert.IsType(t, model.Loading{}, h.approval.UIState())
	assertNoEvent(t, h.notifications)

	// Requests after Close are dropped.
	h.approval.HandleRequest(model.OfflineCode{RawCode: "XYZ"})
	assert.IsType(t, model.Loading{}, h.approval.UIState())
}

func TestApproval_RequestsAfterParentCancellation(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	h := newHarnessWithContext(t, parent)
	cancel()

	h.approval.HandleRequest(model.OnlineCode{SessionToken: "ABC123", UserID: "alice"})
	h.approval.HandleRequest(model.OfflineCode{RawCode: "XYZ", UserID: "carol"})
	h.approval.RespondReject()

	time.Sleep(20 * time.Millisecond)
	assert.IsType(t, model.Idle{}, h.approval.UIState())
	assert.True(t, h.approval.Idle())
	h.resolver.AssertNotCalled(t, "ResolveSession", mock.Anything, mock.Anything)
	assertNoEvent(t, h.navigation)
}

func TestApproval_RecordsOutcome(t *testing.T) {
	t.Parallel()

	outcomes := mocks.NewOutcomeStore(t)
	recorded := make(chan model.Outcome, 1)
	outcomes.On("Record", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded <- args.Get(1).(model.Outcome)
	}).Return(nil).Once()

	h := newHarness(t, WithOutcomeStore(outcomes))
	id := model.NewIDIdentification("S12", "bob")
	session := model.ApprovalSession{ID: "S12", Timeout: 30, Challenge: model.Challenge{7, 8}}

	h.resolver.On("ResolveSession", mock.Anything, id).Return(session, nil)
	h.accounts.On("LookupAccount", mock.Anything, "bob").Return(model.Account{}, model.ErrNotFound)
	h.responder.On("ApproveSession", mock.Anything, id, mock.Anything, mock.Anything).Return(nil)

	h.approval.HandleRequest(model.PushApproval{Session: session, UserID: "bob"})
	waitFor[model.PendingApproval](t, h.approval)
	h.approval.RespondApprove()
	waitFor[model.PendingChallengeChoice](t, h.approval)
	h.approval.RespondChallenge(8)

	o := receive(t, recorded)
	assert.Equal(t, model.OutcomeApproved, o.Result)
	assert.Equal(t, model.KindPushApproval, o.Kind)
	assert.Equal(t, "S12", o.SessionID)
	assert.Equal(t, "bob", o.UserID)
	require.NotNil(t, o.Choice)
	assert.Equal(t, 8, *o.Choice)
	assert.Equal(t, "Session approved", o.Message)
}
