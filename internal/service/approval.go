package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/approver/internal/countdown"
	"github.com/dtroode/approver/internal/logger"
	"github.com/dtroode/approver/internal/metrics"
	"github.com/dtroode/approver/internal/model"
	"github.com/dtroode/approver/internal/observe"
)

const eventBuffer = 16

// cycle is one approval attempt, from HandleRequest until the state
// returns to idle. Work started for a cycle runs under its context and may
// only touch the state while the cycle is current.
type cycle struct {
	id     uuid.UUID
	kind   model.RequestKind
	ctx    context.Context
	cancel context.CancelFunc
	busy   bool
}

// Approval turns authentication requests into a single, time-bounded
// approve/reject workflow. The newest request always wins: it cancels the
// running countdown and any in-flight work of the previous cycle.
type Approval struct {
	resolver  model.SessionResolver
	router    *ResultRouter
	decryptor model.ExtrasDecryptor
	accounts  model.AccountDirectory
	outcomes  model.OutcomeStore
	metrics   *metrics.Metrics
	logger    *logger.Logger

	timer       *countdown.Timer
	timeoutUnit time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	state  model.State
	cur    *cycle
	closed bool

	ui            *observe.Value[model.UIState]
	progress      *observe.Value[float64]
	notifications *observe.Events[model.Notification]
	navigation    *observe.Events[model.Navigation]
	codes         *observe.Events[string]
}

var _ model.Orchestrator = (*Approval)(nil)

// Option configures an Approval.
type Option func(*Approval)

// WithMetrics records request, outcome and call metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Approval) { a.metrics = m }
}

// WithOutcomeStore persists every completed cycle.
func WithOutcomeStore(s model.OutcomeStore) Option {
	return func(a *Approval) { a.outcomes = s }
}

// WithTickInterval sets how often countdown progress is published.
func WithTickInterval(d time.Duration) Option {
	return func(a *Approval) { a.timer = countdown.New(d) }
}

// WithTimeoutUnit sets the length of one unit of ApprovalSession.Timeout.
// It is a second unless overridden.
func WithTimeoutUnit(d time.Duration) Option {
	return func(a *Approval) { a.timeoutUnit = d }
}

// NewApproval creates an Approval whose work lives until ctx is done or
// Close is called.
func NewApproval(
	ctx context.Context,
	resolver model.SessionResolver,
	responder model.SessionResponder,
	decryptor model.ExtrasDecryptor,
	offline model.OfflineCodeFetcher,
	accounts model.AccountDirectory,
	logger *logger.Logger,
	opts ...Option,
) *Approval {
	a := &Approval{
		resolver:      resolver,
		decryptor:     decryptor,
		accounts:      accounts,
		logger:        logger,
		timer:         countdown.New(countdown.DefaultInterval),
		timeoutUnit:   time.Second,
		ui:            observe.NewValue[model.UIState](model.Idle{}),
		progress:      observe.NewValue(0.0),
		notifications: observe.NewEvents[model.Notification](eventBuffer),
		navigation:    observe.NewEvents[model.Navigation](eventBuffer),
		codes:         observe.NewEvents[string](eventBuffer),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.router = NewResultRouter(responder, offline, a.metrics, logger)
	a.ctx, a.cancel = context.WithCancel(ctx)

	return a
}

// HandleRequest starts a new approval cycle for req, replacing whatever was
// in progress.
func (a *Approval) HandleRequest(req model.AuthRequest) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stoppedLocked() {
		a.logger.Debug("Approval service: dropping request after shutdown",
			"kind", req.Kind())
		return
	}

	a.timer.Stop()
	if a.cur != nil {
		a.logger.Info("Approval service: superseding active cycle",
			"cycle_id", a.cur.id,
			"kind", a.cur.kind)
		a.cur.cancel()
	}

	ctx, cancel := context.WithCancel(a.ctx)
	c := &cycle{id: uuid.New(), kind: req.Kind(), ctx: ctx, cancel: cancel}
	a.cur = c
	a.progress.Set(0)
	a.metrics.IncrementRequest(string(req.Kind()))

	a.logger.Info("Approval service: handling request",
		"cycle_id", c.id,
		"kind", req.Kind())

	switch r := req.(type) {
	case model.OfflineCode:
		rawCode := r.RawCode
		a.setStateLocked(model.State{OfflineCode: &rawCode, ExtraInfo: r.InlineExtraInfo})
		a.spawnLocked(func() { a.attachAccount(c, r.UserID) })
	case model.OnlineCode, model.UsernamelessCode, model.UsernamelessLink, model.PushApproval, model.SessionPoll:
		a.setStateLocked(model.State{ShowLoader: true})
		a.spawnLocked(func() { a.resolve(c, r) })
	}

	a.navigation.Emit(model.NavigateToApproval)
}

// RespondApprove approves the pending session. For a session with a
// challenge the first call only reveals the choices.
func (a *Approval) RespondApprove() {
	a.respond(model.ResponseApprove, nil)
}

// RespondReject rejects the pending session or dismisses an offline code.
func (a *Approval) RespondReject() {
	a.respond(model.ResponseReject, nil)
}

// RespondChallenge approves the pending session with the picked number.
// It is ignored unless the challenge choices are showing.
func (a *Approval) RespondChallenge(choice int) {
	a.respond(model.ResponseChallengeChoice, &choice)
}

func (a *Approval) respond(resp model.Response, choice *int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c := a.cur
	if a.stoppedLocked() || c == nil {
		a.logger.Debug("Approval service: ignoring response without active cycle",
			"response", resp.String())
		return
	}
	if c.busy {
		a.logger.Debug("Approval service: ignoring response while a call is in flight",
			"cycle_id", c.id,
			"response", resp.String())
		return
	}

	if a.state.OfflineCode != nil {
		rawCode := *a.state.OfflineCode
		switch resp {
		case model.ResponseApprove:
			c.busy = true
			a.spawnLocked(func() { a.revealOfflineCode(c, rawCode) })
		case model.ResponseReject:
			a.logger.Info("Approval service: offline code dismissed",
				"cycle_id", c.id)
			a.endCycleLocked(c, model.OutcomeRejected, nil, "")
			a.navigation.Emit(model.NavigateToAccounts)
		case model.ResponseChallengeChoice:
			a.logger.Debug("Approval service: offline code has no challenge",
				"cycle_id", c.id)
		}
		return
	}

	if a.state.Session == nil || a.state.Identification == nil {
		a.logger.Debug("Approval service: ignoring response while loading",
			"cycle_id", c.id,
			"response", resp.String())
		return
	}

	session := *a.state.Session
	id := *a.state.Identification
	extraInfo := a.state.ExtraInfo

	switch resp {
	case model.ResponseApprove:
		if session.Challenge.Present() {
			if !a.state.ShowingChallenge {
				a.state.ShowingChallenge = true
				a.publishLocked()
			}
			return
		}
		c.busy = true
		a.spawnLocked(func() { a.approve(c, id, extraInfo, nil) })
	case model.ResponseChallengeChoice:
		if !a.state.ShowingChallenge {
			a.logger.Debug("Approval service: ignoring challenge choice before challenge is shown",
				"cycle_id", c.id)
			return
		}
		if !session.Challenge.Contains(*choice) {
			a.logger.Warn("Approval service: ignoring challenge choice that was not offered",
				"cycle_id", c.id,
				"choice", *choice)
			return
		}
		c.busy = true
		a.spawnLocked(func() { a.approve(c, id, extraInfo, choice) })
	case model.ResponseReject:
		c.busy = true
		a.spawnLocked(func() { a.reject(c, id, extraInfo) })
	}
}

func (a *Approval) resolve(c *cycle, req model.AuthRequest) {
	res, err := a.resolveSession(c.ctx, req)
	if c.ctx.Err() != nil {
		return
	}
	if err != nil {
		a.logger.Error("Approval service: failed to resolve session",
			"cycle_id", c.id,
			"kind", c.kind,
			"error", err.Error())
		a.fail(c, fmt.Sprintf("fetching session failed: %v", err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.currentLocked(c) {
		return
	}

	session := res.session
	id := res.ident
	a.setStateLocked(model.State{
		Session:        &session,
		ExtraInfo:      res.extraInfo,
		Account:        res.account,
		Identification: &id,
	})

	a.logger.Info("Approval service: session pending approval",
		"cycle_id", c.id,
		"session_id", session.ID,
		"user_id", id.UserID(),
		"timeout", session.Timeout,
		"challenge", session.Challenge.Present())

	a.timer.Start(c.ctx,
		time.Duration(session.Timeout)*a.timeoutUnit,
		func(p float64) { a.onProgress(c, p) },
		func() { a.onTimeout(c) },
	)
}

func (a *Approval) attachAccount(c *cycle, userID string) {
	account := a.lookupAccount(c.ctx, userID)
	if account == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.currentLocked(c) || a.state.OfflineCode == nil {
		return
	}
	a.state.Account = account
	a.publishLocked()
}

func (a *Approval) approve(c *cycle, id model.SessionIdentification, extraInfo []model.DetailItem, choice *int) {
	err := a.router.Approve(c.ctx, id, extraInfo, choice)
	a.complete(c, model.OutcomeApproved, choice, err, "Session approved", "approving session failed")
}

func (a *Approval) reject(c *cycle, id model.SessionIdentification, extraInfo []model.DetailItem) {
	err := a.router.Reject(c.ctx, id, extraInfo)
	a.complete(c, model.OutcomeRejected, nil, err, "Session rejected", "rejecting session failed")
}

// complete finishes a cycle after an approve or reject call. The countdown
// is cancelled, the state reset and the user sent back to the accounts
// list whether or not the call succeeded.
func (a *Approval) complete(c *cycle, result model.OutcomeResult, choice *int, err error, success, failure string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.currentLocked(c) {
		a.logger.Debug("Approval service: dropping result of superseded cycle",
			"cycle_id", c.id)
		return
	}

	msg := success
	if err != nil {
		msg = fmt.Sprintf("%s: %v", failure, err)
		result = model.OutcomeFailed
		a.notifications.Emit(model.Notification{Kind: model.NotificationFailure, Message: msg})
	} else {
		a.notifications.Emit(model.Notification{Kind: model.NotificationSuccess, Message: msg})
	}

	a.logger.Info("Approval service: cycle completed",
		"cycle_id", c.id,
		"result", result)

	a.endCycleLocked(c, result, choice, msg)
	a.navigation.Emit(model.NavigateToAccounts)
}

func (a *Approval) revealOfflineCode(c *cycle, rawCode string) {
	code, err := a.router.FetchOfflineVerificationCode(c.ctx, rawCode)

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.currentLocked(c) {
		return
	}

	if err != nil {
		msg := fmt.Sprintf("fetching verification code failed: %v", err)
		a.notifications.Emit(model.Notification{Kind: model.NotificationFailure, Message: msg})
		a.endCycleLocked(c, model.OutcomeFailed, nil, msg)
		return
	}

	c.busy = false
	a.codes.Emit(code)
	a.logger.Info("Approval service: offline verification code revealed",
		"cycle_id", c.id)
}

// fail ends a cycle whose session could not be resolved.
func (a *Approval) fail(c *cycle, msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.currentLocked(c) {
		return
	}

	a.notifications.Emit(model.Notification{Kind: model.NotificationFailure, Message: msg})
	a.endCycleLocked(c, model.OutcomeFailed, nil, msg)
}

func (a *Approval) onProgress(c *cycle, p float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentLocked(c) && a.state.Session != nil {
		a.progress.Set(p)
	}
}

// onTimeout expires the pending session locally. No reject is sent to the
// remote session.
func (a *Approval) onTimeout(c *cycle) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.currentLocked(c) || a.state.Session == nil {
		return
	}

	a.logger.Info("Approval service: session expired",
		"cycle_id", c.id,
		"session_id", a.state.Session.ID)

	a.endCycleLocked(c, model.OutcomeExpired, nil, "")
	a.navigation.Emit(model.NavigateToAccounts)
}

// endCycleLocked stops the countdown, cancels the cycle's work, resets the
// state to idle and records the outcome.
func (a *Approval) endCycleLocked(c *cycle, result model.OutcomeResult, choice *int, msg string) {
	outcome := model.Outcome{
		ID:        uuid.New(),
		CycleID:   c.id,
		Kind:      c.kind,
		Result:    result,
		Choice:    choice,
		Message:   msg,
		CreatedAt: time.Now(),
	}
	if a.state.Session != nil {
		outcome.SessionID = a.state.Session.ID
	}
	if a.state.Identification != nil {
		outcome.UserID = a.state.Identification.UserID()
	}

	a.timer.Stop()
	c.cancel()
	a.cur = nil
	a.setStateLocked(model.State{})
	a.metrics.IncrementOutcome(string(result))

	if a.outcomes != nil {
		a.spawnLocked(func() {
			if err := a.outcomes.Record(a.ctx, outcome); err != nil {
				a.logger.Error("Approval service: failed to record outcome",
					"cycle_id", outcome.CycleID,
					"error", err.Error())
			}
		})
	}
}

func (a *Approval) currentLocked(c *cycle) bool {
	return !a.closed && a.cur == c && c.ctx.Err() == nil
}

func (a *Approval) setStateLocked(s model.State) {
	a.state = s
	a.publishLocked()
}

func (a *Approval) publishLocked() {
	a.ui.Set(model.Derive(a.state))
}

// stoppedLocked reports whether Close was called or the parent context is done.
func (a *Approval) stoppedLocked() bool {
	return a.closed || a.ctx.Err() != nil
}

func (a *Approval) spawnLocked(f func()) {
	if a.stoppedLocked() {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		f()
	}()
}

// Idle reports whether no approval cycle is in progress.
func (a *Approval) Idle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cur == nil
}

// UIState returns the current presented state.
func (a *Approval) UIState() model.UIState {
	return a.ui.Get()
}

// WatchState streams the presented state, starting with the current one.
func (a *Approval) WatchState(ctx context.Context) <-chan model.UIState {
	return a.ui.Subscribe(ctx)
}

// Progress returns the current countdown progress in [0, 1].
func (a *Approval) Progress() float64 {
	return a.progress.Get()
}

// WatchProgress streams countdown progress, starting with the current value.
func (a *Approval) WatchProgress(ctx context.Context) <-chan float64 {
	return a.progress.Subscribe(ctx)
}

// Notifications streams user-facing success and failure messages.
func (a *Approval) Notifications(ctx context.Context) <-chan model.Notification {
	return a.notifications.Subscribe(ctx)
}

// Navigation streams navigation signals.
func (a *Approval) Navigation(ctx context.Context) <-chan model.Navigation {
	return a.navigation.Subscribe(ctx)
}

// VerificationCodes streams offline verification codes once retrieved.
func (a *Approval) VerificationCodes(ctx context.Context) <-chan string {
	return a.codes.Subscribe(ctx)
}

// Close cancels all in-flight work and the countdown, then waits for
// background work to return. The state is left as it was.
func (a *Approval) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.timer.Stop()
	a.cancel()
	a.mu.Unlock()

	a.wg.Wait()
}
