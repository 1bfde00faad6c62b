// Package provider implements ProviderFSM: the
// location-time-zone provider state machine that drives a ListeningBudget
// and a GeoZoneFinder to turn location samples into time zone suggestions.
package provider

import (
	"fmt"
	"time"

	"tzcore/internal/budget"
	"tzcore/internal/geozone"
	"tzcore/internal/tzdata"
)

// State is one of ProviderFSM's states.
type State int

const (
	Stopped State = iota
	StartedActive
	StartedPassive
	Failed
	Destroyed
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case StartedActive:
		return "Started(Active)"
	case StartedPassive:
		return "Started(Passive)"
	case Failed:
		return "Failed"
	case Destroyed:
		return "Destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Cancellable is returned by every Environment scheduling call; Cancel is
// idempotent.
type Cancellable interface {
	Cancel()
}

// LocationResultFunc is invoked once a listen window ends, either because a
// location arrived (known=true) or the window elapsed without one.
type LocationResultFunc func(known bool, latDegrees, lngDegrees float64, elapsedRealtime time.Duration)

// PassiveEndFunc is invoked when a passive listen window ends, reporting
// the actual duration it ran so the caller can credit ListeningBudget.
type PassiveEndFunc func(actualDuration time.Duration)

// TimeoutFunc is invoked when a scheduled timeout fires, carrying back the
// token it was scheduled with.
type TimeoutFunc func(token string)

// Environment decouples the FSM from real location and timer APIs.
type Environment interface {
	ScheduleTimeout(token string, delay time.Duration, callback TimeoutFunc) Cancellable
	ListenActive(duration time.Duration, onResult LocationResultFunc) Cancellable
	ListenPassive(duration time.Duration, onResult LocationResultFunc, onEnd PassiveEndFunc) Cancellable
	ElapsedRealtime() time.Duration
}

// ResultKind names the three outcomes the FSM can deliver to its host.
type ResultKind int

const (
	Suggestion ResultKind = iota
	Uncertain
	PermanentFailure
)

func (k ResultKind) String() string {
	switch k {
	case Suggestion:
		return "Suggestion"
	case Uncertain:
		return "Uncertain"
	case PermanentFailure:
		return "PermanentFailure"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is one delivery to the host.
type Result struct {
	Kind              ResultKind
	ZoneIds           []tzdata.ZoneId
	ElapsedRealtimeMs time.Duration
	Cause             error
}

// Host receives results delivered by the FSM.
type Host interface {
	OnResult(Result)
}

// UnexpectedTransitionError is the HostProtocolViolation raised when an
// event arrives in a state that does not accept it. It is
// deliberately allowed to panic: an unexpected transition is a bug, not a
// recoverable runtime condition.
type UnexpectedTransitionError struct {
	Detail string
}

func (e *UnexpectedTransitionError) Error() string {
	return "host protocol violation: " + e.Detail
}

// FSM is ProviderFSM. All methods must be called from the single "provider
// thread"; it performs no internal locking.
type FSM struct {
	env    Environment
	finder geozone.Finder
	host   Host
	budget *budget.Budget

	state State

	listenCancellable Cancellable
	currentPlan       budget.Plan
	planStartElapsed  time.Duration

	initTimeoutCancellable Cancellable
	initTimeoutToken       string

	lastPlanResult budget.LastResult

	suggestionDelivered bool

	lastDeliveredKind      ResultKind
	lastDeliveredKindValid bool
	lastToken              geozone.LocationToken
	lastTokenValid         bool
}

// New returns an FSM in the Stopped state.
func New(env Environment, finder geozone.Finder, host Host) *FSM {
	return &FSM{
		env:    env,
		finder: finder,
		host:   host,
		budget: budget.New(),
		state:  Stopped,
	}
}

// State returns the current state, for tests and Dump.
func (f *FSM) State() State { return f.state }

// OnBind is a no-op acknowledgement that the provider's host process is
// attached; valid only while Stopped.
func (f *FSM) OnBind() {
	if f.state != Stopped {
		f.unexpected(fmt.Sprintf("onBind() called when state=%s", f.state))
	}
}

// OnStart begins a Start->Stop run, scheduling a one-shot initialization
// timeout and planning the first listen window.
func (f *FSM) OnStart(initTimeout time.Duration) {
	if f.state != Stopped {
		f.unexpected(fmt.Sprintf("onStart() called when state=%s", f.state))
		return
	}

	now := f.env.ElapsedRealtime()
	f.suggestionDelivered = false
	f.lastTokenValid = false
	f.lastDeliveredKindValid = false
	f.lastPlanResult = budget.LastResult{}

	f.initTimeoutToken = fmt.Sprintf("init@%d", now)
	f.initTimeoutCancellable = f.env.ScheduleTimeout(f.initTimeoutToken, initTimeout, f.handleInitTimeout)

	f.planAndListen(now)
}

// OnStop cancels all outstanding callbacks, discards the last-location
// cache, and returns the FSM to Stopped.
func (f *FSM) OnStop() {
	if f.state != StartedActive && f.state != StartedPassive {
		f.unexpected(fmt.Sprintf("onStop() called when state=%s", f.state))
		return
	}
	f.cancelAll()
	f.lastTokenValid = false
	f.lastDeliveredKindValid = false
	f.state = Stopped
}

// OnDestroy is valid from any state; it delivers Uncertain if a run was in
// progress, then transitions to the terminal Destroyed state.
func (f *FSM) OnDestroy() {
	f.cancelAll()
	if f.state == StartedActive || f.state == StartedPassive {
		f.deliverUncertain(f.env.ElapsedRealtime())
	}
	f.state = Destroyed
}

func (f *FSM) handleLocationResult(known bool, latDegrees, lngDegrees float64, elapsedRealtime time.Duration) {
	if f.state != StartedActive && f.state != StartedPassive {
		// Stale callback from a cancelled listen; a no-op by design.
		return
	}
	if known {
		f.onLocationKnown(latDegrees, lngDegrees, elapsedRealtime)
	} else {
		f.onLocationNotKnown(elapsedRealtime)
	}
}

func (f *FSM) onLocationKnown(latDegrees, lngDegrees float64, elapsed time.Duration) {
	wasActive := f.state == StartedActive
	if wasActive {
		used := elapsed - f.planStartElapsed
		if unused := f.currentPlan.Duration - used; unused > 0 {
			f.budget.Deposit(unused)
		}
	}

	token := f.finder.TokenForLatLng(latDegrees, lngDegrees)
	zoneIds, err := f.finder.ZoneIdsForToken(token)
	if err != nil {
		f.onLookupFailure(err)
		return
	}

	f.deliverSuggestion(token, zoneIds, elapsed)

	f.lastPlanResult = budget.LastResult{Kind: budget.ResultLocationKnown, Timestamp: elapsed}
	if f.initTimeoutCancellable != nil {
		f.initTimeoutCancellable.Cancel()
		f.initTimeoutCancellable = nil
	}
	f.planAndListen(elapsed)
}

func (f *FSM) onLocationNotKnown(elapsed time.Duration) {
	initPending := f.initTimeoutCancellable != nil
	if f.state == StartedActive && !f.suggestionDelivered && initPending {
		// Stay silent: the init timeout will speak for this run if nothing
		// better arrives before it fires.
	} else {
		f.deliverUncertain(elapsed)
	}

	f.lastPlanResult = budget.LastResult{Kind: budget.ResultLocationNotKnown, Timestamp: elapsed}
	f.planAndListen(elapsed)
}

func (f *FSM) handlePassiveEnded(actualDuration time.Duration) {
	if f.state != StartedPassive {
		return
	}
	f.budget.Accrue(actualDuration)
	f.planAndListen(f.env.ElapsedRealtime())
}

func (f *FSM) handleInitTimeout(token string) {
	if token != f.initTimeoutToken {
		return // stale, superseded timeout
	}
	f.initTimeoutCancellable = nil
	if f.state != StartedActive && f.state != StartedPassive {
		return
	}
	if !f.lastDeliveredKindValid {
		f.deliverUncertain(f.env.ElapsedRealtime())
	}
}

func (f *FSM) onLookupFailure(cause error) {
	f.cancelAll()
	f.host.OnResult(Result{Kind: PermanentFailure, Cause: cause})
	f.state = Failed
}

// planAndListen asks the budget for the next plan and starts listening
// accordingly, replacing any previous listen handle.
func (f *FSM) planAndListen(now time.Duration) {
	if f.listenCancellable != nil {
		f.listenCancellable.Cancel()
		f.listenCancellable = nil
	}

	plan := f.budget.Plan(now, f.lastPlanResult)
	f.currentPlan = plan
	f.planStartElapsed = now

	switch plan.Mode {
	case budget.Active:
		f.state = StartedActive
		f.listenCancellable = f.env.ListenActive(plan.Duration, f.handleLocationResult)
	case budget.Passive:
		f.state = StartedPassive
		f.listenCancellable = f.env.ListenPassive(plan.Duration, f.handleLocationResult, f.handlePassiveEnded)
	}
}

func (f *FSM) deliverSuggestion(token geozone.LocationToken, zoneIds []tzdata.ZoneId, elapsed time.Duration) {
	if f.lastDeliveredKindValid && f.lastDeliveredKind == Suggestion && f.lastTokenValid && f.lastToken == token {
		return
	}
	f.host.OnResult(Result{Kind: Suggestion, ZoneIds: zoneIds, ElapsedRealtimeMs: elapsed})
	f.lastDeliveredKind = Suggestion
	f.lastDeliveredKindValid = true
	f.lastToken = token
	f.lastTokenValid = true
	f.suggestionDelivered = true
}

func (f *FSM) deliverUncertain(elapsed time.Duration) {
	if f.lastDeliveredKindValid && f.lastDeliveredKind == Uncertain {
		return
	}
	f.host.OnResult(Result{Kind: Uncertain, ElapsedRealtimeMs: elapsed})
	f.lastDeliveredKind = Uncertain
	f.lastDeliveredKindValid = true
	f.lastTokenValid = false
}

func (f *FSM) cancelAll() {
	if f.listenCancellable != nil {
		f.listenCancellable.Cancel()
		f.listenCancellable = nil
	}
	if f.initTimeoutCancellable != nil {
		f.initTimeoutCancellable.Cancel()
		f.initTimeoutCancellable = nil
	}
}

// unexpected raises the deliberate, loud HostProtocolViolation assertion:
// an unexpected state transition is a bug in the host, not a recoverable
// condition.
func (f *FSM) unexpected(detail string) {
	panic(&UnexpectedTransitionError{Detail: detail})
}

// Dump writes a short human-readable snapshot of FSM state for debugging.
func (f *FSM) Dump(w interface{ WriteString(string) (int, error) }) {
	w.WriteString(fmt.Sprintf("state=%s\n", f.state))
	w.WriteString(fmt.Sprintf("budget.remaining=%s\n", f.budget.Remaining()))
	w.WriteString(fmt.Sprintf("suggestionDelivered=%v\n", f.suggestionDelivered))
	if f.lastDeliveredKindValid {
		w.WriteString(fmt.Sprintf("lastDelivered=%s\n", f.lastDeliveredKind))
	}
}
