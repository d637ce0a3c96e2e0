package service

import (
	"sync"

	"praktikmaal_backend/pkg/logger"

	"go.uber.org/zap"
)

// GateState is the authentication phase a user is in.
type GateState string

const (
	StateAnonymous        GateState = "anonymous"
	StateAuthenticating   GateState = "authenticating"
	StateAuthenticated    GateState = "authenticated"
	StatePasswordRecovery GateState = "password-recovery"
)

// GateEventKind is an authentication transition.
type GateEventKind string

const (
	EventAuthenticating    GateEventKind = "authenticating"
	EventAuthFailed        GateEventKind = "auth-failed"
	EventSignedIn          GateEventKind = "signed-in"
	EventSignedOut         GateEventKind = "signed-out"
	EventRecoveryInitiated GateEventKind = "recovery-initiated"
	EventPasswordChanged   GateEventKind = "password-changed"
)

// GateEvent is one transition for one user.
type GateEvent struct {
	UserID uint
	Kind   GateEventKind
}

// SessionGate tracks the per-user authentication state machine. Recovery is
// sticky: once a user enters password recovery, a plain sign-in does not
// move them forward; only a completed password change does. Events stream
// through a channel the gate owns and processes in order.
type SessionGate struct {
	mu     sync.Mutex
	states map[uint]GateState

	events chan GateEvent
	done   chan struct{}

	onAuthenticated func(userID uint)
	onSignedOut     func(userID uint)
}

func NewSessionGate(onAuthenticated, onSignedOut func(userID uint)) *SessionGate {
	return &SessionGate{
		states:          make(map[uint]GateState),
		events:          make(chan GateEvent, 64),
		done:            make(chan struct{}),
		onAuthenticated: onAuthenticated,
		onSignedOut:     onSignedOut,
	}
}

// Run consumes events until Close. Call it from a dedicated goroutine.
func (g *SessionGate) Run() {
	for {
		select {
		case event := <-g.events:
			g.apply(event)
		case <-g.done:
			for {
				select {
				case event := <-g.events:
					g.apply(event)
				default:
					return
				}
			}
		}
	}
}

// Close stops the Run loop after draining pending events.
func (g *SessionGate) Close() {
	close(g.done)
}

// Publish queues an event. Publishing after Close is a no-op.
func (g *SessionGate) Publish(event GateEvent) {
	select {
	case <-g.done:
	case g.events <- event:
	}
}

// State reports the user's current phase.
func (g *SessionGate) State(userID uint) GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	state, ok := g.states[userID]
	if !ok {
		return StateAnonymous
	}
	return state
}

func (g *SessionGate) apply(event GateEvent) {
	g.mu.Lock()
	current, ok := g.states[event.UserID]
	if !ok {
		current = StateAnonymous
	}
	next := transition(current, event.Kind)
	g.states[event.UserID] = next
	g.mu.Unlock()

	if next == current {
		return
	}
	logger.Log.Info("session state changed",
		zap.Uint("user", event.UserID),
		zap.String("from", string(current)),
		zap.String("to", string(next)))

	switch {
	case next == StateAuthenticated && g.onAuthenticated != nil:
		g.onAuthenticated(event.UserID)
	case next == StateAnonymous && current != StateAnonymous && g.onSignedOut != nil:
		g.onSignedOut(event.UserID)
	}
}

func transition(current GateState, kind GateEventKind) GateState {
	switch kind {
	case EventAuthenticating:
		if current == StateAnonymous {
			return StateAuthenticating
		}
	case EventAuthFailed:
		// Rolls back a pending attempt only; recovery and an existing
		// session are untouched.
		if current == StateAuthenticating {
			return StateAnonymous
		}
	case EventSignedIn:
		// Recovery holds until the password is actually changed.
		if current == StatePasswordRecovery {
			return StatePasswordRecovery
		}
		return StateAuthenticated
	case EventSignedOut:
		return StateAnonymous
	case EventRecoveryInitiated:
		return StatePasswordRecovery
	case EventPasswordChanged:
		if current == StatePasswordRecovery {
			return StateAuthenticated
		}
	}
	return current
}
