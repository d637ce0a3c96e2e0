package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func runGate(t *testing.T, onAuthenticated, onSignedOut func(uint)) *SessionGate {
	t.Helper()
	gate := NewSessionGate(onAuthenticated, onSignedOut)
	go gate.Run()
	t.Cleanup(gate.Close)
	return gate
}

// publish sends events and waits for the gate to settle on the expected
// state.
func publishAndWait(t *testing.T, gate *SessionGate, userID uint, want GateState, events ...GateEventKind) {
	t.Helper()
	for _, kind := range events {
		gate.Publish(GateEvent{UserID: userID, Kind: kind})
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if gate.State(userID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, want, gate.State(userID))
}

func TestGateSignInSignOut(t *testing.T) {
	gate := runGate(t, nil, nil)

	assert.Equal(t, StateAnonymous, gate.State(1))
	publishAndWait(t, gate, 1, StateAuthenticated, EventAuthenticating, EventSignedIn)
	publishAndWait(t, gate, 1, StateAnonymous, EventSignedOut)
}

func TestGateRecoveryIsSticky(t *testing.T) {
	gate := runGate(t, nil, nil)

	publishAndWait(t, gate, 1, StatePasswordRecovery, EventRecoveryInitiated)

	// A plain sign-in does not leave recovery.
	publishAndWait(t, gate, 1, StatePasswordRecovery, EventSignedIn)

	// Only a completed password change does.
	publishAndWait(t, gate, 1, StateAuthenticated, EventPasswordChanged)
}

func TestGateRecoverySurvivesRepeatedSignIns(t *testing.T) {
	gate := runGate(t, nil, nil)

	publishAndWait(t, gate, 1, StatePasswordRecovery,
		EventRecoveryInitiated, EventSignedIn, EventSignedIn, EventSignedIn)
}

func TestGateFailedAttemptRollsBack(t *testing.T) {
	gate := runGate(t, nil, nil)

	publishAndWait(t, gate, 1, StateAuthenticating, EventAuthenticating)
	publishAndWait(t, gate, 1, StateAnonymous, EventAuthFailed)
}

func TestGateFailedAttemptDoesNotLeaveRecovery(t *testing.T) {
	gate := runGate(t, nil, nil)

	publishAndWait(t, gate, 1, StatePasswordRecovery,
		EventRecoveryInitiated, EventAuthenticating, EventAuthFailed)
	assert.Equal(t, StatePasswordRecovery, gate.State(1))
}

func TestGatePasswordChangeOutsideRecoveryIsNoop(t *testing.T) {
	gate := runGate(t, nil, nil)

	publishAndWait(t, gate, 1, StateAuthenticated, EventSignedIn)
	publishAndWait(t, gate, 1, StateAuthenticated, EventPasswordChanged)
}

func TestGateCallbacks(t *testing.T) {
	var mu sync.Mutex
	var signedIn, signedOut []uint

	gate := runGate(t,
		func(userID uint) {
			mu.Lock()
			signedIn = append(signedIn, userID)
			mu.Unlock()
		},
		func(userID uint) {
			mu.Lock()
			signedOut = append(signedOut, userID)
			mu.Unlock()
		},
	)

	publishAndWait(t, gate, 9, StateAuthenticated, EventSignedIn)
	publishAndWait(t, gate, 9, StateAnonymous, EventSignedOut)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint{9}, signedIn)
	assert.Equal(t, []uint{9}, signedOut)
}

func TestGateUsersAreIndependent(t *testing.T) {
	gate := runGate(t, nil, nil)

	publishAndWait(t, gate, 1, StatePasswordRecovery, EventRecoveryInitiated)
	publishAndWait(t, gate, 2, StateAuthenticated, EventSignedIn)

	assert.Equal(t, StatePasswordRecovery, gate.State(1))
}
