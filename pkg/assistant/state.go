package assistant

import (
	"errors"
	"sync"
)

// State is the interaction-cycle state. One interaction owns the cycle
// exclusively: idle -> listening -> processing -> speaking -> idle.
type State string

const (
	StateIdle       State = "idle"
	StateListening  State = "listening"
	StateProcessing State = "processing"
	StateSpeaking   State = "speaking"
)

// ErrBusy is returned when a new interaction is triggered while a previous
// one still owns the session.
var ErrBusy = errors.New("assistant session busy")

type stateMachine struct {
	mu    sync.Mutex
	state State
}

func newStateMachine() *stateMachine {
	return &stateMachine{state: StateIdle}
}

func (m *stateMachine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// acquire takes the exclusive session token by moving idle (or listening,
// when recognition just completed) into processing.
func (m *stateMachine) acquire() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle && m.state != StateListening {
		return ErrBusy
	}
	m.state = StateProcessing
	return nil
}

// beginListening enters listening from idle only; an in-flight interaction
// rejects the trigger.
func (m *stateMachine) beginListening() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return ErrBusy
	}
	m.state = StateListening
	return nil
}

// abortListening returns directly to idle: explicit stop or recognition
// error, which never passes through processing.
func (m *stateMachine) abortListening() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateListening {
		m.state = StateIdle
	}
}

func (m *stateMachine) speaking() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateSpeaking
}

// release returns to idle from any state; speaking ends here regardless of
// playback success.
func (m *stateMachine) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateIdle
}
