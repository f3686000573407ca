package coordinator

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// State follows a single optimistic mutation through its lifecycle:
// Applied → Committed, or Applied → RollingBack → RolledBack. Applied is
// the only state in which the locally observed value may diverge from the
// authoritative backend.
type State int32

const (
	StateIdle State = iota
	StateApplied
	StateCommitted
	StateRollingBack
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateApplied:
		return "applied"
	case StateCommitted:
		return "committed"
	case StateRollingBack:
		return "rolling_back"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

type Kind string

const (
	KindReorder     Kind = "reorder"
	KindStageChange Kind = "stage_change"
)

// Mutation is the handle returned by every coordinator operation. The
// optimistic change is already applied when the handle is handed out;
// Done closes once reconciliation reaches a terminal state.
type Mutation struct {
	ID   uuid.UUID
	Kind Kind
	Key  string

	state atomic.Int32
	err   error
	done  chan struct{}
}

func newMutation(kind Kind, key string) *Mutation {
	m := &Mutation{ID: uuid.New(), Kind: kind, Key: key, done: make(chan struct{})}
	m.state.Store(int32(StateApplied))
	return m
}

// newNoopMutation is handed out for moves that change nothing; it is born
// committed and issues no request.
func newNoopMutation(kind Kind, key string) *Mutation {
	m := &Mutation{ID: uuid.New(), Kind: kind, Key: key, done: make(chan struct{})}
	m.state.Store(int32(StateCommitted))
	close(m.done)
	return m
}

func (m *Mutation) State() State {
	return State(m.state.Load())
}

func (m *Mutation) setState(s State) {
	m.state.Store(int32(s))
}

func (m *Mutation) finish(s State, err error) {
	m.err = err
	m.state.Store(int32(s))
	close(m.done)
}

// Done closes when the mutation reaches Committed or RolledBack.
func (m *Mutation) Done() <-chan struct{} {
	return m.done
}

// Err returns the reconciliation error; only meaningful after Done closes.
func (m *Mutation) Err() error {
	return m.err
}

// Wait blocks until reconciliation terminates and returns its error. For a
// rolled-back mutation that is the original request failure, even when the
// local revert itself succeeded.
func (m *Mutation) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return m.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
