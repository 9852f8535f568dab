package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbydainnt/mygraduationproject/internal/domain"
	"github.com/cbydainnt/mygraduationproject/internal/gateway"
)

type fakeEngine struct {
	m       sync.Mutex
	fetches int
	resets  int
}

func (f *fakeEngine) Fetch(context.Context) (domain.CartSnapshot, error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.fetches++
	return domain.CartSnapshot{}, nil
}

func (f *fakeEngine) ResetLocal() {
	f.m.Lock()
	defer f.m.Unlock()
	f.resets++
}

func TestCoordinator_LoginTriggersFetch(t *testing.T) {
	engine := &fakeEngine{}
	state := NewState()
	NewCoordinator(engine, time.Second).Bind(state)

	state.Login("jwt-abc", 42)

	assert.Equal(t, 1, engine.fetches, "login hands cart ownership to the server")
	assert.Equal(t, 0, engine.resets)
}

func TestCoordinator_LogoutTriggersLocalReset(t *testing.T) {
	engine := &fakeEngine{}
	state := NewState()
	NewCoordinator(engine, time.Second).Bind(state)

	state.Login("jwt-abc", 42)
	state.Logout()

	assert.Equal(t, 1, engine.fetches)
	assert.Equal(t, 1, engine.resets, "logout wipes the local cart, no server call")
}

func TestState_TokenLifecycle(t *testing.T) {
	state := NewState()

	_, err := state.Token()
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.False(t, state.Authed())

	state.Login("jwt-abc", 42)
	token, err := state.Token()
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)
	assert.True(t, state.Authed())
	assert.Equal(t, int64(42), state.UserID())

	state.Logout()
	_, err = state.Token()
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.False(t, state.Authed())
	assert.Zero(t, state.UserID())
}

func TestState_LogoutEventCarriesUserID(t *testing.T) {
	state := NewState()
	var events []Event
	state.Subscribe(func(e Event) { events = append(events, e) })

	state.Login("jwt-abc", 42)
	state.Logout()

	require.Len(t, events, 2)
	assert.Equal(t, Event{Type: LoginEvent, UserID: 42}, events[0])
	assert.Equal(t, Event{Type: LogoutEvent, UserID: 42}, events[1])
}
