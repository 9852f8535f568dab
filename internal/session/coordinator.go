package session

import (
	"context"
	"log"
	"time"

	"github.com/cbydainnt/mygraduationproject/internal/domain"
)

// CartEngine is the slice of the cart engine the coordinator drives.
// Consumers define this interface, not the engine.
type CartEngine interface {
	Fetch(ctx context.Context) (domain.CartSnapshot, error)
	ResetLocal()
}

// Coordinator wires auth-state changes to the cart lifecycle: login hands
// cart ownership to the server (full fetch replaces local state), logout
// wipes the local cart without a server call. This is deliberately an
// explicit observer instead of one store reaching into another.
type Coordinator struct {
	engine  CartEngine
	timeout time.Duration
}

func NewCoordinator(engine CartEngine, timeout time.Duration) *Coordinator {
	return &Coordinator{engine: engine, timeout: timeout}
}

// Bind subscribes the coordinator to the given session state.
func (c *Coordinator) Bind(state *State) {
	state.Subscribe(c.onEvent)
}

func (c *Coordinator) onEvent(e Event) {
	switch e.Type {
	case LoginEvent:
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if _, err := c.engine.Fetch(ctx); err != nil {
			log.Printf("session: cart fetch after login failed: %v", err)
		}
	case LogoutEvent:
		c.engine.ResetLocal()
	}
}
