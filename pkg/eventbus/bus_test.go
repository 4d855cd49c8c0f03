package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitDeliversToSubscriber(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe("user-1")
	defer bus.Unsubscribe(sub)

	bus.Emit("user-1", AgentStarted{Agent: "job_search"})

	select {
	case evt := <-sub.Events():
		require.Equal(t, EventAgentStarted, evt.Type())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_EmitOnlyReachesTargetUser(t *testing.T) {
	bus := NewBus()
	subA := bus.Subscribe("user-a")
	subB := bus.Subscribe("user-b")
	defer bus.Unsubscribe(subA)
	defer bus.Unsubscribe(subB)

	bus.Emit("user-a", AgentStarted{Agent: "job_search"})

	select {
	case <-subA.Events():
	case <-time.After(time.Second):
		t.Fatal("user-a should have received the event")
	}

	select {
	case evt, ok := <-subB.Events():
		t.Fatalf("user-b should not receive user-a's event, got %v ok=%v", evt, ok)
	case <-time.After(50 * time.Millisecond):
		// expected: nothing delivered
	}
}

func TestBus_FullBufferDropsSubscriber(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe("user-1")

	for i := 0; i < subscriberBufferSize+5; i++ {
		bus.Emit("user-1", AgentProgress{Agent: "job_search", Message: "tick"})
	}

	assert.Equal(t, 0, bus.SubscriberCount("user-1"), "overflowing subscriber must be dropped")

	// channel must be closed, not just abandoned
	drained := 0
	for range sub.Events() {
		drained++
	}
	assert.Equal(t, subscriberBufferSize, drained)
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe("user-1")
	bus.Unsubscribe(sub)
	assert.NotPanics(t, func() { bus.Unsubscribe(sub) })
}

func TestBus_FIFOPerSubscriber(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe("user-1")
	defer bus.Unsubscribe(sub)

	for i := 0; i < 5; i++ {
		bus.Emit("user-1", AgentProgress{Agent: "job_search", Percent: i})
	}

	for i := 0; i < 5; i++ {
		evt := <-sub.Events()
		progress, ok := evt.(AgentProgress)
		require.True(t, ok)
		assert.Equal(t, i, progress.Percent)
	}
}
