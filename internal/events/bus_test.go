package events

import (
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPublishReachesSubscriber(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	var mu sync.Mutex
	var got []Event
	bus.Subscribe(EventTaskRescheduled, func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})

	bus.Publish(EventTaskRescheduled, map[string]interface{}{"task_id": "t1"})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	})
	mu.Lock()
	defer mu.Unlock()
	if got[0].Type != EventTaskRescheduled {
		t.Errorf("type = %s", got[0].Type)
	}
	if got[0].Data["task_id"] != "t1" {
		t.Errorf("data = %v", got[0].Data)
	}
	if got[0].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestSubscribersAreTypeScoped(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	var mu sync.Mutex
	count := 0
	bus.Subscribe(EventMilestoneRecomputed, func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(EventTaskRescheduled, nil)
	bus.Publish(EventMilestoneRecomputed, nil)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	})
	// Give the stray event a chance to be (wrongly) delivered.
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	var mu sync.Mutex
	count := 0
	unsub := bus.Subscribe(EventEditRejected, func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(EventEditRejected, nil)
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	})

	unsub()
	bus.Publish(EventEditRejected, nil)
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("count = %d after unsubscribe, want 1", count)
	}
}

func TestPanickingSubscriberDoesNotKillBus(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	var mu sync.Mutex
	delivered := 0
	bus.Subscribe(EventBatchFlushed, func(Event) {
		panic("subscriber bug")
	})
	bus.Subscribe(EventBatchFlushed, func(Event) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})

	bus.Publish(EventBatchFlushed, nil)
	bus.Publish(EventBatchFlushed, nil)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered == 2
	})
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus(1)
	defer bus.Close()

	release := make(chan struct{})
	var mu sync.Mutex
	seen := 0
	bus.Subscribe(EventTaskRescheduled, func(Event) {
		<-release
		mu.Lock()
		seen++
		mu.Unlock()
	})

	// First event is picked up by the goroutine, second fills the buffer,
	// the rest are dropped. None of the publishes may block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(EventTaskRescheduled, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	close(release)
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen >= 1
	})
}
