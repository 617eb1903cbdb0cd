package eventbus

import "testing"

func TestPublishSubscribe(t *testing.T) {
	bus := New[string]()
	sub := bus.Subscribe()
	bus.Publish("hello")
	select {
	case got := <-sub:
		if got != "hello" {
			t.Errorf("got %q", got)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	bus := New[int]()
	sub := bus.Subscribe()
	for i := 0; i < 20; i++ {
		bus.Publish(i)
	}
	// The buffer holds eight events; the rest were dropped, not blocked on.
	count := 0
	for {
		select {
		case <-sub:
			count++
			continue
		default:
		}
		break
	}
	if count != 8 {
		t.Errorf("received %d events, want 8", count)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New[int]()
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatal("channel still open after unsubscribe")
	}
	bus.Publish(1)
}

func TestCloseTerminatesSubscribers(t *testing.T) {
	bus := New[int]()
	sub := bus.Subscribe()
	bus.Close()
	if _, ok := <-sub; ok {
		t.Fatal("channel still open after close")
	}
	if late := bus.Subscribe(); late == nil {
		t.Fatal("subscribe after close returned nil channel")
	}
	bus.Publish(1)
	bus.Close()
}
