package events

import (
	"testing"
	"time"

	"glowup/server/internal/model"
)

func TestPublishReachesOwnSubscribersOnly(t *testing.T) {
	hub := NewHub()

	_, mine, cancelMine := hub.Subscribe("user-a", 4)
	defer cancelMine()
	_, theirs, cancelTheirs := hub.Subscribe("user-b", 4)
	defer cancelTheirs()

	hub.Publish("user-a", model.VideoUpdate{Video: model.Video{ID: "v1"}})

	select {
	case upd := <-mine:
		if upd.Video.ID != "v1" {
			t.Fatalf("got video %q", upd.Video.ID)
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber never received update")
	}

	select {
	case upd := <-theirs:
		t.Fatalf("update leaked to another user: %+v", upd)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	_, ch, unsubscribe := hub.Subscribe("user-a", 4)
	unsubscribe()
	if _, ok := <-ch; ok {
		t.Fatalf("channel still open after unsubscribe")
	}
	// A second unsubscribe must be a no-op, not a double close.
	unsubscribe()
	hub.Publish("user-a", model.VideoUpdate{})
}

func TestPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	hub := NewHub()
	_, _, unsubscribe := hub.Subscribe("user-a", 1)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			hub.Publish("user-a", model.VideoUpdate{})
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on a full subscriber")
	}
}
