package server

import (
	"context"
	"testing"
	"time"

	"github.com/writecast-labs/writecast/backend/internal/game"
)

func TestRealtimeDispatcherPublishesToSubscriber(t *testing.T) {
	dispatcher := NewRealtimeDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx, "AAAAAA")
	defer cleanup()

	event := game.Event{
		GameCode:      "AAAAAA",
		Type:          game.EventGuess,
		PlayerID:      "player-1",
		AttemptNumber: 1,
		OccurredAt:    time.Now().UTC(),
	}
	dispatcher.PublishGameEvent(event)

	select {
	case received := <-stream:
		if received.Type != game.EventGuess {
			t.Fatalf("unexpected event type %s", received.Type)
		}
		if received.GameCode != "AAAAAA" {
			t.Fatalf("unexpected game code %s", received.GameCode)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
}

func TestRealtimeDispatcherScopesEventsToGameCode(t *testing.T) {
	dispatcher := NewRealtimeDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx, "AAAAAA")
	defer cleanup()

	dispatcher.PublishGameEvent(game.Event{GameCode: "BBBBBB", Type: game.EventGuess})

	select {
	case received := <-stream:
		t.Fatalf("unexpected cross-game event %+v", received)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRealtimeDispatcherStopsDeliveryAfterCleanup(t *testing.T) {
	dispatcher := NewRealtimeDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx, "AAAAAA")
	cleanup()

	dispatcher.PublishGameEvent(game.Event{GameCode: "AAAAAA", Type: game.EventGuess})

	select {
	case _, open := <-stream:
		if open {
			t.Fatalf("expected channel to be closed after cleanup")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected closed channel after cleanup")
	}
}

func TestRealtimeDispatcherSupportsMultipleSubscribers(t *testing.T) {
	dispatcher := NewRealtimeDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, cleanupFirst := dispatcher.Subscribe(ctx, "AAAAAA")
	defer cleanupFirst()
	second, cleanupSecond := dispatcher.Subscribe(ctx, "AAAAAA")
	defer cleanupSecond()

	dispatcher.PublishGameEvent(game.Event{GameCode: "AAAAAA", Type: game.EventCompleted})

	for index, stream := range []<-chan game.Event{first, second} {
		select {
		case received := <-stream:
			if received.Type != game.EventCompleted {
				t.Fatalf("subscriber %d got unexpected event %+v", index, received)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d timed out", index)
		}
	}
}
