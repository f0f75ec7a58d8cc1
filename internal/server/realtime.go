package server

import (
	"context"
	"sync"

	"github.com/writecast-labs/writecast/backend/internal/game"
)

const realtimeHeartbeatEvent = "heartbeat"

// RealtimeDispatcher fans game events out to live observers of a game code,
// typically an author watching guesses land on their puzzle. Slow subscribers
// drop events rather than stalling the guess path.
type RealtimeDispatcher struct {
	mu          sync.RWMutex
	subscribers map[string]map[int64]*realtimeSubscriber
	nextID      int64
	bufferSize  int
}

type realtimeSubscriber struct {
	id     int64
	stream chan game.Event
}

// NewRealtimeDispatcher constructs a dispatcher with a small per-subscriber buffer.
func NewRealtimeDispatcher() *RealtimeDispatcher {
	return &RealtimeDispatcher{
		subscribers: make(map[string]map[int64]*realtimeSubscriber),
		bufferSize:  16,
	}
}

// Subscribe registers an observer for the game code. The returned channel is
// closed-over by ctx: cancellation unregisters the subscriber.
func (d *RealtimeDispatcher) Subscribe(ctx context.Context, gameCode string) (<-chan game.Event, func()) {
	if gameCode == "" {
		ch := make(chan game.Event)
		close(ch)
		return ch, func() {}
	}
	subscriber := &realtimeSubscriber{
		id:     d.nextSequence(),
		stream: make(chan game.Event, d.bufferSize),
	}
	d.registerSubscriber(gameCode, subscriber)
	cleanup := func() {
		d.unregisterSubscriber(gameCode, subscriber.id)
	}
	go func() {
		<-ctx.Done()
		cleanup()
	}()
	return subscriber.stream, cleanup
}

// PublishGameEvent delivers the event to every subscriber of its game code.
// Implements the engine's EventSink.
func (d *RealtimeDispatcher) PublishGameEvent(event game.Event) {
	if event.GameCode == "" || event.Type == "" {
		return
	}
	// Sends stay under the read lock so they cannot race the close in
	// unregisterSubscriber; they never block thanks to the default case.
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, subscriber := range d.subscribers[event.GameCode] {
		select {
		case subscriber.stream <- event:
		default:
		}
	}
}

func (d *RealtimeDispatcher) nextSequence() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	return d.nextID
}

func (d *RealtimeDispatcher) registerSubscriber(gameCode string, subscriber *realtimeSubscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.subscribers[gameCode]; !ok {
		d.subscribers[gameCode] = make(map[int64]*realtimeSubscriber)
	}
	d.subscribers[gameCode][subscriber.id] = subscriber
}

func (d *RealtimeDispatcher) unregisterSubscriber(gameCode string, subscriberID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	subscribers := d.subscribers[gameCode]
	subscriber, ok := subscribers[subscriberID]
	if !ok {
		return
	}
	delete(subscribers, subscriberID)
	if len(subscribers) == 0 {
		delete(d.subscribers, gameCode)
	}
	close(subscriber.stream)
}
