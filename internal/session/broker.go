// Package session implements an auth-state event broker. Services publish
// session changes (sign-in, sign-out, token refresh, profile update) and
// subscribers receive the events for one user until they unsubscribe.
package session

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dtroode/notekeeper-server/internal/model"
)

const subscriberBuffer = 16

// Broker fans session events out to per-user subscribers.
//
// Concurrency model: a single internal event loop (goroutine) owns the
// subscriber map. Public methods communicate with this loop through
// channels, so no mutexes are required.
type Broker struct {
	subscribeCh   chan subscribeReq
	unsubscribeCh chan chan model.SessionEvent
	publishCh     chan model.SessionEvent

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

type subscribeReq struct {
	userID uuid.UUID
	ch     chan model.SessionEvent
}

// Subscription is a live feed of one user's session events. Close must be
// called exactly once when the owning scope ends; Subscription guards
// against double Close so teardown paths can call it defensively.
type Subscription struct {
	C <-chan model.SessionEvent

	broker *Broker
	ch     chan model.SessionEvent
	once   sync.Once
}

// Close detaches the subscription from the broker and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.unsubscribe(s.ch)
	})
}

// NewBroker creates a broker and starts its event loop.
func NewBroker() *Broker {
	b := &Broker{
		subscribeCh:   make(chan subscribeReq),
		unsubscribeCh: make(chan chan model.SessionEvent),
		publishCh:     make(chan model.SessionEvent, 256),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	subscribers := make(map[chan model.SessionEvent]uuid.UUID)

	for {
		select {
		case <-b.stopCh:
			for ch := range subscribers {
				close(ch)
			}
			return

		case req := <-b.subscribeCh:
			subscribers[req.ch] = req.userID

		case ch := <-b.unsubscribeCh:
			if _, ok := subscribers[ch]; ok {
				delete(subscribers, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			for ch, userID := range subscribers {
				if userID != event.UserID {
					continue
				}
				select {
				case ch <- event:
				default:
					// Subscriber buffer full; skip to avoid blocking the loop.
				}
			}
		}
	}
}

// Subscribe registers a feed for the given user's session events.
func (b *Broker) Subscribe(userID uuid.UUID) *Subscription {
	ch := make(chan model.SessionEvent, subscriberBuffer)

	select {
	case b.subscribeCh <- subscribeReq{userID: userID, ch: ch}:
	case <-b.stopCh:
		close(ch)
	}

	return &Subscription{C: ch, broker: b, ch: ch}
}

func (b *Broker) unsubscribe(ch chan model.SessionEvent) {
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopCh:
	}
}

// Publish delivers an event to the user's subscribers. Events published
// after Stop are dropped.
func (b *Broker) Publish(event model.SessionEvent) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopCh:
	}
}

// Stop shuts the event loop down and closes all subscriber channels.
func (b *Broker) Stop() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
		<-b.stopped
	}
}
