/*
 * MIT License
 *
 * Copyright (c) 2024-2026 Courier Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package pubsub

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/log"
)

// LocalPubSub is a PubSub without actors.
// Publish snapshots the subscribers of the topic under a read lock and
// invokes them on the publishing goroutine.
type LocalPubSub struct {
	logger log.Logger
	closed atomic.Bool

	subsMu        sync.RWMutex
	subscriptions map[string]*localSubscription

	topicsMu sync.RWMutex
	topics   map[Topic]map[string]*localSubscription
}

var _ PubSub = (*LocalPubSub)(nil)

// NewLocalPubSub creates an instance of LocalPubSub
func NewLocalPubSub(logger log.Logger) *LocalPubSub {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &LocalPubSub{
		logger:        logger,
		subscriptions: make(map[string]*localSubscription),
		topics:        make(map[Topic]map[string]*localSubscription),
	}
}

// Publisher returns a Publisher for topic
func (b *LocalPubSub) Publisher(topic Topic) Publisher {
	return &publisher{topic: topic, publish: b.publish}
}

// Subscribe registers subscriber on topic
func (b *LocalPubSub) Subscribe(_ context.Context, topic Topic, subscriber Subscriber) (Subscription, error) {
	if b.closed.Load() {
		return nil, errors.ErrPubSubClosed
	}

	if topic.IsZero() {
		return nil, errors.ErrInvalidTopic
	}

	sub := &localSubscription{
		id:         uuid.NewString(),
		topic:      topic,
		subscriber: subscriber,
		pubsub:     b,
	}
	sub.active.Store(true)

	// Shutdown flips closed while holding both locks
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	b.topicsMu.Lock()
	defer b.topicsMu.Unlock()
	if b.closed.Load() {
		return nil, errors.ErrPubSubClosed
	}

	b.subscriptions[sub.id] = sub
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[string]*localSubscription)
		b.topics[topic] = subs
	}
	subs[sub.id] = sub
	return sub, nil
}

// SubscribersCount returns the number of subscriptions to topic
func (b *LocalPubSub) SubscribersCount(_ context.Context, topic Topic) (int, error) {
	if b.closed.Load() {
		return 0, errors.ErrPubSubClosed
	}

	b.topicsMu.RLock()
	defer b.topicsMu.RUnlock()
	return len(b.topics[topic]), nil
}

// Shutdown cancels every subscription
func (b *LocalPubSub) Shutdown(context.Context) error {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	b.topicsMu.Lock()
	defer b.topicsMu.Unlock()
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	for _, sub := range b.subscriptions {
		sub.active.Store(false)
	}
	b.subscriptions = make(map[string]*localSubscription)
	b.topics = make(map[Topic]map[string]*localSubscription)
	return nil
}

func (b *LocalPubSub) publish(ctx context.Context, topic Topic, msg any) error {
	if b.closed.Load() {
		return errors.ErrPubSubClosed
	}

	b.topicsMu.RLock()
	subs := b.topics[topic]
	if len(subs) == 0 {
		b.topicsMu.RUnlock()
		return nil
	}
	snapshot := make([]*localSubscription, 0, len(subs))
	for _, sub := range subs {
		snapshot = append(snapshot, sub)
	}
	b.topicsMu.RUnlock()

	for _, sub := range snapshot {
		if sub.active.Load() {
			b.deliver(ctx, sub, msg)
		}
	}
	return nil
}

// deliver keeps a panicking subscriber from breaking the publisher
func (b *LocalPubSub) deliver(ctx context.Context, sub *localSubscription, msg any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("subscriber %s of %s panicked: %v", sub.id, sub.topic, r)
		}
	}()
	sub.subscriber.OnMessage(ctx, sub.topic, msg)
}

func (b *LocalPubSub) remove(sub *localSubscription) {
	b.topicsMu.Lock()
	if subs, ok := b.topics[sub.topic]; ok {
		delete(subs, sub.id)
		if len(subs) == 0 {
			delete(b.topics, sub.topic)
		}
	}
	b.topicsMu.Unlock()

	b.subsMu.Lock()
	delete(b.subscriptions, sub.id)
	b.subsMu.Unlock()
}

type localSubscription struct {
	id         string
	topic      Topic
	subscriber Subscriber
	pubsub     *LocalPubSub
	active     atomic.Bool
}

var _ Subscription = (*localSubscription)(nil)

func (s *localSubscription) ID() string {
	return s.id
}

func (s *localSubscription) Topic() Topic {
	return s.topic
}

func (s *localSubscription) Unsubscribe(context.Context) error {
	if s.active.CompareAndSwap(true, false) {
		s.pubsub.remove(s)
	}
	return nil
}
