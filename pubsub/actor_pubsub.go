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
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tidewave/courier/actor"
	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/interactor"
	"github.com/tidewave/courier/internal/xsync"
)

// ActorPubSub is a PubSub whose membership table lives in a coordinator actor
type ActorPubSub struct {
	system      actor.ActorSystem
	coordinator address.Address
	config      *config

	subscriptions *xsync.Map[string, *actorSubscription]
	closed        atomic.Bool

	// acknowledged requests to the coordinator
	subscribes   *interactor.Interactor[*subscribe, *ack]
	unsubscribes *interactor.Interactor[*unsubscribe, *ack]
	counts       *interactor.Interactor[*countSubscribers, int]
	shutdowns    *interactor.Interactor[*shutdown, *ack]
}

var _ PubSub = (*ActorPubSub)(nil)

// NewActorPubSub spawns the coordinator actor in system
func NewActorPubSub(ctx context.Context, system actor.ActorSystem, opts ...Option) (*ActorPubSub, error) {
	config := newConfig(opts...)
	coordinator, err := system.ActorOf(ctx, config.name, func() actor.Actor { return newCoordinator() })
	if err != nil {
		return nil, fmt.Errorf("failed to spawn the pubsub coordinator: %w", err)
	}

	timeout := interactor.WithTimeout(config.timeout)
	name := interactor.WithName(config.name + "-request")
	return &ActorPubSub{
		system:        system,
		coordinator:   coordinator,
		config:        config,
		subscriptions: xsync.NewMap[string, *actorSubscription](),
		subscribes:    interactor.New[*subscribe, *ack](system, coordinator, timeout, name),
		unsubscribes:  interactor.New[*unsubscribe, *ack](system, coordinator, timeout, name),
		counts:        interactor.New[*countSubscribers, int](system, coordinator, timeout, name),
		shutdowns:     interactor.New[*shutdown, *ack](system, coordinator, timeout, name),
	}, nil
}

// Publisher returns a Publisher for topic
func (x *ActorPubSub) Publisher(topic Topic) Publisher {
	return &publisher{topic: topic, publish: x.publish}
}

// Subscribe spawns a proxy actor for subscriber and registers it on topic
func (x *ActorPubSub) Subscribe(ctx context.Context, topic Topic, subscriber Subscriber) (Subscription, error) {
	if x.closed.Load() {
		return nil, errors.ErrPubSubClosed
	}

	if topic.IsZero() {
		return nil, errors.ErrInvalidTopic
	}

	id := uuid.NewString()
	proxyAddr, err := x.system.ActorOf(ctx, fmt.Sprintf("%s-subscriber-%s", x.config.name, id), func() actor.Actor {
		return &proxy{subscriber: subscriber}
	})
	if err != nil {
		return nil, err
	}

	if _, err := x.subscribes.Invoke(ctx, &subscribe{topic: topic, subscriber: proxyAddr}).Await(ctx); err != nil {
		_ = x.system.StopActor(context.WithoutCancel(ctx), proxyAddr)
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	subscription := &actorSubscription{id: id, topic: topic, proxy: proxyAddr, pubsub: x}
	x.subscriptions.Set(id, subscription)
	return subscription, nil
}

// SubscribersCount asks the coordinator for the number of subscribers of topic
func (x *ActorPubSub) SubscribersCount(ctx context.Context, topic Topic) (int, error) {
	if x.closed.Load() {
		return 0, errors.ErrPubSubClosed
	}
	return x.counts.Invoke(ctx, &countSubscribers{topic: topic}).Await(ctx)
}

// Shutdown stops every subscriber proxy then the coordinator
func (x *ActorPubSub) Shutdown(ctx context.Context) error {
	if !x.closed.CompareAndSwap(false, true) {
		return nil
	}

	_, err := x.shutdowns.Invoke(ctx, new(shutdown)).Await(ctx)
	if err != nil {
		return fmt.Errorf("failed to shut down the pubsub coordinator: %w", err)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, subscription := range x.subscriptions.Values() {
		eg.Go(func() error {
			subscription.cancelled.Store(true)
			return x.stopProxy(egCtx, subscription.proxy)
		})
	}
	err = eg.Wait()
	x.subscriptions.Reset()
	return err
}

func (x *ActorPubSub) publish(ctx context.Context, topic Topic, msg any) error {
	if x.closed.Load() {
		return errors.ErrPubSubClosed
	}
	return x.system.Tell(ctx, actor.NewMessage(&publish{topic: topic, msg: msg}, x.coordinator))
}

// stopProxy waits for a proxy the coordinator may already have stopped
func (x *ActorPubSub) stopProxy(ctx context.Context, proxy address.Address) error {
	pid, err := x.system.PIDOf(proxy)
	if err != nil {
		return nil
	}

	select {
	case <-pid.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type actorSubscription struct {
	id        string
	topic     Topic
	proxy     address.Address
	pubsub    *ActorPubSub
	mu        sync.Mutex
	cancelled atomic.Bool
}

var _ Subscription = (*actorSubscription)(nil)

func (s *actorSubscription) ID() string {
	return s.id
}

func (s *actorSubscription) Topic() Topic {
	return s.topic
}

// Unsubscribe removes the proxy from the coordinator, which stops it
func (s *actorSubscription) Unsubscribe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled.Load() {
		return nil
	}

	_, err := s.pubsub.unsubscribes.Invoke(ctx, &unsubscribe{topic: s.topic, subscriber: s.proxy}).Await(ctx)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", s.topic, err)
	}

	s.cancelled.Store(true)
	s.pubsub.subscriptions.Delete(s.id)
	return s.pubsub.stopProxy(ctx, s.proxy)
}
