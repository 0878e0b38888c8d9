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

// Package pubsub delivers messages published on a topic to every subscriber
// of that topic.
//
// ActorPubSub routes every membership change and publication through a
// single coordinator actor, which linearizes them without locks. LocalPubSub
// honors the same contract with a lock around its subscriber table and
// delivers on the publishing goroutine.
package pubsub

import (
	"context"
)

// Subscriber receives the messages published on the topics it subscribed to
type Subscriber interface {
	OnMessage(ctx context.Context, topic Topic, msg any)
}

// SubscriberFunc adapts a function to Subscriber
type SubscriberFunc func(ctx context.Context, topic Topic, msg any)

// OnMessage implements Subscriber
func (f SubscriberFunc) OnMessage(ctx context.Context, topic Topic, msg any) {
	f(ctx, topic, msg)
}

// Publisher publishes on a single topic
type Publisher interface {
	// Topic returns the topic messages are published on
	Topic() Topic
	// Publish hands msg to every current subscriber of the topic
	Publish(ctx context.Context, msg any) error
}

// Subscription is the link between a subscriber and a topic
type Subscription interface {
	// ID identifies the subscription
	ID() string
	// Topic returns the subscribed topic
	Topic() Topic
	// Unsubscribe stops the delivery. Calling it more than once has no effect.
	Unsubscribe(ctx context.Context) error
}

// PubSub is a topic based message bus
type PubSub interface {
	// Publisher returns a Publisher for topic
	Publisher(topic Topic) Publisher
	// Subscribe registers subscriber on topic
	Subscribe(ctx context.Context, topic Topic, subscriber Subscriber) (Subscription, error)
	// SubscribersCount returns the number of subscriptions to topic
	SubscribersCount(ctx context.Context, topic Topic) (int, error)
	// Shutdown cancels every subscription. The PubSub cannot be used afterwards.
	Shutdown(ctx context.Context) error
}

// SubscribeOn subscribes fn to the messages of type T published on topic.
// Messages of any other type are skipped.
func SubscribeOn[T any](ctx context.Context, ps PubSub, topic Topic, fn func(ctx context.Context, msg T)) (Subscription, error) {
	return ps.Subscribe(ctx, topic, SubscriberFunc(func(ctx context.Context, _ Topic, msg any) {
		if typed, ok := msg.(T); ok {
			fn(ctx, typed)
		}
	}))
}

type publisher struct {
	topic   Topic
	publish func(ctx context.Context, topic Topic, msg any) error
}

func (p *publisher) Topic() Topic {
	return p.topic
}

func (p *publisher) Publish(ctx context.Context, msg any) error {
	return p.publish(ctx, p.topic, msg)
}
