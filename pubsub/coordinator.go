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
	stderrors "errors"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tidewave/courier/actor"
	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/errors"
)

// coordinator protocol
type (
	subscribe struct {
		topic      Topic
		subscriber address.Address
	}

	unsubscribe struct {
		topic      Topic
		subscriber address.Address
	}

	publish struct {
		topic Topic
		msg   any
	}

	countSubscribers struct {
		topic Topic
	}

	shutdown struct{}

	// delivery is what a subscriber proxy receives for every publication
	delivery struct {
		topic Topic
		msg   any
	}

	ack struct{}
)

// coordinator owns the membership table of an ActorPubSub
type coordinator struct {
	topics map[Topic]mapset.Set[address.Address]
}

var _ actor.Actor = (*coordinator)(nil)

func newCoordinator() *coordinator {
	return &coordinator{topics: make(map[Topic]mapset.Set[address.Address])}
}

func (c *coordinator) PreStart(context.Context) error {
	return nil
}

func (c *coordinator) Receive(rctx *actor.ReceiveContext) error {
	switch msg := rctx.Body().(type) {
	case *subscribe:
		subscribers, ok := c.topics[msg.topic]
		if !ok {
			subscribers = mapset.NewThreadUnsafeSet[address.Address]()
			c.topics[msg.topic] = subscribers
		}
		subscribers.Add(msg.subscriber)
		return rctx.Reply(new(ack))

	case *unsubscribe:
		c.remove(msg.topic, msg.subscriber)
		if err := rctx.StopActor(msg.subscriber); err != nil && !stderrors.Is(err, errors.ErrActorNotFound) {
			return err
		}
		return rctx.Reply(new(ack))

	case *publish:
		c.fanOut(rctx, msg)
		return nil

	case *countSubscribers:
		count := 0
		if subscribers, ok := c.topics[msg.topic]; ok {
			count = subscribers.Cardinality()
		}
		return rctx.Reply(count)

	case *shutdown:
		for topic, subscribers := range c.topics {
			for _, subscriber := range subscribers.ToSlice() {
				_ = rctx.StopActor(subscriber)
			}
			delete(c.topics, topic)
		}
		rctx.Stop()
		return rctx.Reply(new(ack))

	default:
		return errors.NewTypeMismatchError("pubsub request", rctx.Body())
	}
}

func (c *coordinator) PostStop(context.Context) error {
	clear(c.topics)
	return nil
}

// fanOut sends a copy of the publication to every subscriber of its topic.
// Subscribers that are gone are dropped from the table.
func (c *coordinator) fanOut(rctx *actor.ReceiveContext, msg *publish) {
	subscribers, ok := c.topics[msg.topic]
	if !ok {
		return
	}

	for _, subscriber := range subscribers.ToSlice() {
		err := rctx.Tell(subscriber, &delivery{topic: msg.topic, msg: msg.msg})
		switch {
		case err == nil:
		case stderrors.Is(err, errors.ErrActorNotFound), stderrors.Is(err, errors.ErrDead):
			rctx.Logger().Debugf("dropping gone subscriber %s of %s", subscriber, msg.topic)
			c.remove(msg.topic, subscriber)
		default:
			rctx.Logger().Warnf("failed to deliver to %s on %s: %v", subscriber, msg.topic, err)
		}
	}
}

func (c *coordinator) remove(topic Topic, subscriber address.Address) {
	subscribers, ok := c.topics[topic]
	if !ok {
		return
	}
	subscribers.Remove(subscriber)
	if subscribers.IsEmpty() {
		delete(c.topics, topic)
	}
}

// proxy hands the deliveries of one subscription to its Subscriber
type proxy struct {
	subscriber Subscriber
}

var _ actor.Actor = (*proxy)(nil)

func (p *proxy) PreStart(context.Context) error {
	return nil
}

func (p *proxy) Receive(rctx *actor.ReceiveContext) error {
	return actor.Match(rctx.Message(), func(msg *delivery) error {
		p.subscriber.OnMessage(rctx.Context(), msg.topic, msg.msg)
		return nil
	}, func() error {
		return errors.NewTypeMismatchError("*pubsub.delivery", rctx.Body())
	})
}

func (p *proxy) PostStop(context.Context) error {
	return nil
}
