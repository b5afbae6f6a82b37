package events

import (
	"context"
	"fmt"
)

// MemoryBus is a channel-backed bus for tests and local development. It
// satisfies both Publisher and Source with the same semantics as the
// durable backend: publish never waits for consumers to finish.
type MemoryBus struct {
	ch chan ReviewEvent
}

func NewMemoryBus(buffer int) *MemoryBus {
	if buffer <= 0 {
		buffer = 64
	}
	return &MemoryBus{ch: make(chan ReviewEvent, buffer)}
}

func (b *MemoryBus) Publish(ctx context.Context, event ReviewEvent) error {
	// Round-trip through the wire form so the in-memory backend enforces
	// the same contract as the durable one.
	payload, err := EncodeEvent(event)
	if err != nil {
		return err
	}
	decoded, err := DecodeEvent(payload)
	if err != nil {
		return err
	}

	select {
	case b.ch <- decoded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("memory bus full")
	}
}

func (b *MemoryBus) Run(ctx context.Context, handler func(context.Context, ReviewEvent) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-b.ch:
			if event.DetailType != PutReviewDetailType {
				continue
			}
			if err := handler(ctx, event); err != nil {
				return err
			}
		}
	}
}
