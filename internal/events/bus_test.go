package events

import (
	"testing"

	"github.com/Octa-square/LiveLedger/internal/constants"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe(constants.TopicOrderCreated)

	for i := 0; i < 3; i++ {
		bus.PublishOrderCreated(OrderCreated{OrderID: string(rune('a' + i))})
	}

	for i := 0; i < 3; i++ {
		got, ok := (<-ch).(OrderCreated)
		if !ok {
			t.Fatalf("unexpected payload type")
		}
		if got.OrderID != string(rune('a'+i)) {
			t.Fatalf("out of order delivery: got %s at position %d", got.OrderID, i)
		}
	}
}

func TestBusDropsWhenSubscriberLags(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe(constants.TopicAutoSaveRequested)

	for i := 0; i < subscriberBuffer+10; i++ {
		bus.PublishAutoSaveRequested(AutoSaveRequested{Reason: "background"})
	}
	if len(ch) != subscriberBuffer {
		t.Fatalf("expected buffer to cap at %d, got %d", subscriberBuffer, len(ch))
	}
}

func TestBusDemoDataRequestedRoundTrip(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe(constants.TopicDemoDataRequested)

	bus.PublishDemoDataRequested(DemoDataRequested{Reason: "settings"})

	got, ok := (<-ch).(DemoDataRequested)
	if !ok {
		t.Fatalf("unexpected payload type")
	}
	if got.Reason != "settings" {
		t.Fatalf("expected reason settings, got %s", got.Reason)
	}
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// 没有订阅者时发布不应阻塞或崩溃
	bus.PublishDataCleared(DataCleared{Orders: true})
}
