package changefeed

import "testing"

func TestSubscribeReceivesMatchingTable(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("outages")
	defer cancel()

	hub.Publish("outages")
	select {
	case ev := <-ch:
		if ev.Table != "outages" {
			t.Errorf("event table = %q, want outages", ev.Table)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestSubscribeFiltersOtherTables(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("outages")
	defer cancel()

	hub.Publish("reports")
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v for unsubscribed table", ev)
	default:
	}
}

func TestSubscribeAllTables(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish("reports")
	hub.Publish("outages")
	if got := len(ch); got != 2 {
		t.Errorf("events buffered = %d, want 2", got)
	}
}

func TestPublishDropsWhenSubscriberFull(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("reports")
	defer cancel()

	// Overflow the buffer; Publish must not block.
	for i := 0; i < subscriberBuffer*3; i++ {
		hub.Publish("reports")
	}
	if got := len(ch); got != subscriberBuffer {
		t.Errorf("events buffered = %d, want %d", got, subscriberBuffer)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("reports")
	cancel()
	cancel() // double cancel is safe

	hub.Publish("reports")
	if _, ok := <-ch; ok {
		t.Error("event delivered after cancel")
	}
}
