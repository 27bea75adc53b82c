package telemetry

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/parklot-core/internal/journal"
	"github.com/nerrad567/parklot-core/internal/parking"
)

// fakeBus captures published messages.
type fakeBus struct {
	mu       sync.Mutex
	messages []busMessage
}

type busMessage struct {
	topic    string
	payload  []byte
	retained bool
}

func (b *fakeBus) Publish(topic string, payload []byte, _ byte, retained bool) error {
	b.mu.Lock()
	b.messages = append(b.messages, busMessage{topic: topic, payload: payload, retained: retained})
	b.mu.Unlock()
	return nil
}

func (b *fakeBus) PublishRetained(topic string, payload []byte) error {
	return b.Publish(topic, payload, 1, true)
}

func (b *fakeBus) snapshot() []busMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]busMessage, len(b.messages))
	copy(out, b.messages)
	return out
}

// fakeMetrics counts time-series writes.
type fakeMetrics struct {
	mu          sync.Mutex
	occupancy   int
	gateEvents  []string
	environment int
}

func (m *fakeMetrics) WriteOccupancy(string, int, int, int) {
	m.mu.Lock()
	m.occupancy++
	m.mu.Unlock()
}

func (m *fakeMetrics) WriteGateEvent(_ string, kind string) {
	m.mu.Lock()
	m.gateEvents = append(m.gateEvents, kind)
	m.mu.Unlock()
}

func (m *fakeMetrics) WriteEnvironment(string, float64, float64) {
	m.mu.Lock()
	m.environment++
	m.mu.Unlock()
}

// fakeJournal records created entries in memory.
type fakeJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (j *fakeJournal) Create(_ context.Context, entry *journal.Entry) error {
	j.mu.Lock()
	j.entries = append(j.entries, *entry)
	j.mu.Unlock()
	return nil
}

func (j *fakeJournal) Recent(context.Context, int) ([]journal.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]journal.Entry, len(j.entries))
	copy(out, j.entries)
	return out, nil
}

func (j *fakeJournal) Count(context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries), nil
}

// drain runs the recorder until the queue is observed empty.
func drain(t *testing.T, r *Recorder) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	deadline := time.After(time.Second)
	for len(r.queue) > 0 {
		select {
		case <-deadline:
			t.Fatal("telemetry queue did not drain")
		case <-time.After(time.Millisecond):
		}
	}
	// One job may still be executing; give it a moment.
	time.Sleep(10 * time.Millisecond)
}

func TestRecordGateCycleFansOut(t *testing.T) {
	bus := &fakeBus{}
	metrics := &fakeMetrics{}
	jnl := &fakeJournal{}
	rec := New(Options{SiteID: "lot-01", Journal: jnl, Bus: bus, Metrics: metrics})

	rec.RecordGateCycle(parking.EventEntry, 3, 4)
	drain(t, rec)

	entries, _ := jnl.Recent(context.Background(), 10)
	if len(entries) != 1 || entries[0].Kind != journal.KindEntry {
		t.Errorf("journal entries = %+v, want one entry", entries)
	}
	if entries[0].Available != 3 || entries[0].Total != 4 {
		t.Errorf("journal capacity = %d/%d, want 3/4", entries[0].Available, entries[0].Total)
	}

	messages := bus.snapshot()
	var sawCapacity, sawEvent bool
	for _, msg := range messages {
		switch msg.topic {
		case "parklot/capacity":
			sawCapacity = true
			if !msg.retained {
				t.Error("capacity message should be retained")
			}
			var doc map[string]any
			if err := json.Unmarshal(msg.payload, &doc); err != nil {
				t.Fatalf("capacity payload not JSON: %v", err)
			}
			if doc["available"] != float64(3) || doc["occupied"] != float64(1) {
				t.Errorf("capacity doc = %v, want available 3 occupied 1", doc)
			}
		case "parklot/event/entry":
			sawEvent = true
			if msg.retained {
				t.Error("event message should not be retained")
			}
		}
	}
	if !sawCapacity || !sawEvent {
		t.Errorf("bus messages = %v, want capacity and event", messages)
	}

	if metrics.occupancy != 1 || len(metrics.gateEvents) != 1 {
		t.Errorf("metrics writes = %d occupancy, %v events, want 1 each",
			metrics.occupancy, metrics.gateEvents)
	}
}

func TestRecordEntryDenied(t *testing.T) {
	bus := &fakeBus{}
	jnl := &fakeJournal{}
	rec := New(Options{SiteID: "lot-01", Journal: jnl, Bus: bus})

	rec.RecordEntryDenied(0, 4)
	drain(t, rec)

	entries, _ := jnl.Recent(context.Background(), 10)
	if len(entries) != 1 || entries[0].Kind != journal.KindEntryDenied {
		t.Fatalf("journal entries = %+v, want one entry_denied", entries)
	}

	// Denied entries publish no capacity update: nothing changed.
	for _, msg := range bus.snapshot() {
		if msg.topic == "parklot/capacity" {
			t.Error("denied entry should not publish capacity")
		}
	}
}

func TestRecordEnvironment(t *testing.T) {
	bus := &fakeBus{}
	metrics := &fakeMetrics{}
	rec := New(Options{SiteID: "lot-01", Bus: bus, Metrics: metrics})

	rec.RecordEnvironment(21.5, 45.0)
	drain(t, rec)

	var found bool
	for _, msg := range bus.snapshot() {
		if msg.topic == "parklot/environment" {
			found = true
			if !msg.retained {
				t.Error("environment message should be retained")
			}
		}
	}
	if !found {
		t.Error("environment message not published")
	}
	if metrics.environment != 1 {
		t.Errorf("metrics environment writes = %d, want 1", metrics.environment)
	}
}

func TestNilSinksAreSkipped(t *testing.T) {
	rec := New(Options{SiteID: "lot-01"})

	// Must not panic with every sink nil.
	rec.RecordGateCycle(parking.EventExit, 4, 4)
	rec.RecordEntryDenied(0, 4)
	rec.RecordEnvironment(21.0, 45.0)
	drain(t, rec)
}

func TestQueueFullDropsActivity(t *testing.T) {
	rec := New(Options{SiteID: "lot-01", QueueSize: 2})

	// No drain goroutine running; overflow must not block the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			rec.RecordGateCycle(parking.EventEntry, 1, 4)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("recorder blocked on full queue")
	}
	if len(rec.queue) != 2 {
		t.Errorf("queue len = %d, want capped at 2", len(rec.queue))
	}
}
