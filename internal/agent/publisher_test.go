package agent

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stagelab/stagestream/internal/domain"
	"github.com/stagelab/stagestream/internal/ring"
	"github.com/stagelab/stagestream/pkg/log"
)

const testPositionTopic = "test/position"

func fillRing(t *testing.T, buf *ring.Buffer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		s := domain.Sample{Timestamp: int64(i)}
		s.SetPosition(domain.AxisX, int32(i))
		if !buf.TryWrite(s) {
			t.Fatalf("ring full after %d writes", i)
		}
	}
}

func newTestPublisher(tr *fakeTransport, buf *ring.Buffer, batchSize int) (*publisher, *stats) {
	st := &stats{}
	p := newPublisher(tr, buf, testPositionTopic, batchSize, 10*time.Millisecond, st, log.NewNop())
	return p, st
}

func TestPublisher_DrainsUpToOneBatch(t *testing.T) {
	tr := newFakeTransport()
	buf := ring.New(64)
	p, st := newTestPublisher(tr, buf, 10)

	fillRing(t, buf, 23)

	p.publishPending()

	pub := tr.Published()
	if len(pub) != 1 {
		t.Fatalf("got %d publishes, want 1", len(pub))
	}
	if pub[0].topic != testPositionTopic || pub[0].qos != 0 {
		t.Errorf("published to %s qos %d, want %s qos 0", pub[0].topic, pub[0].qos, testPositionTopic)
	}
	if got := len(strings.Split(pub[0].payload, "\n")); got != 10 {
		t.Errorf("batch has %d samples, want 10", got)
	}
	if got := buf.Occupancy(); got != 13 {
		t.Errorf("ring occupancy = %d after drain, want 13", got)
	}
	if got := st.published.Load(); got != 10 {
		t.Errorf("published counter = %d, want 10", got)
	}
}

func TestPublisher_PartialBatch(t *testing.T) {
	tr := newFakeTransport()
	buf := ring.New(64)
	p, _ := newTestPublisher(tr, buf, 10)

	fillRing(t, buf, 3)
	p.publishPending()

	pub := tr.Published()
	if len(pub) != 1 {
		t.Fatalf("got %d publishes, want 1", len(pub))
	}
	want := "0/0/NaN/NaN/NaN\n1/1/NaN/NaN/NaN\n2/2/NaN/NaN/NaN"
	if pub[0].payload != want {
		t.Errorf("payload = %q, want %q", pub[0].payload, want)
	}
}

func TestPublisher_EmptyRing_NoPublish(t *testing.T) {
	tr := newFakeTransport()
	buf := ring.New(64)
	p, _ := newTestPublisher(tr, buf, 10)

	p.publishPending()

	if pub := tr.Published(); len(pub) != 0 {
		t.Errorf("got %d publishes from empty ring, want none", len(pub))
	}
}

func TestPublisher_DiscardsWhenDisconnected(t *testing.T) {
	tr := newFakeTransport()
	tr.setConnected(false)
	buf := ring.New(64)
	p, st := newTestPublisher(tr, buf, 10)

	fillRing(t, buf, 5)
	p.publishPending()

	if pub := tr.Published(); len(pub) != 0 {
		t.Errorf("got %d publishes while disconnected, want none", len(pub))
	}
	if got := st.discarded.Load(); got != 5 {
		t.Errorf("discarded = %d, want 5", got)
	}
	// The drained samples are gone, not requeued.
	if got := buf.Occupancy(); got != 0 {
		t.Errorf("ring occupancy = %d, want 0", got)
	}

	// After reconnect the next cycle publishes fresh samples.
	tr.setConnected(true)
	fillRing(t, buf, 2)
	p.publishPending()

	pub := tr.Published()
	if len(pub) != 1 {
		t.Fatalf("got %d publishes after reconnect, want 1", len(pub))
	}
	if got := st.published.Load(); got != 2 {
		t.Errorf("published = %d, want 2", got)
	}
}

func TestPublisher_PublishErrorDiscards(t *testing.T) {
	tr := newFakeTransport()
	tr.publishErr = fmt.Errorf("broker unavailable")
	buf := ring.New(64)
	p, st := newTestPublisher(tr, buf, 10)

	fillRing(t, buf, 4)
	p.publishPending()

	if got := st.discarded.Load(); got != 4 {
		t.Errorf("discarded = %d, want 4", got)
	}
	if got := st.published.Load(); got != 0 {
		t.Errorf("published = %d, want 0", got)
	}
}
