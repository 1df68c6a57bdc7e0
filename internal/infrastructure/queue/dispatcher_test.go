package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carevillage/admin-api/internal/core/ports"
)

type recordingProcessor struct {
	mu      sync.Mutex
	seen    map[string][]time.Time
	active  map[string]int
	overlap bool
	fail    string
}

func newRecordingProcessor() *recordingProcessor {
	return &recordingProcessor{seen: map[string][]time.Time{}, active: map[string]int{}}
}

func (p *recordingProcessor) Process(_ context.Context, job ports.PayoutJob) error {
	p.mu.Lock()
	p.active[job.PayoutID]++
	if p.active[job.PayoutID] > 1 {
		p.overlap = true
	}
	p.mu.Unlock()

	time.Sleep(time.Millisecond)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.active[job.PayoutID]--
	p.seen[job.PayoutID] = append(p.seen[job.PayoutID], job.ScheduledDate)
	if job.PayoutID == p.fail {
		return errors.New("boom")
	}
	return nil
}

func TestDispatcher_ProcessesEveryJob(t *testing.T) {
	d := NewDispatcher(3, zerolog.Nop())
	proc := newRecordingProcessor()
	proc.fail = "payout-2"
	d.Start(context.Background(), proc)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		for _, id := range []string{"payout-1", "payout-2", "payout-3"} {
			job := ports.PayoutJob{PayoutID: id, ScheduledDate: base.AddDate(0, 0, i)}
			if err := d.Enqueue(context.Background(), job); err != nil {
				t.Fatalf("enqueue: %v", err)
			}
		}
	}
	d.Stop()

	proc.mu.Lock()
	defer proc.mu.Unlock()
	for _, id := range []string{"payout-1", "payout-2", "payout-3"} {
		dates := proc.seen[id]
		if len(dates) != 5 {
			t.Fatalf("%s: expected 5 jobs, got %d", id, len(dates))
		}
		for i := 1; i < len(dates); i++ {
			if !dates[i].After(dates[i-1]) {
				t.Errorf("%s: jobs out of order at %d", id, i)
			}
		}
	}
	if proc.overlap {
		t.Errorf("jobs for the same payout ran concurrently")
	}
}

func TestDispatcher_EnqueueAfterStop(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(context.Background(), newRecordingProcessor())
	d.Stop()

	if err := d.Enqueue(context.Background(), ports.PayoutJob{PayoutID: "payout-1"}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestDispatcher_EnqueueHonoursContext(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	// Not started: fill the buffer so the next send blocks.
	for i := 0; i < channelBuffer; i++ {
		if err := d.Enqueue(context.Background(), ports.PayoutJob{PayoutID: "payout-1"}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := d.Enqueue(ctx, ports.PayoutJob{PayoutID: "payout-1"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, zerolog.Nop())
	first := d.shardIndex("payout-42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("payout-42"); got != first {
			t.Fatalf("shard changed from %d to %d", first, got)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard %d out of range", first)
	}
}
