package policy

import (
	"sync"
	"testing"

	"github.com/plagzap/plagzap/internal/model"
)

func newTestPolicy(free, daily int) *MemoryPolicy {
	return NewMemoryPolicy(model.PolicyConfig{FreeLimit: free, DailyLimit: daily})
}

func TestMemoryPolicy_FreeLimit(t *testing.T) {
	p := newTestPolicy(2, 50)

	d := p.Authorize("alice")
	if !d.Allowed || d.Remaining != 2 || d.IsDaily {
		t.Fatalf("Unexpected first decision: %+v", d)
	}

	p.RecordUsage("alice")
	p.RecordUsage("alice")

	d = p.Authorize("alice")
	if d.Allowed {
		t.Fatalf("Expected denial after exhausting free limit, got %+v", d)
	}
	if d.Reason != ReasonFreeLimitReached {
		t.Errorf("Reason = %q, want %q", d.Reason, ReasonFreeLimitReached)
	}
}

func TestMemoryPolicy_DailyLimit(t *testing.T) {
	p := newTestPolicy(5, 3)
	p.SetSubscribed("bob", true)

	for i := 0; i < 3; i++ {
		d := p.Authorize("bob")
		if !d.Allowed {
			t.Fatalf("Expected authorization %d to pass, got %+v", i, d)
		}
		if !d.IsDaily {
			t.Fatal("Expected daily-window decision for subscribed user")
		}
		p.RecordUsage("bob")
	}

	d := p.Authorize("bob")
	if d.Allowed || d.Reason != ReasonDailyLimitReached {
		t.Errorf("Expected daily-limit denial, got %+v", d)
	}
}

func TestMemoryPolicy_Counts(t *testing.T) {
	p := newTestPolicy(10, 10)

	p.RecordUsage("carol")
	p.RecordUsage("carol")

	daily, total := p.Counts("carol")
	if daily != 2 || total != 2 {
		t.Errorf("Counts = (%d, %d), want (2, 2)", daily, total)
	}

	daily, total = p.Counts("nobody")
	if daily != 0 || total != 0 {
		t.Errorf("Counts for unknown user = (%d, %d), want (0, 0)", daily, total)
	}
}

func TestMemoryPolicy_ConcurrentRecordUsage(t *testing.T) {
	p := newTestPolicy(1000, 1000)

	const goroutines = 20
	const perGoroutine = 10

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				p.RecordUsage("frank")
			}
		}()
	}
	wg.Wait()

	daily, total := p.Counts("frank")
	want := goroutines * perGoroutine
	if daily != want || total != want {
		t.Errorf("Counts = (%d, %d), want (%d, %d): increments lost under concurrency", daily, total, want, want)
	}
}

func TestMemoryPolicy_UsersIsolated(t *testing.T) {
	p := newTestPolicy(1, 1)

	p.RecordUsage("dave")
	if d := p.Authorize("dave"); d.Allowed {
		t.Error("Expected dave to be exhausted")
	}
	if d := p.Authorize("erin"); !d.Allowed {
		t.Error("Expected erin to be unaffected by dave's usage")
	}
}
