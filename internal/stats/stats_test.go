package stats

import (
	"testing"
	"time"

	"github.com/doridoridoriand/pingclock/internal/probe"
)

func success(at time.Time, rtt time.Duration) probe.Result {
	return probe.Result{Timestamp: at, RTT: rtt, Success: true}
}

func TestRecomputeEmptyHistory(t *testing.T) {
	snapshot := Recompute(NewHistory(), time.Unix(1700000000, 0))
	if snapshot.Total != 0 || snapshot.Failed != 0 {
		t.Fatalf("expected zero counts, got %+v", snapshot)
	}
	if snapshot.LossRate != 0 || snapshot.MeanResponseMillis != 0 {
		t.Fatalf("expected zero rates, got %+v", snapshot)
	}
}

func TestRecomputeLossRate(t *testing.T) {
	now := time.Unix(1700000000, 0)
	history := NewHistory()
	for i := 0; i < 7; i++ {
		history.Append(success(now.Add(-time.Duration(i)*time.Second), 10*time.Millisecond))
	}
	for i := 0; i < 3; i++ {
		history.Append(probe.Failure(now.Add(-time.Duration(10+i) * time.Second)))
	}

	snapshot := Recompute(history, now)
	if snapshot.Total != 10 || snapshot.Successful != 7 || snapshot.Failed != 3 {
		t.Fatalf("unexpected counts: %+v", snapshot)
	}
	if snapshot.LossRate != 30.0 {
		t.Fatalf("expected 30.0%% loss, got %f", snapshot.LossRate)
	}
}

func TestRecomputeMeanOverSuccessesOnly(t *testing.T) {
	now := time.Unix(1700000000, 0)
	history := NewHistory()
	history.Append(success(now.Add(-1*time.Second), 10*time.Millisecond))
	history.Append(success(now.Add(-2*time.Second), 30*time.Millisecond))
	history.Append(probe.Failure(now.Add(-3 * time.Second)))

	snapshot := Recompute(history, now)
	if snapshot.MeanResponseMillis != 20.0 {
		t.Fatalf("expected mean 20ms over successes, got %f", snapshot.MeanResponseMillis)
	}
}

func TestRecomputeWindowFiltersByTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	history := NewHistory()
	history.Append(success(now.Add(-61*time.Second), 500*time.Millisecond)) // outside window
	history.Append(success(now.Add(-60*time.Second), 10*time.Millisecond))  // exactly at cutoff
	history.Append(success(now.Add(-1*time.Second), 20*time.Millisecond))

	snapshot := Recompute(history, now)
	if snapshot.Total != 2 {
		t.Fatalf("expected 2 results inside window, got %d", snapshot.Total)
	}
	if snapshot.MeanResponseMillis != 15.0 {
		t.Fatalf("expected mean 15ms, got %f", snapshot.MeanResponseMillis)
	}
}

func TestHistoryEvictsOldestBeyondCapacity(t *testing.T) {
	now := time.Unix(1700000000, 0)
	history := NewHistory()
	for i := 0; i < HistoryCapacity+5; i++ {
		history.Append(success(now.Add(time.Duration(i)*time.Second), time.Duration(i)*time.Millisecond))
	}

	if history.Len() != HistoryCapacity {
		t.Fatalf("expected capacity bound %d, got %d", HistoryCapacity, history.Len())
	}
	if history.At(0).RTT != 5*time.Millisecond {
		t.Fatalf("expected oldest 5 entries evicted, oldest RTT is %s", history.At(0).RTT)
	}
	if history.At(history.Len()-1).RTT != time.Duration(HistoryCapacity+4)*time.Millisecond {
		t.Fatalf("unexpected newest entry: %s", history.At(history.Len()-1).RTT)
	}
}
