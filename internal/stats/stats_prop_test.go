package stats

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"

	"github.com/doridoridoriand/pingclock/internal/probe"
)

func TestPropertySnapshotInvariants(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	props := gopter.NewProperties(params)

	props.Property("counts are consistent and rates bounded", prop.ForAll(
		func(successCount int, failureCount int) bool {
			now := time.Unix(1700000000, 0)
			history := NewHistory()
			for i := 0; i < successCount; i++ {
				history.Append(probe.Result{
					Timestamp: now.Add(-time.Duration(i) * 500 * time.Millisecond),
					RTT:       time.Duration(i+1) * time.Millisecond,
					Success:   true,
				})
			}
			for i := 0; i < failureCount; i++ {
				history.Append(probe.Failure(now.Add(-time.Duration(i) * 700 * time.Millisecond)))
			}

			snapshot := Recompute(history, now)
			if snapshot.Total != snapshot.Successful+snapshot.Failed {
				return false
			}
			if snapshot.LossRate < 0 || snapshot.LossRate > 100 {
				return false
			}
			if snapshot.Total > HistoryCapacity {
				return false
			}
			if snapshot.Successful == 0 && snapshot.MeanResponseMillis != 0 {
				return false
			}
			return true
		},
		gopter.Gen(func(genParams *gopter.GenParameters) *gopter.GenResult {
			value := genParams.Rng.Intn(40)
			return gopter.NewGenResult(value, gopter.NoShrinker)
		}),
		gopter.Gen(func(genParams *gopter.GenParameters) *gopter.GenResult {
			value := genParams.Rng.Intn(40)
			return gopter.NewGenResult(value, gopter.NoShrinker)
		}),
	))

	props.TestingRun(t)
}
