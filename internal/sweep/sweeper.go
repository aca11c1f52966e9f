package sweep

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rangeforge/marksim/internal/motion"
)

// EngineVersion is stamped into results so stored sweeps can be traced to
// the generator revision that produced them.
const EngineVersion = "marksim-1.0.0"

// batchSize is the number of seeds handed to a worker per job. Generation
// is a few HMAC rounds per seed, so large batches keep channel traffic low.
const batchSize = 4096

type job struct {
	seedStart int64
	seedEnd   int64
}

// Sweeper runs seed sweeps across a worker pool sized to the machine.
type Sweeper struct {
	workerCount int
}

// NewSweeper creates a sweeper with one worker per available CPU.
func NewSweeper() *Sweeper {
	return &Sweeper{workerCount: runtime.GOMAXPROCS(0)}
}

// Sweep evaluates every seed in [SeedStart, SeedEnd], generating its config
// under the request bounds and matching the chosen metric against the
// target condition. Safe for concurrent use; each call runs its own pool.
func (s *Sweeper) Sweep(ctx context.Context, req Request) (*Result, error) {
	if req.SeedEnd < req.SeedStart {
		return nil, ErrInvalidRange
	}
	if _, err := req.Metric.Value(motion.Config{}); err != nil {
		return nil, err
	}
	bounds := req.Bounds.Normalize()
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	tolerance := req.Tolerance
	if tolerance == 0 {
		tolerance = 1e-9
	}
	evaluator := NewEvaluator(req.TargetOp, req.TargetVal, req.TargetVal2, tolerance)

	jobs := make(chan job, s.workerCount*2)
	hits := make(chan Hit, 1000)

	var totalEvaluated uint64
	var wg sync.WaitGroup

	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runWorker(ctx, jobs, hits, req.Metric, bounds, evaluator, &totalEvaluated)
		}()
	}

	go generateJobs(ctx, jobs, req.SeedStart, req.SeedEnd)

	result := collect(ctx, &wg, hits, req.Limit, &totalEvaluated)
	result.EngineVersion = EngineVersion
	result.Echo = req
	return result, nil
}

func (s *Sweeper) runWorker(ctx context.Context, jobs <-chan job, hits chan<- Hit,
	metric Metric, bounds motion.Bounds, evaluator *Evaluator, evaluated *uint64) {

	for {
		select {
		case j, ok := <-jobs:
			if !ok {
				return
			}
			s.processJob(ctx, j, hits, metric, bounds, evaluator, evaluated)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) processJob(ctx context.Context, j job, hits chan<- Hit,
	metric Metric, bounds motion.Bounds, evaluator *Evaluator, evaluated *uint64) {

	for seed := j.seedStart; ; seed++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		cfg, cfgErr := motion.GenerateConfig(bounds, seed)
		if cfgErr == nil {
			if value, err := metric.Value(cfg); err == nil {
				atomic.AddUint64(evaluated, 1)

				if evaluator.Matches(value) {
					select {
					case hits <- Hit{Seed: seed, Value: value, Config: cfg}:
					case <-ctx.Done():
						return
					default:
						// Hit channel is full; keep sweeping rather than
						// block the pool on a slow collector.
					}
				}
			}
		}

		// Stop before incrementing so a batch ending at MaxInt64 does
		// not wrap and run forever.
		if seed == j.seedEnd {
			return
		}
	}
}

func generateJobs(ctx context.Context, jobs chan<- job, start, end int64) {
	defer close(jobs)

	for current := start; ; {
		batchEnd := current + batchSize - 1
		if batchEnd > end || batchEnd < current {
			batchEnd = end
		}

		select {
		case jobs <- job{seedStart: current, seedEnd: batchEnd}:
		case <-ctx.Done():
			return
		}

		if batchEnd == end {
			return
		}
		current = batchEnd + 1
	}
}

func collect(ctx context.Context, wg *sync.WaitGroup, hits <-chan Hit, limit int, evaluated *uint64) *Result {
	initialCap := 1000
	if limit > 0 && limit < initialCap {
		initialCap = limit
	}
	collected := make([]Hit, 0, initialCap)
	limitReached := false
	var timedOut bool

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	keep := func(hit Hit) {
		if limitReached {
			return
		}
		collected = append(collected, hit)
		if limit > 0 && len(collected) >= limit {
			limitReached = true
		}
	}

	for {
		select {
		case hit := <-hits:
			keep(hit)
		case <-ctx.Done():
			timedOut = true
			return summarize(collected, atomic.LoadUint64(evaluated), timedOut)
		case <-done:
			// Workers are finished; drain whatever is buffered.
			for {
				select {
				case hit := <-hits:
					keep(hit)
				default:
					return summarize(collected, atomic.LoadUint64(evaluated), timedOut)
				}
			}
		}
	}
}

func summarize(hits []Hit, totalEvaluated uint64, timedOut bool) *Result {
	summary := Summary{
		TotalEvaluated: totalEvaluated,
		HitsFound:      len(hits),
		TimedOut:       timedOut,
	}

	if len(hits) > 0 {
		min := hits[0].Value
		max := hits[0].Value
		sum := 0.0
		for _, hit := range hits {
			if hit.Value < min {
				min = hit.Value
			}
			if hit.Value > max {
				max = hit.Value
			}
			sum += hit.Value
		}
		summary.MinValue = min
		summary.MaxValue = max
		summary.MeanValue = sum / float64(len(hits))
	}

	return &Result{Hits: hits, Summary: summary}
}
