package portfolio

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bcdannyboy/fdquant/pricer"
	"github.com/shirou/gopsutil/cpu"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
)

const jobBatchSize = 1000

// Config controls a batch run.
type Config struct {
	// Workers defaults to the number of logical CPUs.
	Workers int
	// Progress draws a progress bar on ProgressOutput, stderr by default.
	Progress       bool
	ProgressOutput io.Writer
	Logger         *slog.Logger
	// Options are passed to every solve.
	Options []pricer.Option
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Result is the outcome of pricing one request. Index is the request's
// position in the input.
type Result struct {
	Index   int
	Request pricer.Request
	Greeks  pricer.Greeks
	Err     error
}

// PriceAll solves every request on a pool of workers, one solver per
// request. Results keep the input order. A failed request records its error
// and does not stop the batch. When ctx is cancelled, requests not yet
// started carry ctx.Err() and PriceAll returns it.
func PriceAll(ctx context.Context, requests []pricer.Request, cfg Config) ([]Result, error) {
	results := make([]Result, len(requests))
	for i, req := range requests {
		results[i] = Result{Index: i, Request: req}
	}

	err := run(ctx, "pricing", len(requests), cfg, func(i int) {
		results[i].Greeks, results[i].Err = pricer.Solve(requests[i], cfg.Options...)
	}, func(i int, err error) {
		results[i].Err = err
	})
	return results, err
}

// ImpliedVolatilities inverts each request against the matching price in
// prices on the same pool as PriceAll. A non-positive price skips the
// request and leaves its volatility at zero.
func ImpliedVolatilities(ctx context.Context, requests []pricer.Request, prices []float64, cfg Config) ([]float64, []error, error) {
	vols := make([]float64, len(requests))
	errs := make([]error, len(requests))

	err := run(ctx, "implying", len(requests), cfg, func(i int) {
		if i >= len(prices) || prices[i] <= 0 {
			return
		}
		vols[i], errs[i] = pricer.ImpliedVolatility(requests[i], prices[i], cfg.Options...)
	}, func(i int, err error) {
		errs[i] = err
	})
	return vols, errs, err
}

// run calls work for every index in [0, n) from a pool of workers. Indices
// not started before ctx was cancelled are passed to skip instead.
func run(ctx context.Context, name string, n int, cfg Config, work func(int), skip func(int, error)) error {
	if n == 0 {
		return nil
	}
	logger := cfg.logger()
	numWorkers := workerCount(cfg.Workers, n)
	logger.Info("batch started", "stage", name, "jobs", n, "workers", numWorkers)
	start := time.Now()

	var p *mpb.Progress
	var bar *mpb.Bar
	if cfg.Progress {
		out := cfg.ProgressOutput
		if out == nil {
			out = os.Stderr
		}
		p = mpb.New(mpb.WithWidth(64), mpb.WithOutput(out))
		bar = p.AddBar(int64(n),
			mpb.PrependDecorators(
				decor.Name(name),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
	}

	var wg sync.WaitGroup
	var processed int64
	jobChan := make(chan int, jobBatchSize)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobChan {
				if err := ctx.Err(); err != nil {
					skip(i, err)
					continue
				}
				work(i)
				atomic.AddInt64(&processed, 1)
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}

	sent := 0
feed:
	for ; sent < n; sent++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case jobChan <- sent:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobChan)
	for j := sent; j < n; j++ {
		skip(j, ctx.Err())
	}
	wg.Wait()

	var cancelled error
	if atomic.LoadInt64(&processed) < int64(n) {
		cancelled = ctx.Err()
	}

	if p != nil {
		if cancelled != nil {
			bar.Abort(false)
		}
		p.Wait()
	}

	logger.Info("batch finished",
		"stage", name,
		"processed", atomic.LoadInt64(&processed),
		"elapsed", time.Since(start),
		"cancelled", cancelled != nil,
	)
	return cancelled
}

func workerCount(requested, jobs int) int {
	n := requested
	if n <= 0 {
		counted, err := cpu.Counts(true)
		if err != nil || counted <= 0 {
			counted = runtime.NumCPU()
		}
		n = counted
	}
	if n > jobs {
		n = jobs
	}
	return n
}
