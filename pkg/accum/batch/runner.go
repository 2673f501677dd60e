// Copyright 2024 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/matrixorigin/subscript/pkg/accum"
	"github.com/matrixorigin/subscript/pkg/common/moerr"
	"github.com/matrixorigin/subscript/pkg/container/vector"
	"github.com/matrixorigin/subscript/pkg/logutil"
	"github.com/matrixorigin/subscript/pkg/logutil/logutil2"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Runner runs jobs on a fixed size goroutine pool.
type Runner struct {
	pool     *ants.Pool
	reporter Reporter
}

// NewRunner creates a runner with workers goroutines, runtime.NumCPU() if
// workers <= 0.  reporter may be nil.
func NewRunner(workers int, reporter Reporter) (*Runner, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	// runJob recovers its own panics, anything reaching the pool is a bug
	// in the runner itself.
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(v interface{}) {
		logutil.Error("batch runner worker panicked", zap.Any("panic", v))
		panic(v)
	}))
	if err != nil {
		return nil, moerr.ConvertGoError(context.Background(), err)
	}
	return &Runner{pool: pool, reporter: reporter}, nil
}

// Run runs all jobs and returns their results in job order.  Jobs that
// have not started when ctx is done fail with ErrQueryInterrupted.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		i := i
		if err := ctx.Err(); err != nil {
			results[i] = failed(ctx, jobs[i], err)
			continue
		}
		wg.Add(1)
		if err := r.pool.Submit(func() {
			defer wg.Done()
			results[i] = r.runJob(ctx, jobs[i])
		}); err != nil {
			wg.Done()
			results[i] = failed(ctx, jobs[i], err)
		}
	}
	wg.Wait()

	if r.reporter != nil {
		for _, res := range results {
			r.reporter.Report(ctx, res)
		}
	}
	return results
}

// Close releases the pool.  The runner can not be used afterwards.
func (r *Runner) Close() {
	r.pool.Release()
}

func failed(ctx context.Context, job Job, err error) Result {
	return Result{
		ID:    job.ID,
		Name:  job.Name,
		Shape: job.Shape,
		Err:   moerr.ConvertGoError(ctx, err),
	}
}

var (
	runArray  = arrayJob
	runView   = viewJob
	runBuffer = bufferJob
)

func (r *Runner) runJob(ctx context.Context, job Job) (res Result) {
	res = Result{ID: job.ID, Name: job.Name, Shape: job.Shape}
	ctx = logutil.ContextWithFields(ctx,
		zap.String("job", job.ID.String()),
		zap.Stringer("shape", job.Shape))
	defer func() {
		if e := recover(); e != nil {
			res.Err = moerr.ConvertPanicError(ctx, e)
			logutil2.Error(ctx, "accumulate job panicked", zap.Error(res.Err))
		}
	}()
	if err := ctx.Err(); err != nil {
		res.Err = moerr.ConvertGoError(ctx, err)
		return res
	}

	switch job.Shape {
	case ShapeArray:
		res.Data, res.Applied, res.Err = runArray(ctx, job)
	case ShapeView:
		res.Data, res.Applied, res.Err = runView(ctx, job)
	case ShapeBuffer:
		res.Data, res.Applied, res.Err = runBuffer(ctx, job)
	default:
		res.Err = moerr.NewInvalidInput(ctx, "unknown shape %d", int(job.Shape))
	}
	logutil2.Debug(ctx, "accumulate job done",
		zap.Int("applied", res.Applied),
		zap.Bool("unchecked", job.Unchecked),
		zap.Error(res.Err))
	return res
}

func arrayJob(ctx context.Context, job Job) ([]int32, int, error) {
	if len(job.Data) != accum.ArrayLen {
		return nil, 0, moerr.NewInvalidInput(ctx, "array job needs %d elements, got %d", accum.ArrayLen, len(job.Data))
	}
	var a accum.Array[int32]
	copy(a[:], job.Data)

	if job.Unchecked {
		if err := accum.CheckPairs(ctx, a.Length(), job.Pairs); err != nil {
			return a[:], 0, err
		}
		for _, p := range job.Pairs {
			a = accum.UnsafeAccumulateArray(a, p.I, p.J)
		}
		return a[:], len(job.Pairs), nil
	}
	for n, p := range job.Pairs {
		next, err := accum.AccumulateArray(ctx, a, p.I, p.J)
		if err != nil {
			return a[:], n, err
		}
		a = next
	}
	return a[:], len(job.Pairs), nil
}

func viewJob(ctx context.Context, job Job) ([]int32, int, error) {
	v := make([]int32, len(job.Data))
	copy(v, job.Data)

	if job.Unchecked {
		if err := accum.CheckPairs(ctx, len(v), job.Pairs); err != nil {
			return v, 0, err
		}
		for _, p := range job.Pairs {
			accum.UnsafeAccumulateView(v, p.I, p.J)
		}
		return v, len(job.Pairs), nil
	}
	for n, p := range job.Pairs {
		if err := accum.AccumulateView(ctx, v, p.I, p.J); err != nil {
			return v, n, err
		}
	}
	return v, len(job.Pairs), nil
}

func bufferJob(ctx context.Context, job Job) (data []int32, applied int, err error) {
	vec := vector.NewVec(job.Data...)
	defer func() {
		data = append([]int32(nil), vector.MustFixedCol[int32](vec)...)
		vec.Free()
	}()

	if job.Unchecked {
		if err = accum.CheckPairs(ctx, vec.Length(), job.Pairs); err != nil {
			return
		}
		for _, p := range job.Pairs {
			vec = accum.UnsafeAccumulateBuffer[int32](vec, p.I, p.J)
		}
		applied = len(job.Pairs)
		return
	}
	for n, p := range job.Pairs {
		if vec, err = accum.AccumulateBuffer[int32](ctx, vec, p.I, p.J); err != nil {
			applied = n
			return
		}
	}
	applied = len(job.Pairs)
	return
}
