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
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/lni/goutils/leaktest"
	"github.com/matrixorigin/subscript/pkg/accum"
	"github.com/matrixorigin/subscript/pkg/common/moerr"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneToTen() []int32 {
	return []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
}

func newTestRunner(t *testing.T, workers int) *Runner {
	r, err := NewRunner(workers, nil)
	require.NoError(t, err)
	return r
}

func TestParseShape(t *testing.T) {
	ctx := context.Background()
	for _, s := range []Shape{ShapeArray, ShapeView, ShapeBuffer} {
		got, err := ParseShape(ctx, s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseShape(ctx, "matrix")
	assert.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	assert.Equal(t, "unknown", Shape(7).String())
}

func TestNewJobID(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	stubs := gostub.Stub(&newJobID, func() uuid.UUID { return id })
	defer stubs.Reset()

	job := NewJob("j", ShapeView, []int32{1}, nil, false)
	assert.Equal(t, id, job.ID)
}

func TestRunShapes(t *testing.T) {
	defer leaktest.AfterTest(t)()
	r := newTestRunner(t, 4)
	defer r.Close()

	pairs := []accum.Pair{{I: 0, J: 9}, {I: 3, J: 3}}
	want := []int32{11, 2, 3, 8, 5, 6, 7, 8, 9, 10}

	var jobs []Job
	for _, unchecked := range []bool{false, true} {
		for _, shape := range []Shape{ShapeArray, ShapeView, ShapeBuffer} {
			jobs = append(jobs, NewJob(shape.String(), shape, oneToTen(), pairs, unchecked))
		}
	}
	results := r.Run(context.Background(), jobs)
	require.Len(t, results, len(jobs))
	for i, res := range results {
		require.NoError(t, res.Err, res.Name)
		assert.Equal(t, jobs[i].ID, res.ID)
		assert.Equal(t, jobs[i].Shape, res.Shape)
		assert.Equal(t, want, res.Data, res.Name)
		assert.Equal(t, len(pairs), res.Applied)
	}
}

func TestRunDoesNotTouchJobData(t *testing.T) {
	defer leaktest.AfterTest(t)()
	r := newTestRunner(t, 2)
	defer r.Close()

	data := []int32{5, 5}
	jobs := []Job{
		NewJob("a", ShapeView, data, []accum.Pair{{I: 1, J: 0}}, false),
		NewJob("b", ShapeView, data, []accum.Pair{{I: 0, J: 1}}, true),
	}
	results := r.Run(context.Background(), jobs)
	assert.Equal(t, []int32{5, 10}, results[0].Data)
	assert.Equal(t, []int32{10, 5}, results[1].Data)
	assert.Equal(t, []int32{5, 5}, data)
}

func TestRunWraps(t *testing.T) {
	defer leaktest.AfterTest(t)()
	r := newTestRunner(t, 1)
	defer r.Close()

	jobs := []Job{
		NewJob("wrap", ShapeBuffer, []int32{math.MaxInt32, 1}, []accum.Pair{{I: 0, J: 1}}, true),
	}
	results := r.Run(context.Background(), jobs)
	require.NoError(t, results[0].Err)
	assert.Equal(t, []int32{math.MinInt32, 1}, results[0].Data)
}

func TestRunOutOfRange(t *testing.T) {
	defer leaktest.AfterTest(t)()
	r := newTestRunner(t, 2)
	defer r.Close()

	pairs := []accum.Pair{{I: 0, J: 1}, {I: 3, J: 0}, {I: 1, J: 1}}
	for _, shape := range []Shape{ShapeView, ShapeBuffer} {
		results := r.Run(context.Background(), []Job{
			NewJob("checked", shape, []int32{1, 2, 3}, pairs, false),
			NewJob("unchecked", shape, []int32{1, 2, 3}, pairs, true),
		})

		// the checked job stops at the bad pair, the first one is kept
		checked := results[0]
		assert.True(t, moerr.IsMoErrCode(checked.Err, moerr.ErrIndexOutOfRange), shape.String())
		assert.Equal(t, 1, checked.Applied)
		assert.Equal(t, []int32{3, 2, 3}, checked.Data)

		// the unchecked job validates every pair before touching anything
		unchecked := results[1]
		assert.True(t, moerr.IsMoErrCode(unchecked.Err, moerr.ErrIndexOutOfRange), shape.String())
		assert.Equal(t, 0, unchecked.Applied)
		assert.Equal(t, []int32{1, 2, 3}, unchecked.Data)
	}
}

func TestRunBadJobs(t *testing.T) {
	defer leaktest.AfterTest(t)()
	r := newTestRunner(t, 2)
	defer r.Close()

	results := r.Run(context.Background(), []Job{
		NewJob("short array", ShapeArray, []int32{1, 2}, nil, false),
		NewJob("bad shape", Shape(9), []int32{1}, nil, false),
	})
	assert.True(t, moerr.IsMoErrCode(results[0].Err, moerr.ErrInvalidInput))
	assert.True(t, moerr.IsMoErrCode(results[1].Err, moerr.ErrInvalidInput))
}

func TestRunCanceled(t *testing.T) {
	defer leaktest.AfterTest(t)()
	r := newTestRunner(t, 2)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := r.Run(ctx, []Job{
		NewJob("a", ShapeView, []int32{1, 2}, []accum.Pair{{I: 0, J: 1}}, false),
		NewJob("b", ShapeArray, oneToTen(), []accum.Pair{{I: 0, J: 1}}, true),
	})
	for _, res := range results {
		assert.True(t, moerr.IsMoErrCode(res.Err, moerr.ErrQueryInterrupted))
		assert.Zero(t, res.Applied)
	}
}

func TestRunJobPanics(t *testing.T) {
	defer leaktest.AfterTest(t)()
	stubs := gostub.Stub(&runView, func(context.Context, Job) ([]int32, int, error) {
		panic("view job exploded")
	})
	defer stubs.Reset()

	r := newTestRunner(t, 2)
	defer r.Close()

	results := r.Run(context.Background(), []Job{
		NewJob("array", ShapeArray, oneToTen(), []accum.Pair{{I: 0, J: 9}}, false),
		NewJob("view", ShapeView, []int32{1, 2}, []accum.Pair{{I: 0, J: 1}}, false),
		NewJob("buffer", ShapeBuffer, []int32{5, 5}, []accum.Pair{{I: 1, J: 0}}, true),
	})

	res := results[1]
	require.True(t, moerr.IsMoErrCode(res.Err, moerr.ErrInternal))
	var me *moerr.Error
	require.ErrorAs(t, res.Err, &me)
	assert.Contains(t, me.Error(), "view job exploded")
	assert.NotEmpty(t, me.Detail())
	assert.Zero(t, res.Applied)

	require.NoError(t, results[0].Err)
	assert.Equal(t, int32(11), results[0].Data[0])
	require.NoError(t, results[2].Err)
	assert.Equal(t, []int32{5, 10}, results[2].Data)
}

func TestRunAfterClose(t *testing.T) {
	r := newTestRunner(t, 1)
	r.Close()

	results := r.Run(context.Background(), []Job{
		NewJob("a", ShapeView, []int32{1}, nil, false),
	})
	assert.True(t, moerr.IsMoErrCode(results[0].Err, moerr.ErrInternal))
}
