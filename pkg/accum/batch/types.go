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
	"strings"

	"github.com/google/uuid"
	"github.com/matrixorigin/subscript/pkg/accum"
	"github.com/matrixorigin/subscript/pkg/common/moerr"
)

type Shape int

const (
	ShapeArray Shape = iota
	ShapeView
	ShapeBuffer
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeView:
		return "view"
	case ShapeBuffer:
		return "buffer"
	}
	return "unknown"
}

func ParseShape(ctx context.Context, s string) (Shape, error) {
	switch strings.ToLower(s) {
	case "array":
		return ShapeArray, nil
	case "view":
		return ShapeView, nil
	case "buffer":
		return ShapeBuffer, nil
	}
	return 0, moerr.NewInvalidInput(ctx, "unknown shape %q", s)
}

var newJobID = uuid.New

// Job owns its container.  Data is copied before the job runs, so two
// jobs never share storage even if they were built from the same slice.
type Job struct {
	ID    uuid.UUID
	Name  string
	Shape Shape
	Data  []int32
	Pairs []accum.Pair
	// Unchecked validates Pairs once and then takes the Unsafe path.
	Unchecked bool
}

func NewJob(name string, shape Shape, data []int32, pairs []accum.Pair, unchecked bool) Job {
	return Job{
		ID:        newJobID(),
		Name:      name,
		Shape:     shape,
		Data:      data,
		Pairs:     pairs,
		Unchecked: unchecked,
	}
}

type Result struct {
	ID    uuid.UUID
	Name  string
	Shape Shape
	// Data is the container after the last applied pair.
	Data []int32
	// Applied counts the pairs applied before Err.
	Applied int
	Err     error
}

// Reporter receives every result of a Run, in job order.
type Reporter interface {
	Report(ctx context.Context, res Result)
}
