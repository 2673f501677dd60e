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

package accum

import (
	"context"
	"unsafe"

	"github.com/matrixorigin/subscript/pkg/common/moerr"
	"github.com/matrixorigin/subscript/pkg/container/types"
	"github.com/matrixorigin/subscript/pkg/container/vector"
	"golang.org/x/exp/constraints"
)

// ArrayLen is the capacity of Array.
const ArrayLen = 10

// Array is a fixed-capacity container.  It is passed by value: the
// operations work on their own copy and hand the result back.
type Array[T constraints.Integer] [ArrayLen]T

func (a *Array[T]) Length() int {
	return ArrayLen
}

func (a *Array[T]) UnsafeBase() *T {
	return &a[0]
}

// View borrows storage owned by someone else.  Mutations are visible to the
// owner.
type View[T constraints.Integer] []T

func (v View[T]) Length() int {
	return len(v)
}

func (v View[T]) UnsafeBase() *T {
	if len(v) == 0 {
		return nil
	}
	return unsafe.SliceData(v)
}

// buffer adapts a growable vector whose element type is T.
type buffer[T constraints.Integer] struct {
	vec *vector.Vector
}

func (b buffer[T]) Length() int {
	return b.vec.Length()
}

func (b buffer[T]) UnsafeBase() *T {
	return (*T)(b.vec.UnsafeData())
}

func AccumulateArray[T constraints.Integer](ctx context.Context, a Array[T], i, j uint64) (Array[T], error) {
	err := Accumulate[T](ctx, &a, i, j)
	return a, err
}

func UnsafeAccumulateArray[T constraints.Integer](a Array[T], i, j uint64) Array[T] {
	UnsafeAccumulate[T](&a, i, j)
	return a
}

func AccumulateView[T constraints.Integer](ctx context.Context, v []T, i, j uint64) error {
	return Accumulate[T](ctx, View[T](v), i, j)
}

func UnsafeAccumulateView[T constraints.Integer](v []T, i, j uint64) {
	UnsafeAccumulate[T](View[T](v), i, j)
}

// AccumulateBuffer takes ownership of vec for the call and returns it.  The
// element type of vec must be T.
func AccumulateBuffer[T constraints.Integer](ctx context.Context, vec *vector.Vector, i, j uint64) (*vector.Vector, error) {
	if vec == nil {
		return nil, moerr.NewEmptyVector(ctx)
	}
	typ := vec.GetType()
	if typ.Oid != types.TypeOf[T]() {
		return vec, moerr.NewInvalidArg(ctx, "buffer element type", typ.Oid.String())
	}
	var t T
	if typ.TypeSize() != int(unsafe.Sizeof(t)) {
		return vec, moerr.NewInvalidArg(ctx, "buffer element size", typ.TypeSize())
	}
	err := Accumulate[T](ctx, buffer[T]{vec: vec}, i, j)
	return vec, err
}

// UnsafeAccumulateBuffer checks neither the indices nor the element type.
func UnsafeAccumulateBuffer[T constraints.Integer](vec *vector.Vector, i, j uint64) *vector.Vector {
	UnsafeAccumulate[T](buffer[T]{vec: vec}, i, j)
	return vec
}
