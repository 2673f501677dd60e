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

// Package accum adds one slot of a contiguous integer container into
// another, s[i] += s[j].
//
// Every operation comes in two forms.  The checked form validates i and j
// against the current length and returns ErrIndexOutOfRange without
// touching the container.  The Unsafe form skips the check entirely: the
// caller guarantees i < length and j < length, and an index outside that
// range reads or writes memory that does not belong to the container.
// Only use the Unsafe form after the indices were proven valid in the same
// scope, e.g. by CheckPairs.
//
// Addition wraps modulo 2^bits, matching Go integer arithmetic.
package accum

import (
	"context"
	"unsafe"

	"github.com/matrixorigin/subscript/pkg/common/moerr"
	"golang.org/x/exp/constraints"
)

// Slots is a mutable, contiguous run of integers whose length does not
// change for the duration of a call.
type Slots[T constraints.Integer] interface {
	// Length is the number of addressable elements.
	Length() int
	// UnsafeBase is the address of element 0, nil when Length is 0.
	UnsafeBase() *T
}

// Pair names a destination slot I and a source slot J.
type Pair struct {
	I uint64
	J uint64
}

func checkIndex(ctx context.Context, length int, i, j uint64) error {
	if i >= uint64(length) {
		return moerr.NewIndexOutOfRange(ctx, i, length)
	}
	if j >= uint64(length) {
		return moerr.NewIndexOutOfRange(ctx, j, length)
	}
	return nil
}

// Accumulate performs s[i] += s[j] after checking both indices.
func Accumulate[T constraints.Integer](ctx context.Context, s Slots[T], i, j uint64) error {
	if err := checkIndex(ctx, s.Length(), i, j); err != nil {
		return err
	}
	UnsafeAccumulate(s, i, j)
	return nil
}

// UnsafeAccumulate performs s[i] += s[j] with no bounds check.
func UnsafeAccumulate[T constraints.Integer](s Slots[T], i, j uint64) {
	var t T
	sz := unsafe.Sizeof(t)
	base := unsafe.Pointer(s.UnsafeBase())
	dst := (*T)(unsafe.Add(base, uintptr(i)*sz))
	*dst += *(*T)(unsafe.Add(base, uintptr(j)*sz))
}

// CheckPairs validates every pair against length.  It reports the first
// offending pair and is meant to run once before a loop of Unsafe calls.
func CheckPairs(ctx context.Context, length int, pairs []Pair) error {
	for _, p := range pairs {
		if err := checkIndex(ctx, length, p.I, p.J); err != nil {
			return err
		}
	}
	return nil
}

// AccumulatePairs applies pairs in order.  Nothing is applied if any pair is
// out of range.
func AccumulatePairs[T constraints.Integer](ctx context.Context, s Slots[T], pairs []Pair) error {
	if err := CheckPairs(ctx, s.Length(), pairs); err != nil {
		return err
	}
	for _, p := range pairs {
		UnsafeAccumulate(s, p.I, p.J)
	}
	return nil
}
