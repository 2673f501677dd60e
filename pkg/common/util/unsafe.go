// Copyright 2021 - 2024 Matrix Origin
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

package util

import "unsafe"

func UnsafeToBytes[P *T, T any](p P) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(*p))
}

// UnsafeSliceCast reinterprets the backing array of from as a []T. Any
// trailing bytes that do not fill a whole T are dropped.
func UnsafeSliceCast[T, F any](from []F) []T {
	if from == nil {
		return nil
	}
	var t T
	var f F
	n := len(from) * int(unsafe.Sizeof(f)) / int(unsafe.Sizeof(t))
	c := cap(from) * int(unsafe.Sizeof(f)) / int(unsafe.Sizeof(t))
	if c == 0 {
		return []T{}
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(from))), c)[:n]
}
