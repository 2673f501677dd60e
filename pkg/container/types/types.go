// Copyright 2021 Matrix Origin
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

package types

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type T uint8

const (
	T_any T = 0

	// numeric/integer family
	T_int8   T = 20
	T_int16  T = 21
	T_int32  T = 22
	T_int64  T = 23
	T_uint8  T = 25
	T_uint16 T = 26
	T_uint32 T = 27
	T_uint64 T = 28
)

// FixedSizeT is the element set a fixed-size column can hold.
type FixedSizeT interface {
	constraints.Integer
}

type Type struct {
	Oid T

	// padding, zero filled so EncodeType never carries garbage
	Charset uint8
	dummy1  uint8
	dummy2  uint8
	Size    int32
}

// TypeOf maps a Go integer type to its Oid.
func TypeOf[E FixedSizeT]() T {
	var e E
	switch any(e).(type) {
	case int8:
		return T_int8
	case int16:
		return T_int16
	case int32:
		return T_int32
	case int64:
		return T_int64
	case uint8:
		return T_uint8
	case uint16:
		return T_uint16
	case uint32:
		return T_uint32
	case uint64:
		return T_uint64
	}
	return T_any
}

func (t Type) TypeSize() int {
	return int(t.Size)
}

func (t Type) Eq(b Type) bool {
	return t.Oid == b.Oid && t.Size == b.Size
}

func (t Type) String() string {
	return t.Oid.String()
}

// TypeLen is the element size of t in bytes, 0 for an unknown oid.
func (t T) TypeLen() int {
	switch t {
	case T_int8, T_uint8:
		return 1
	case T_int16, T_uint16:
		return 2
	case T_int32, T_uint32:
		return 4
	case T_int64, T_uint64:
		return 8
	}
	return 0
}

func (t T) ToType() Type {
	sz := t.TypeLen()
	if sz == 0 {
		panic(fmt.Sprintf("unknown type %d", t))
	}
	return Type{Oid: t, Size: int32(sz)}
}

func (t T) String() string {
	switch t {
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_uint8:
		return "TINYINT UNSIGNED"
	case T_uint16:
		return "SMALLINT UNSIGNED"
	case T_uint32:
		return "INT UNSIGNED"
	case T_uint64:
		return "BIGINT UNSIGNED"
	}
	return fmt.Sprintf("unexpected type: %d", t)
}

// OidString returns T string
func (t T) OidString() string {
	switch t {
	case T_int8:
		return "T_int8"
	case T_int16:
		return "T_int16"
	case T_int32:
		return "T_int32"
	case T_int64:
		return "T_int64"
	case T_uint8:
		return "T_uint8"
	case T_uint16:
		return "T_uint16"
	case T_uint32:
		return "T_uint32"
	case T_uint64:
		return "T_uint64"
	}
	return "unknown_type"
}
