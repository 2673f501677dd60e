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

package vector

import (
	"bytes"
	"fmt"
	"math"
	"unsafe"

	"github.com/matrixorigin/subscript/pkg/common/moerr"
	"github.com/matrixorigin/subscript/pkg/common/util"
	"github.com/matrixorigin/subscript/pkg/container/types"
)

// Vector is a growable, owning run of fixed-size elements. length counts
// the live elements, capacity the elements data can hold without growing.
type Vector struct {
	// type represent the type of column
	typ types.Type

	// backing storage, capacity*typ.Size bytes
	data []byte

	capacity int
	length   int
}

func NewVector(typ types.Type) *Vector {
	return &Vector{
		typ: typ,
	}
}

// NewVec builds a vector holding vals, element type derived from T.
func NewVec[T types.FixedSizeT](vals ...T) *Vector {
	vec := NewVector(types.TypeOf[T]().ToType())
	if err := AppendFixedList(vec, vals); err != nil {
		panic(err)
	}
	return vec
}

func (v *Vector) UnsafeGetRawData() []byte {
	return v.data[:v.length*v.typ.TypeSize()]
}

// UnsafeData returns the address of element 0, nil when nothing has been
// allocated yet.
func (v *Vector) UnsafeData() unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(v.data))
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) Capacity() int {
	return v.capacity
}

// Size of data, used in (approximate) memory accounting.
func (v *Vector) Size() int {
	return v.length * v.typ.TypeSize()
}

func (v *Vector) GetType() *types.Type {
	return &v.typ
}

// Reserve makes room for n elements in total.  It never shrinks.
func (v *Vector) Reserve(n int) {
	if n <= v.capacity {
		return
	}
	data := make([]byte, n*v.typ.TypeSize())
	copy(data, v.data[:v.length*v.typ.TypeSize()])
	v.data = data
	v.capacity = n
}

func (v *Vector) grow() {
	ncap := 1
	if v.capacity > 0 {
		ncap = 2 * v.capacity
	}
	v.Reserve(ncap)
}

// PreExtend makes sure rows more elements can be appended without growing.
func (v *Vector) PreExtend(rows int) error {
	if rows < 0 {
		return moerr.NewInvalidArgNoCtx("pre extend rows", rows)
	}
	v.Reserve(v.length + rows)
	return nil
}

func (v *Vector) Reset() {
	v.length = 0
}

func (v *Vector) Free() {
	v.data = nil
	v.capacity = 0
	v.length = 0
}

// Dup use to copy an identical vector
func (v *Vector) Dup() *Vector {
	w := &Vector{
		typ:      v.typ,
		length:   v.length,
		capacity: v.length,
	}
	w.data = util.CloneBytes(v.UnsafeGetRawData())
	return w
}

func checkElemSize[T types.FixedSizeT](v *Vector) error {
	var t T
	if int(unsafe.Sizeof(t)) != v.typ.TypeSize() {
		return moerr.NewInternalErrorNoCtx("element size %d does not match vector type %s", unsafe.Sizeof(t), v.typ.String())
	}
	return nil
}

// MustFixedCol decodes the live elements.  The returned slice aliases the
// vector storage until the next append that grows it.
func MustFixedCol[T types.FixedSizeT](v *Vector) []T {
	if err := checkElemSize[T](v); err != nil {
		panic(err)
	}
	if v.length == 0 {
		return nil
	}
	return unsafe.Slice((*T)(v.UnsafeData()), v.length)
}

func GetFixedAt[T types.FixedSizeT](v *Vector, idx int) (T, error) {
	var zero T
	if err := checkElemSize[T](v); err != nil {
		return zero, err
	}
	if idx < 0 || idx >= v.length {
		return zero, moerr.NewIndexOutOfRangeNoCtx(uint64(idx), v.length)
	}
	return MustFixedCol[T](v)[idx], nil
}

func SetFixedAt[T types.FixedSizeT](v *Vector, idx int, t T) error {
	if err := checkElemSize[T](v); err != nil {
		return err
	}
	vacol := MustFixedCol[T](v)

	if idx < 0 {
		idx = len(vacol) + idx
	}
	if idx < 0 || idx >= len(vacol) {
		return moerr.NewIndexOutOfRangeNoCtx(uint64(idx), len(vacol))
	}
	vacol[idx] = t
	return nil
}

func AppendFixed[T types.FixedSizeT](v *Vector, val T) error {
	if err := checkElemSize[T](v); err != nil {
		return err
	}
	if v.length == v.capacity {
		v.grow()
	}
	length := v.length
	v.length++
	MustFixedCol[T](v)[length] = val
	return nil
}

func AppendFixedList[T types.FixedSizeT](v *Vector, vals []T) error {
	if err := checkElemSize[T](v); err != nil {
		return err
	}
	if err := v.PreExtend(len(vals)); err != nil {
		return err
	}
	length := v.length
	v.length += len(vals)
	copy(MustFixedCol[T](v)[length:], vals)
	return nil
}

func (v *Vector) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	{ // write length
		length := int64(v.length)
		buf.Write(types.EncodeInt64(&length))
	}
	{ // write type
		data := types.EncodeType(&v.typ)
		buf.Write(data)
	}
	{ // write dataLen, data
		data := v.UnsafeGetRawData()
		length := uint32(len(data))
		buf.Write(types.EncodeUint32(&length))
		if length > 0 {
			buf.Write(data)
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary always copies the element bytes, so the decoded vector
// owns aligned storage and stays valid after data is reused.  v is left
// untouched when data is rejected.
func (v *Vector) UnmarshalBinary(data []byte) error {
	if len(data) < 8+types.TSize+4 {
		return moerr.NewInvalidInputNoCtx("vector payload too short: %d bytes", len(data))
	}
	rows := types.DecodeInt64(data[:8])
	data = data[8:]
	typ := types.DecodeType(data[:types.TSize])
	data = data[types.TSize:]

	if typ.Oid.TypeLen() == 0 || !typ.Eq(typ.Oid.ToType()) {
		return moerr.NewInvalidInputNoCtx("vector payload type: oid %d, size %d", typ.Oid, typ.Size)
	}
	if rows < 0 || rows > math.MaxUint32/int64(typ.TypeSize()) {
		return moerr.NewInvalidInputNoCtx("vector payload rows: %d", rows)
	}
	length := int(types.DecodeUint32(data))
	data = data[4:]
	if length != int(rows)*typ.TypeSize() || len(data) < length {
		return moerr.NewInvalidInputNoCtx("vector payload size mismatch: %d bytes for %d rows", length, rows)
	}

	v.typ = typ
	v.length = int(rows)
	v.capacity = v.length
	v.data = util.CloneBytes(data[:length])
	return nil
}

func (v *Vector) String() string {
	switch v.typ.Oid {
	case types.T_int8:
		return vecToString[int8](v)
	case types.T_int16:
		return vecToString[int16](v)
	case types.T_int32:
		return vecToString[int32](v)
	case types.T_int64:
		return vecToString[int64](v)
	case types.T_uint8:
		return vecToString[uint8](v)
	case types.T_uint16:
		return vecToString[uint16](v)
	case types.T_uint32:
		return vecToString[uint32](v)
	case types.T_uint64:
		return vecToString[uint64](v)
	default:
		panic("vec to string unknown types.")
	}
}

func vecToString[T types.FixedSizeT](v *Vector) string {
	col := MustFixedCol[T](v)
	if len(col) == 1 {
		return fmt.Sprintf("%v", col[0])
	}
	return fmt.Sprintf("%v", col)
}
