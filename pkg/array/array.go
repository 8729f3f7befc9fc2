// Package array provides minimal row-major n-dimensional typed arrays
// backing the seriesq datasets and transforms.
package array

import (
	"fmt"
	"slices"
)

// Element constrains the supported array element types.
type Element interface {
	float64 | int64 | string | bool
}

// Array is the type-erased view of a dense array. The concrete types are
// *Dense[float64], *Dense[int64], *Dense[string] and *Dense[bool].
type Array interface {
	// Shape returns the array's dimensions. The first axis is the row
	// (record) axis.
	Shape() []int
	// Rows returns the size of the first axis, 0 for an empty array.
	Rows() int
	// Size returns the total element count.
	Size() int
	// Take returns a new array selecting the given rows, preserving the
	// order of the index.
	Take(rows []int) Array

	array()
}

// Dense is a densely stored row-major array of T.
type Dense[T Element] struct {
	shape []int
	data  []T
}

// NewDense creates a dense array of the given shape. The data length must
// match the shape's element count.
func NewDense[T Element](shape []int, data []T) (*Dense[T], error) {
	if size := sizeOf(shape); size != len(data) {
		return nil, fmt.Errorf(
			"array size mismatch: shape %v holds %d elements, got %d",
			shape, size, len(data),
		)
	}
	return &Dense[T]{shape: slices.Clone(shape), data: data}, nil
}

// Vector creates a one-dimensional array from the given values.
func Vector[T Element](data ...T) *Dense[T] {
	return &Dense[T]{shape: []int{len(data)}, data: data}
}

// Shape returns the array's dimensions.
func (a *Dense[T]) Shape() []int { return slices.Clone(a.shape) }

// Rows returns the size of the first axis.
func (a *Dense[T]) Rows() int {
	if len(a.shape) == 0 {
		return 0
	}
	return a.shape[0]
}

// Size returns the total element count.
func (a *Dense[T]) Size() int { return len(a.data) }

// Data returns the backing slice in row-major order. The slice must not
// be mutated.
func (a *Dense[T]) Data() []T { return a.data }

// RowSize returns the element count of a single row.
func (a *Dense[T]) RowSize() int {
	if len(a.shape) == 0 || a.shape[0] == 0 {
		return 0
	}
	return len(a.data) / a.shape[0]
}

// Take returns a new array selecting the given rows in index order.
func (a *Dense[T]) Take(rows []int) Array { return a.TakeRows(rows) }

// TakeRows returns a new dense array selecting the given rows in index
// order.
func (a *Dense[T]) TakeRows(rows []int) *Dense[T] {
	rowSize := a.RowSize()
	out := make([]T, 0, len(rows)*rowSize)
	for _, row := range rows {
		out = append(out, a.data[row*rowSize:(row+1)*rowSize]...)
	}
	shape := slices.Clone(a.shape)
	shape[0] = len(rows)
	return &Dense[T]{shape: shape, data: out}
}

// Column returns, for every row, the element addressed by the given
// multi-index into the row's trailing axes. A nil index requires a
// one-dimensional array and returns the rows themselves.
func (a *Dense[T]) Column(index []int) ([]T, error) {
	if len(index) != len(a.shape)-1 {
		if len(index) == 0 {
			return nil, fmt.Errorf(
				"scalar access to an array of %d dimensions", len(a.shape),
			)
		}
		return nil, fmt.Errorf(
			"index %v does not match the array dimension (%d)",
			index, len(a.shape)-1,
		)
	}
	if len(index) == 0 {
		return a.data, nil
	}

	offset := 0
	stride := 1
	for axis := len(a.shape) - 1; axis >= 1; axis-- {
		idx := index[axis-1]
		if idx < 0 || idx >= a.shape[axis] {
			return nil, fmt.Errorf(
				"index %v exceeds the array shape %v", index, a.shape[1:],
			)
		}
		offset += idx * stride
		stride *= a.shape[axis]
	}

	rowSize := a.RowSize()
	out := make([]T, a.Rows())
	for row := range out {
		out[row] = a.data[row*rowSize+offset]
	}
	return out, nil
}

// Reshape returns a view of the same data with a new shape of equal
// element count.
func (a *Dense[T]) Reshape(shape []int) (*Dense[T], error) {
	if sizeOf(shape) != len(a.data) {
		return nil, fmt.Errorf(
			"cannot reshape array of %d elements to %v", len(a.data), shape,
		)
	}
	return &Dense[T]{shape: slices.Clone(shape), data: a.data}, nil
}

// Ravel returns a one-dimensional view of the data in row-major order.
func (a *Dense[T]) Ravel() *Dense[T] {
	return &Dense[T]{shape: []int{len(a.data)}, data: a.data}
}

// BroadcastTo materializes the array broadcast to the destination shape.
// Axes are aligned at the trailing end; each source axis must either
// equal the destination axis or have size 1. Missing leading axes are
// treated as size 1.
func (a *Dense[T]) BroadcastTo(shape []int) (*Dense[T], error) {
	src := a.shape
	if len(src) > len(shape) {
		return nil, broadcastError(src, shape)
	}
	// left-pad the source shape with singleton axes
	padded := make([]int, len(shape))
	for i := range padded {
		padded[i] = 1
	}
	copy(padded[len(shape)-len(src):], src)

	strides := make([]int, len(shape))
	stride := 1
	for axis := len(padded) - 1; axis >= 0; axis-- {
		switch padded[axis] {
		case shape[axis]:
			strides[axis] = stride
		case 1:
			strides[axis] = 0
		default:
			return nil, broadcastError(src, shape)
		}
		stride *= padded[axis]
	}

	out := make([]T, sizeOf(shape))
	counter := make([]int, len(shape))
	offset := 0
	for i := range out {
		out[i] = a.data[offset]
		for axis := len(shape) - 1; axis >= 0; axis-- {
			counter[axis]++
			offset += strides[axis]
			if counter[axis] < shape[axis] {
				break
			}
			offset -= counter[axis] * strides[axis]
			counter[axis] = 0
		}
	}
	return &Dense[T]{shape: slices.Clone(shape), data: out}, nil
}

func (a *Dense[T]) array() {}

func broadcastError(src, dst []int) error {
	return fmt.Errorf("cannot broadcast shape %v to %v", src, dst)
}

func sizeOf(shape []int) int {
	size := 1
	for _, dim := range shape {
		size *= dim
	}
	return size
}
