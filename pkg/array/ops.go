package array

import "fmt"

// Reshape returns a view of the array with a new shape of equal element
// count.
func Reshape(a Array, shape []int) (Array, error) {
	switch a := a.(type) {
	case *Dense[float64]:
		return a.Reshape(shape)
	case *Dense[int64]:
		return a.Reshape(shape)
	case *Dense[string]:
		return a.Reshape(shape)
	case *Dense[bool]:
		return a.Reshape(shape)
	}
	return nil, fmt.Errorf("unsupported array type %T", a)
}

// BroadcastTo materializes the array broadcast to the destination shape.
func BroadcastTo(a Array, shape []int) (Array, error) {
	switch a := a.(type) {
	case *Dense[float64]:
		return a.BroadcastTo(shape)
	case *Dense[int64]:
		return a.BroadcastTo(shape)
	case *Dense[string]:
		return a.BroadcastTo(shape)
	case *Dense[bool]:
		return a.BroadcastTo(shape)
	}
	return nil, fmt.Errorf("unsupported array type %T", a)
}

// Ravel returns a one-dimensional row-major view of the array.
func Ravel(a Array) (Array, error) {
	switch a := a.(type) {
	case *Dense[float64]:
		return a.Ravel(), nil
	case *Dense[int64]:
		return a.Ravel(), nil
	case *Dense[string]:
		return a.Ravel(), nil
	case *Dense[bool]:
		return a.Ravel(), nil
	}
	return nil, fmt.Errorf("unsupported array type %T", a)
}
