// Package dataset provides the columnar variable-to-array mapping the
// filter and transform layers evaluate against.
package dataset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/heliolab/seriesq/pkg/array"
)

// Dataset maps variable names to arrays of a uniform row count. The
// insertion order of variables is preserved.
type Dataset struct {
	names []string
	data  map[string]array.Array
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{data: make(map[string]array.Array)}
}

// Set adds or replaces a variable. All arrays of a dataset share one row
// count; a mismatch is an error.
func (d *Dataset) Set(variable string, data array.Array) error {
	if len(d.names) > 0 && d.Length() != data.Rows() {
		return fmt.Errorf(
			"array size mismatch: variable %s has %d rows, dataset %d",
			variable, data.Rows(), d.Length(),
		)
	}
	if _, exists := d.data[variable]; !exists {
		d.names = append(d.names, variable)
	}
	d.data[variable] = data
	return nil
}

// Get returns the array of the given variable.
func (d *Dataset) Get(variable string) (array.Array, bool) {
	data, ok := d.data[variable]
	return data, ok
}

// Has returns true if the variable exists.
func (d *Dataset) Has(variable string) bool {
	_, ok := d.data[variable]
	return ok
}

// HasAll returns true if all the given variables exist.
func (d *Dataset) HasAll(variables []string) bool {
	for _, variable := range variables {
		if !d.Has(variable) {
			return false
		}
	}
	return true
}

// Names returns the variable names in insertion order.
func (d *Dataset) Names() []string {
	return slices.Clone(d.names)
}

// Length returns the common row count of the dataset's arrays.
func (d *Dataset) Length() int {
	if len(d.names) == 0 {
		return 0
	}
	return d.data[d.names[0]].Rows()
}

// IsEmpty returns true if the dataset holds no rows.
func (d *Dataset) IsEmpty() bool {
	return d.Length() == 0
}

// Subset returns a new dataset restricted to the given rows, in index
// order. A nil index selects all rows.
func (d *Dataset) Subset(index []int) *Dataset {
	out := New()
	for _, name := range d.names {
		data := d.data[name]
		if index != nil {
			data = data.Take(index)
		}
		out.names = append(out.names, name)
		out.data[name] = data
	}
	return out
}

// Merge adds the variables of the given dataset that are not already
// present. Row counts must match unless either dataset is empty.
func (d *Dataset) Merge(other *Dataset) error {
	if len(d.names) > 0 && len(other.names) > 0 && d.Length() != other.Length() {
		return fmt.Errorf(
			"dataset length mismatch: %d != %d", other.Length(), d.Length(),
		)
	}
	for _, name := range other.names {
		if !d.Has(name) {
			if err := d.Set(name, other.data[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Extract returns a new dataset containing only the selected variables.
// Absent variables are silently ignored.
func (d *Dataset) Extract(variables []string) *Dataset {
	out := New()
	seen := make(map[string]bool, len(variables))
	for _, name := range variables {
		if seen[name] {
			continue
		}
		seen[name] = true
		if data, ok := d.data[name]; ok {
			out.names = append(out.names, name)
			out.data[name] = data
		}
	}
	return out
}

// String returns a diagnostic description of the dataset.
func (d *Dataset) String() string {
	var out strings.Builder
	out.WriteString("Dataset:")
	for _, name := range d.names {
		fmt.Fprintf(&out, "\n%s: shape: %v", name, d.data[name].Shape())
	}
	return out.String()
}
