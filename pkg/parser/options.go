package parser

// Limits bounds the accepted input of the lexers and parsers. The zero
// value is not usable; start from DefaultLimits.
type Limits struct {
	// MaxIdentLen is the maximum length of an identifier or string
	// literal, in bytes.
	MaxIdentLen int
	// MaxPredicates is the maximum number of members of a single
	// conjunction or disjunction.
	MaxPredicates int
	// MaxDimensions is the maximum number of array-index dimensions.
	MaxDimensions int
	// MaxIntDigits is the maximum number of digits of a bounded integer
	// (model parameters and array indices).
	MaxIntDigits int
}

// DefaultLimits returns the default input limits.
func DefaultLimits() Limits {
	return Limits{
		MaxIdentLen:   128,
		MaxPredicates: 4096,
		MaxDimensions: 32,
		MaxIntDigits:  9,
	}
}
