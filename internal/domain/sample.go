package domain

// Sample is one timestamped reading of all configured axes. It is created
// by the sampler once per tick, is immutable after creation, and is consumed
// exactly once by the publisher (or dropped when the ring is full).
//
// Validity is tracked per axis: a failed read clears the axis bit and leaves
// its position at zero. One axis failing does not invalidate the others.
type Sample struct {
	// Timestamp is the capture time in Unix nanoseconds.
	Timestamp int64

	// Positions holds the raw reading for each axis, indexed by Axis.
	Positions [NumAxes]int32

	// Valid is the per-axis validity bitmask (bit i set means Positions[i]
	// holds a real reading).
	Valid uint8
}

// SetPosition records a successful reading for the axis and marks it valid.
func (s *Sample) SetPosition(a Axis, pos int32) {
	s.Positions[a] = pos
	s.Valid |= a.Bit()
}

// IsValid reports whether the axis was read successfully.
func (s Sample) IsValid(a Axis) bool {
	return s.Valid&a.Bit() != 0
}
