package fields

// FixedValue is a decimal quantity with at most three fraction digits,
// stored as an integer scaled by 1000 so no floating point is needed to
// carry it around. The magnitude is always expressed in the field's
// small unit regardless of which wire encoding produced it: 1.234 kWh
// is stored as 1234, which is the value in Wh.
type FixedValue struct {
	value uint32
}

// Float returns the value in the field's large unit, for display.
func (v FixedValue) Float() float64 { return float64(v.value) / 1000 }

// Int returns the scaled magnitude, i.e. the value in the small unit.
func (v FixedValue) Int() uint32 { return v.value }

// TimestampedFixedValue pairs a FixedValue with the opaque 13-character
// timestamp that preceded it on the wire. Both are written by a single
// successful parse, or neither is.
type TimestampedFixedValue struct {
	FixedValue
	Timestamp string
}
