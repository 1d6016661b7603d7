package fields

import "fmt"

// ErrorKind classifies a failed token parse.
type ErrorKind uint8

const (
	// InvalidLength means a string token fell outside its declared
	// length bounds.
	InvalidLength ErrorKind = iota
	// InvalidFormat means the token is not a well-formed number or
	// timestamp of the expected shape.
	InvalidFormat
	// UnitMismatch means the numeric part parsed but the unit suffix
	// matched none of the field's accepted units.
	UnitMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidLength:
		return "invalid length"
	case InvalidFormat:
		return "invalid format"
	case UnitMismatch:
		return "unit mismatch"
	default:
		return fmt.Sprintf("error kind %d", uint8(k))
	}
}

// ParseError pinpoints where and why a token parse failed. It travels
// as data inside a Result; nothing in this package panics or retries.
type ParseError struct {
	Kind ErrorKind
	// Pos is the offset of the failing sub-span within the parsed span.
	Pos int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Kind, e.Pos)
}

// Result is the outcome of parsing one value token. On success Next is
// the cursor just past the consumed token, letting the caller resume
// scanning the remainder of the line. A Result never carries the
// decoded value itself; strategies write straight into their record.
type Result struct {
	Next int
	Err  *ParseError
}

// Ok reports whether the parse succeeded.
func (r Result) Ok() bool { return r.Err == nil }

func ok(next int) Result { return Result{Next: next} }

func fail(kind ErrorKind, pos int) Result {
	return Result{Err: &ParseError{Kind: kind, Pos: pos}}
}
