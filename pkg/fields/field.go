// Typed parsing of P1 value tokens. Each catalog entry binds one OBIS
// id to one of six parsing strategies; the telegram parser feeds each
// entry the raw token span and the entry decodes into its own storage.
package fields

import "github.com/kloodhu/p1_smart_meter/pkg/obis"

// Field is the capability set shared by every catalog entry: parse one
// value token, expose id/name/unit metadata, and accept a visitor.
//
// Parse writes the record's own storage slot on success and leaves it
// untouched on failure. It never sets the presence flag; that is the
// dispatching parser's job, via SetPresent.
type Field interface {
	ID() obis.ID
	Name() string
	Unit() string
	Present() bool
	SetPresent()
	Parse(span []byte) Result
	Apply(v Visitor)
}

type fieldMeta struct {
	id      obis.ID
	name    string
	present bool
}

func (m *fieldMeta) ID() obis.ID   { return m.id }
func (m *fieldMeta) Name() string  { return m.name }
func (m *fieldMeta) Present() bool { return m.present }
func (m *fieldMeta) SetPresent()   { m.present = true }

// StringField stores any token whose length falls inside its bounds,
// unchanged.
type StringField struct {
	fieldMeta
	minLen, maxLen int
	Value          string
}

func (f *StringField) Unit() string { return UnitNone }

func (f *StringField) Parse(span []byte) Result {
	s, res := scanString(span, f.minLen, f.maxLen)
	if res.Ok() {
		f.Value = s
	}
	return res
}

func (f *StringField) Apply(v Visitor) { v.VisitString(f) }

// timestampLen is the wire width of YYMMDDhhmmssX, where the trailing
// letter is W for winter time or S for summer time.
const timestampLen = 13

// TimestampField keeps the meter timestamp as opaque text. Turning it
// into calendar time needs timezone knowledge this layer does not have,
// so it stays a 13-character string.
type TimestampField struct {
	fieldMeta
	Value string
}

func (f *TimestampField) Unit() string { return UnitNone }

func (f *TimestampField) Parse(span []byte) Result {
	s, res := scanString(span, timestampLen, timestampLen)
	if res.Ok() {
		f.Value = s
	}
	return res
}

func (f *TimestampField) Apply(v Visitor) { v.VisitTimestamp(f) }

// FixedField decodes a quantity that meter firmwares publish in one of
// two encodings: a float with up to three decimals in the large unit
// ("000441.879*kWh"), or a pre-scaled integer in the small unit
// ("000441879*Wh"). Both produce the same ×1000 magnitude. When neither
// encoding matches, the float attempt's error is the one reported; the
// integer form is a silent fallback.
type FixedField struct {
	fieldMeta
	unit    string
	intUnit string
	Value   FixedValue
}

// Unit returns the large unit of the float wire encoding.
func (f *FixedField) Unit() string { return f.unit }

// IntUnit returns the small unit the integer magnitude is expressed in.
func (f *FixedField) IntUnit() string { return f.intUnit }

func (f *FixedField) Parse(span []byte) Result {
	value, res := scanFixed(span, f.unit, f.intUnit)
	if res.Ok() {
		f.Value = FixedValue{value: value}
	}
	return res
}

func (f *FixedField) Apply(v Visitor) { v.VisitFixed(f) }

func scanFixed(span []byte, unit, intUnit string) (uint32, Result) {
	value, resFloat := scanNumber(span, 3, unit)
	if resFloat.Ok() {
		return value, resFloat
	}
	if value, res := scanNumber(span, 0, intUnit); res.Ok() {
		return value, res
	}
	return 0, resFloat
}

// TimestampedFixedField decodes values prefixed with a timestamp, e.g.
// 0-1:24.2.1(150117180000W)(00473.789*m3). The span covers both groups
// with only the outermost parentheses stripped. A timestamp failure
// short-circuits before the numeric stage; timestamp and magnitude are
// stored together only once both stages succeed.
type TimestampedFixedField struct {
	fieldMeta
	unit    string
	intUnit string
	Value   TimestampedFixedValue
}

func (f *TimestampedFixedField) Unit() string    { return f.unit }
func (f *TimestampedFixedField) IntUnit() string { return f.intUnit }

func (f *TimestampedFixedField) Parse(span []byte) Result {
	if len(span) < timestampLen {
		return fail(InvalidLength, 0)
	}
	ts := span[:timestampLen]
	rest := span[timestampLen:]
	offset := timestampLen
	// separator between the two parenthesized groups
	if len(rest) >= 2 && rest[0] == ')' && rest[1] == '(' {
		rest = rest[2:]
		offset += 2
	}
	value, res := scanFixed(rest, f.unit, f.intUnit)
	if !res.Ok() {
		return fail(res.Err.Kind, offset+res.Err.Pos)
	}
	f.Value = TimestampedFixedValue{
		FixedValue: FixedValue{value: value},
		Timestamp:  string(ts),
	}
	return ok(offset + res.Next)
}

func (f *TimestampedFixedField) Apply(v Visitor) { v.VisitTimestampedFixed(f) }

// IntField stores a plain unsigned integer with a single expected unit
// and no fallback encoding.
type IntField struct {
	fieldMeta
	unit  string
	Value uint32
}

func (f *IntField) Unit() string { return f.unit }

func (f *IntField) Parse(span []byte) Result {
	value, res := scanNumber(span, 0, f.unit)
	if res.Ok() {
		f.Value = value
	}
	return res
}

func (f *IntField) Apply(v Visitor) { v.VisitInt(f) }

// RawField captures the token verbatim, surrounding parentheses
// included, and never fails. It covers values with no structured
// interpretation yet, such as power factors and free-text messages.
type RawField struct {
	fieldMeta
	Value string
}

func (f *RawField) Unit() string { return UnitNone }

func (f *RawField) Parse(span []byte) Result {
	f.Value = string(span)
	return ok(len(span))
}

func (f *RawField) Apply(v Visitor) { v.VisitRaw(f) }
