package fields

// Visitor lets callers traverse decoded records generically, typically
// through Catalog.Apply over the present fields of one telegram. Each
// concrete field kind dispatches to its own method, so exporters get
// the full type back without type switches at the call site.
type Visitor interface {
	VisitString(*StringField)
	VisitTimestamp(*TimestampField)
	VisitFixed(*FixedField)
	VisitTimestampedFixed(*TimestampedFixedField)
	VisitInt(*IntField)
	VisitRaw(*RawField)
}
