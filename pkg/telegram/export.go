package telegram

import "github.com/kloodhu/p1_smart_meter/pkg/fields"

// Fields flattens the present records into a name-keyed map: fixed
// values as their large-unit float, integers as uint32, everything
// else as text. Timestamped values get an extra "<name>_timestamp"
// entry.
func (r *Reading) Fields() map[string]any {
	out := make(map[string]any)
	r.Catalog.Apply(mapVisitor{out: out})
	return out
}

type mapVisitor struct {
	out map[string]any
}

func (v mapVisitor) VisitString(f *fields.StringField) {
	v.out[f.Name()] = f.Value
}

func (v mapVisitor) VisitTimestamp(f *fields.TimestampField) {
	v.out[f.Name()] = f.Value
}

func (v mapVisitor) VisitFixed(f *fields.FixedField) {
	v.out[f.Name()] = f.Value.Float()
}

func (v mapVisitor) VisitTimestampedFixed(f *fields.TimestampedFixedField) {
	v.out[f.Name()] = f.Value.Float()
	v.out[f.Name()+"_timestamp"] = f.Value.Timestamp
}

func (v mapVisitor) VisitInt(f *fields.IntField) {
	v.out[f.Name()] = f.Value
}

func (v mapVisitor) VisitRaw(f *fields.RawField) {
	v.out[f.Name()] = f.Value
}
