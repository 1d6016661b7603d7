package fields

import "github.com/kloodhu/p1_smart_meter/pkg/obis"

func newString(name string, id obis.ID, minLen, maxLen int) *StringField {
	return &StringField{fieldMeta: fieldMeta{id: id, name: name}, minLen: minLen, maxLen: maxLen}
}

func newTimestamp(name string, id obis.ID) *TimestampField {
	return &TimestampField{fieldMeta: fieldMeta{id: id, name: name}}
}

func newFixed(name string, id obis.ID, unit, intUnit string) *FixedField {
	return &FixedField{fieldMeta: fieldMeta{id: id, name: name}, unit: unit, intUnit: intUnit}
}

func newTimestampedFixed(name string, id obis.ID, unit, intUnit string) *TimestampedFixedField {
	return &TimestampedFixedField{fieldMeta: fieldMeta{id: id, name: name}, unit: unit, intUnit: intUnit}
}

func newInt(name string, id obis.ID, unit string) *IntField {
	return &IntField{fieldMeta: fieldMeta{id: id, name: name}, unit: unit}
}

func newRaw(name string, id obis.ID) *RawField {
	return &RawField{fieldMeta: fieldMeta{id: id, name: name}}
}

// Catalog holds the full set of known P1 fields for one decode pass.
// Presence flags start false and are never cleared here; build a fresh
// catalog per telegram and let it go out of scope afterwards.
type Catalog struct {
	entries []Field
	byID    map[obis.ID]Field
}

// NewCatalog builds a catalog with every known field definition. The
// first entry is always the identification record, which carries the
// obis.Identification wildcard and must be matched positionally as the
// first telegram line rather than by id.
func NewCatalog() *Catalog {
	entries := []Field{
		newRaw("identification", obis.Identification),

		newTimestamp("timestamp", obis.New(0, 0, 1, 0, 0)),
		newString("equipment_id", obis.New(0, 0, 96, 1, 0), 0, 96),

		// Cumulative energy registers. The .8.0 registers are the
		// tariffless totals used in Luxembourg.
		newFixed("energy_delivered_lux", obis.New(1, 0, 1, 8, 0), UnitKWh, UnitWh),
		newFixed("energy_delivered_tariff1", obis.New(1, 0, 1, 8, 1), UnitKWh, UnitWh),
		newFixed("energy_delivered_tariff2", obis.New(1, 0, 1, 8, 2), UnitKWh, UnitWh),
		newFixed("energy_returned_lux", obis.New(1, 0, 2, 8, 0), UnitKWh, UnitWh),
		newFixed("energy_returned_tariff1", obis.New(1, 0, 2, 8, 1), UnitKWh, UnitWh),
		newFixed("energy_returned_tariff2", obis.New(1, 0, 2, 8, 2), UnitKWh, UnitWh),
		newFixed("energy_combined_total", obis.New(1, 0, 15, 8, 0), UnitKWh, UnitWh),
		newFixed("total_imported_energy", obis.New(1, 0, 3, 8, 0), UnitKvarh, UnitKvarh),
		newFixed("total_exported_energy", obis.New(1, 0, 4, 8, 0), UnitKvarh, UnitKvarh),

		newString("electricity_tariff", obis.New(0, 0, 96, 14, 0), 4, 4),

		// Instantaneous power, total and per phase.
		newFixed("power_delivered", obis.New(1, 0, 1, 7, 0), UnitKW, UnitW),
		newFixed("power_returned", obis.New(1, 0, 2, 7, 0), UnitKW, UnitW),
		newFixed("power_delivered_l1", obis.New(1, 0, 21, 7, 0), UnitKW, UnitW),
		newFixed("power_delivered_l2", obis.New(1, 0, 41, 7, 0), UnitKW, UnitW),
		newFixed("power_delivered_l3", obis.New(1, 0, 61, 7, 0), UnitKW, UnitW),
		newFixed("power_returned_l1", obis.New(1, 0, 22, 7, 0), UnitKW, UnitW),
		newFixed("power_returned_l2", obis.New(1, 0, 42, 7, 0), UnitKW, UnitW),
		newFixed("power_returned_l3", obis.New(1, 0, 62, 7, 0), UnitKW, UnitW),

		// Dropped in DSMR 4.0.7 but still sent by older meters.
		newFixed("electricity_threshold", obis.New(0, 0, 17, 0, 0), UnitKW, UnitW),
		newInt("electricity_switch_position", obis.New(0, 0, 96, 3, 10), UnitNone),

		newInt("electricity_failures", obis.New(0, 0, 96, 7, 21), UnitNone),
		newInt("electricity_long_failures", obis.New(0, 0, 96, 7, 9), UnitNone),
		newInt("electricity_sags_l1", obis.New(1, 0, 32, 32, 0), UnitNone),
		newInt("electricity_sags_l2", obis.New(1, 0, 52, 32, 0), UnitNone),
		newInt("electricity_sags_l3", obis.New(1, 0, 72, 32, 0), UnitNone),
		newInt("electricity_swells_l1", obis.New(1, 0, 32, 36, 0), UnitNone),
		newInt("electricity_swells_l2", obis.New(1, 0, 52, 36, 0), UnitNone),
		newInt("electricity_swells_l3", obis.New(1, 0, 72, 36, 0), UnitNone),

		newString("message_long", obis.New(0, 0, 96, 13, 0), 0, 2048),

		// 0.1V resolution on the wire, stored as mV.
		newFixed("voltage_l1", obis.New(1, 0, 32, 7, 0), UnitV, UnitMV),
		newFixed("voltage_l2", obis.New(1, 0, 52, 7, 0), UnitV, UnitMV),
		newFixed("voltage_l3", obis.New(1, 0, 72, 7, 0), UnitV, UnitMV),
		newFixed("current_l1", obis.New(1, 0, 31, 7, 0), UnitA, UnitMA),
		newFixed("current_l2", obis.New(1, 0, 51, 7, 0), UnitA, UnitMA),
		newFixed("current_l3", obis.New(1, 0, 71, 7, 0), UnitA, UnitMA),
		newFixed("maximum_current_l1", obis.New(1, 0, 31, 4, 0), UnitA, UnitMA),
		newFixed("maximum_current_l2", obis.New(1, 0, 51, 4, 0), UnitA, UnitMA),
		newFixed("maximum_current_l3", obis.New(1, 0, 71, 4, 0), UnitA, UnitMA),

		newFixed("frequency", obis.New(1, 0, 14, 7, 0), UnitHz, UnitHz),

		// Power factors have no unit and no defined precision; kept raw.
		newRaw("power_factor", obis.New(1, 0, 13, 7, 0)),
		newRaw("power_factor_l1", obis.New(1, 0, 33, 7, 0)),
		newRaw("power_factor_l2", obis.New(1, 0, 53, 7, 0)),
		newRaw("power_factor_l3", obis.New(1, 0, 73, 7, 0)),

		newString("monthly_datas", obis.New(0, 0, 98, 1, 0), 0, 2048),
		newString("cosem_logical_device_name", obis.New(0, 0, 42, 0, 0), 0, 64),
		newString("breaker_status", obis.New(0, 0, 96, 50, 68), 0, 2048),

		// M-Bus slaves: gas on channel 1, water on channel 2.
		newInt("gas_device_type", obis.New(0, 1, 24, 1, 0), UnitNone),
		newString("gas_equipment_id", obis.New(0, 1, 96, 1, 0), 0, 96),
		newInt("gas_valve_position", obis.New(0, 1, 24, 4, 0), UnitNone),
		newTimestampedFixed("gas_delivered", obis.New(0, 1, 24, 2, 1), UnitM3, UnitDM3),
		newString("water_equipment_id", obis.New(0, 2, 96, 1, 0), 0, 96),
		newTimestampedFixed("water_delivered", obis.New(0, 2, 24, 2, 1), UnitM3, UnitDM3),
	}

	c := &Catalog{
		entries: entries,
		byID:    make(map[obis.ID]Field, len(entries)),
	}
	for _, f := range entries {
		if f.ID() != obis.Identification {
			c.byID[f.ID()] = f
		}
	}
	return c
}

// Identification returns the positional first-line record.
func (c *Catalog) Identification() *RawField {
	return c.entries[0].(*RawField)
}

// Lookup returns the record registered for id, or nil. The
// identification record is deliberately not reachable this way.
func (c *Catalog) Lookup(id obis.ID) Field {
	return c.byID[id]
}

// Len returns the number of records, identification included.
func (c *Catalog) Len() int { return len(c.entries) }

// Each calls fn for every record in catalog order.
func (c *Catalog) Each(fn func(Field)) {
	for _, f := range c.entries {
		fn(f)
	}
}

// Apply visits every record whose presence flag is set, in catalog
// order, letting exporters enumerate exactly the fields the current
// telegram contained.
func (c *Catalog) Apply(v Visitor) {
	for _, f := range c.entries {
		if f.Present() {
			f.Apply(v)
		}
	}
}
