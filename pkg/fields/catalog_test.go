package fields

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kloodhu/p1_smart_meter/pkg/obis"
)

func TestCatalogIDsAreUnique(t *testing.T) {
	c := NewCatalog()
	seen := make(map[obis.ID]string, c.Len())
	c.Each(func(f Field) {
		if f.ID() == obis.Identification {
			return
		}
		prev, dup := seen[f.ID()]
		require.False(t, dup, "id %s bound to both %s and %s", f.ID(), prev, f.Name())
		seen[f.ID()] = f.Name()
	})
}

func TestCatalogNamesAreUnique(t *testing.T) {
	c := NewCatalog()
	seen := make(map[string]bool, c.Len())
	c.Each(func(f Field) {
		require.False(t, seen[f.Name()], "duplicate name %s", f.Name())
		seen[f.Name()] = true
	})
}

func TestCatalogPresenceStartsFalse(t *testing.T) {
	c := NewCatalog()
	c.Each(func(f Field) {
		require.False(t, f.Present(), f.Name())
	})
}

func TestCatalogLookup(t *testing.T) {
	c := NewCatalog()

	f := c.Lookup(obis.New(1, 0, 1, 8, 1))
	require.NotNil(t, f)
	require.Equal(t, "energy_delivered_tariff1", f.Name())
	require.Equal(t, UnitKWh, f.Unit())

	require.Nil(t, c.Lookup(obis.New(9, 9, 9, 9, 9)))

	// the identification wildcard must never match by id
	require.Nil(t, c.Lookup(obis.Identification))
	require.Equal(t, "identification", c.Identification().Name())
}

func TestCatalogApplyVisitsOnlyPresent(t *testing.T) {
	c := NewCatalog()

	f := c.Lookup(obis.New(1, 0, 1, 8, 1))
	require.True(t, f.Parse([]byte("000123.456*kWh")).Ok())
	f.SetPresent()

	var visited []string
	c.Apply(collector{&visited})
	require.Equal(t, []string{"energy_delivered_tariff1"}, visited)
}

func TestCatalogApplyDispatchesConcreteTypes(t *testing.T) {
	c := NewCatalog()
	for _, line := range []struct {
		id    obis.ID
		token string
	}{
		{obis.New(0, 0, 1, 0, 0), "150117180000W"},
		{obis.New(1, 0, 1, 8, 1), "000441.879*kWh"},
		{obis.New(0, 1, 24, 2, 1), "150117180000W)(00473.789*m3"},
		{obis.New(0, 0, 96, 7, 21), "00004"},
		{obis.New(1, 0, 13, 7, 0), "(0.891)"},
		{obis.New(0, 0, 96, 1, 0), "4530303034303031"},
	} {
		f := c.Lookup(line.id)
		require.NotNil(t, f, line.id.String())
		require.True(t, f.Parse([]byte(line.token)).Ok(), line.id.String())
		f.SetPresent()
	}

	var visited []string
	c.Apply(collector{&visited})
	require.ElementsMatch(t, []string{
		"timestamp",
		"energy_delivered_tariff1",
		"gas_delivered",
		"electricity_failures",
		"power_factor",
		"equipment_id",
	}, visited)
}

// collector records the names of the visited fields.
type collector struct {
	names *[]string
}

func (c collector) VisitString(f *StringField)                     { *c.names = append(*c.names, f.Name()) }
func (c collector) VisitTimestamp(f *TimestampField)               { *c.names = append(*c.names, f.Name()) }
func (c collector) VisitFixed(f *FixedField)                       { *c.names = append(*c.names, f.Name()) }
func (c collector) VisitTimestampedFixed(f *TimestampedFixedField) { *c.names = append(*c.names, f.Name()) }
func (c collector) VisitInt(f *IntField)                           { *c.names = append(*c.names, f.Name()) }
func (c collector) VisitRaw(f *RawField)                           { *c.names = append(*c.names, f.Name()) }
