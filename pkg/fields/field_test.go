package fields

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kloodhu/p1_smart_meter/pkg/obis"
)

func TestFixedFieldFloatEncoding(t *testing.T) {
	f := newFixed("energy_delivered_tariff1", obis.New(1, 0, 1, 8, 1), UnitKWh, UnitWh)
	res := f.Parse([]byte("000441.879*kWh"))
	require.True(t, res.Ok())
	require.Equal(t, uint32(441879), f.Value.Int())
	require.InDelta(t, 441.879, f.Value.Float(), 1e-9)
}

func TestFixedFieldIntegerEncoding(t *testing.T) {
	// some meters publish "000441879*Wh" instead of "000441.879*kWh";
	// both must yield the same stored magnitude
	f := newFixed("energy_delivered_tariff1", obis.New(1, 0, 1, 8, 1), UnitKWh, UnitWh)
	res := f.Parse([]byte("000441879*Wh"))
	require.True(t, res.Ok())
	require.Equal(t, uint32(441879), f.Value.Int())
}

func TestFixedFieldReportsFloatAttemptError(t *testing.T) {
	// when neither encoding matches, the error is always the one the
	// float attempt produced, even if the integer attempt got closer
	f := newFixed("energy_delivered_tariff1", obis.New(1, 0, 1, 8, 1), UnitKWh, UnitWh)

	res := f.Parse([]byte("441.879*MWh"))
	require.False(t, res.Ok())
	require.Equal(t, UnitMismatch, res.Err.Kind)

	// integer attempt fails on format, float attempt on unit; the
	// reported kind stays the float one
	res = f.Parse([]byte("441x879*Wh"))
	require.False(t, res.Ok())
	require.Equal(t, UnitMismatch, res.Err.Kind)
}

func TestFixedFieldNoWriteOnFailure(t *testing.T) {
	f := newFixed("power_delivered", obis.New(1, 0, 1, 7, 0), UnitKW, UnitW)
	require.True(t, f.Parse([]byte("01.193*kW")).Ok())
	require.Equal(t, uint32(1193), f.Value.Int())

	require.False(t, f.Parse([]byte("garbage")).Ok())
	require.Equal(t, uint32(1193), f.Value.Int())
}

func TestFixedFieldUnitMetadata(t *testing.T) {
	f := newFixed("voltage_l1", obis.New(1, 0, 32, 7, 0), UnitV, UnitMV)
	require.Equal(t, UnitV, f.Unit())
	require.Equal(t, UnitMV, f.IntUnit())
}

func TestStringFieldRoundTrip(t *testing.T) {
	f := newString("equipment_id", obis.New(0, 0, 96, 1, 0), 0, 96)
	res := f.Parse([]byte("4B414C37303035313030333036"))
	require.True(t, res.Ok())
	require.Equal(t, "4B414C37303035313030333036", f.Value)
	require.Equal(t, len(f.Value), res.Next)
}

func TestStringFieldLengthBounds(t *testing.T) {
	f := newString("electricity_tariff", obis.New(0, 0, 96, 14, 0), 4, 4)
	require.True(t, f.Parse([]byte("0002")).Ok())
	require.Equal(t, "0002", f.Value)

	// one character outside either bound
	for _, token := range []string{"002", "00002"} {
		res := f.Parse([]byte(token))
		require.False(t, res.Ok(), token)
		require.Equal(t, InvalidLength, res.Err.Kind, token)
	}
	require.Equal(t, "0002", f.Value)
}

func TestTimestampField(t *testing.T) {
	f := newTimestamp("timestamp", obis.New(0, 0, 1, 0, 0))
	res := f.Parse([]byte("150117180000W"))
	require.True(t, res.Ok())
	require.Equal(t, "150117180000W", f.Value)

	res = f.Parse([]byte("150117180000"))
	require.False(t, res.Ok())
	require.Equal(t, InvalidLength, res.Err.Kind)
}

func TestTimestampedFixedField(t *testing.T) {
	f := newTimestampedFixed("gas_delivered", obis.New(0, 1, 24, 2, 1), UnitM3, UnitDM3)
	res := f.Parse([]byte("150117180000W)(00473.789*m3"))
	require.True(t, res.Ok())
	require.Equal(t, "150117180000W", f.Value.Timestamp)
	require.Equal(t, uint32(473789), f.Value.Int())
}

func TestTimestampedFixedFieldIntegerEncoding(t *testing.T) {
	f := newTimestampedFixed("gas_delivered", obis.New(0, 1, 24, 2, 1), UnitM3, UnitDM3)
	res := f.Parse([]byte("150117180000W)(00473789*dm3"))
	require.True(t, res.Ok())
	require.Equal(t, "150117180000W", f.Value.Timestamp)
	require.Equal(t, uint32(473789), f.Value.Int())
}

func TestTimestampedFixedFieldCorruptTimestamp(t *testing.T) {
	f := newTimestampedFixed("gas_delivered", obis.New(0, 1, 24, 2, 1), UnitM3, UnitDM3)
	require.True(t, f.Parse([]byte("150117180000W)(00473.789*m3")).Ok())

	// truncated timestamp: the whole parse fails and the previously
	// stored value survives untouched
	res := f.Parse([]byte("1501171800W)(00999.999*m3"))
	require.False(t, res.Ok())
	require.Equal(t, "150117180000W", f.Value.Timestamp)
	require.Equal(t, uint32(473789), f.Value.Int())
}

func TestTimestampedFixedFieldNumericFailureWritesNothing(t *testing.T) {
	f := newTimestampedFixed("gas_delivered", obis.New(0, 1, 24, 2, 1), UnitM3, UnitDM3)
	res := f.Parse([]byte("150117180000W)(00473.789*kWh"))
	require.False(t, res.Ok())
	require.Equal(t, UnitMismatch, res.Err.Kind)
	// neither half may have been written
	require.Equal(t, "", f.Value.Timestamp)
	require.Equal(t, uint32(0), f.Value.Int())
}

func TestTimestampedFixedFieldTooShort(t *testing.T) {
	f := newTimestampedFixed("gas_delivered", obis.New(0, 1, 24, 2, 1), UnitM3, UnitDM3)
	res := f.Parse([]byte("150117"))
	require.False(t, res.Ok())
	require.Equal(t, InvalidLength, res.Err.Kind)
}

func TestIntField(t *testing.T) {
	f := newInt("electricity_failures", obis.New(0, 0, 96, 7, 21), UnitNone)
	res := f.Parse([]byte("00004"))
	require.True(t, res.Ok())
	require.Equal(t, uint32(4), f.Value)

	// no dual-encoding fallback: a decimal point is simply invalid
	res = f.Parse([]byte("4.0"))
	require.False(t, res.Ok())
	require.Equal(t, InvalidFormat, res.Err.Kind)
	require.Equal(t, uint32(4), f.Value)
}

func TestRawFieldNeverFails(t *testing.T) {
	f := newRaw("power_factor", obis.New(1, 0, 13, 7, 0))
	for _, token := range []string{"(0.891)", "", "((", strings.Repeat("x", 300)} {
		res := f.Parse([]byte(token))
		require.True(t, res.Ok(), token)
		require.Equal(t, token, f.Value, token)
		require.Equal(t, len(token), res.Next, token)
	}
}
