package fields

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanNumberFloatForm(t *testing.T) {
	tests := []struct {
		token string
		want  uint32
	}{
		{"000441.879*kWh", 441879},
		{"0.001*kWh", 1},
		{"123*kWh", 123000}, // no decimals still lands in the ×1000 domain
		{"1.5*kWh", 1500},
		{"22.40*kWh", 22400},
		{"0.000*kWh", 0},
	}
	for _, tc := range tests {
		value, res := scanNumber([]byte(tc.token), 3, UnitKWh)
		require.True(t, res.Ok(), tc.token)
		require.Equal(t, tc.want, value, tc.token)
		require.Equal(t, len(tc.token), res.Next, tc.token)
	}
}

func TestScanNumberRoundsLikeFixedPoint(t *testing.T) {
	// round(value×1000) equality over a sweep of three-decimal tokens
	for _, v := range []float64{0.001, 0.123, 1.000, 441.879, 99999.999} {
		token := fmt.Sprintf("%.3f*kW", v)
		value, res := scanNumber([]byte(token), 3, UnitKW)
		require.True(t, res.Ok(), token)
		require.Equal(t, uint32(math.Round(v*1000)), value, token)
	}
}

func TestScanNumberIntegerForm(t *testing.T) {
	value, res := scanNumber([]byte("000441879*Wh"), 0, UnitWh)
	require.True(t, res.Ok())
	require.Equal(t, uint32(441879), value)

	// zero decimals allowed means no decimal point at all
	_, res = scanNumber([]byte("441.879*Wh"), 0, UnitWh)
	require.False(t, res.Ok())
	require.Equal(t, InvalidFormat, res.Err.Kind)
}

func TestScanNumberUnitMismatch(t *testing.T) {
	for _, token := range []string{"441.879*MWh", "441.879*W", "441.879", "441.879kWh"} {
		_, res := scanNumber([]byte(token), 3, UnitKWh)
		require.False(t, res.Ok(), token)
		require.Equal(t, UnitMismatch, res.Err.Kind, token)
	}
}

func TestScanNumberInvalidFormat(t *testing.T) {
	tests := []string{
		"*kWh",        // no digits at all
		"1.2345*kWh",  // four decimals
		"1.2.3*kWh",   // second decimal point
		"12a4*kWh",    // stray letter
		"441.879 *kWh",
	}
	for _, token := range tests {
		_, res := scanNumber([]byte(token), 3, UnitKWh)
		require.False(t, res.Ok(), token)
		require.Equal(t, InvalidFormat, res.Err.Kind, token)
	}
}

func TestScanNumberTrailingPoint(t *testing.T) {
	_, res := scanNumber([]byte("123.*kWh"), 3, UnitKWh)
	require.False(t, res.Ok())
	require.Equal(t, InvalidFormat, res.Err.Kind)
}

func TestScanNumberWithoutUnit(t *testing.T) {
	value, res := scanNumber([]byte("00004"), 0, UnitNone)
	require.True(t, res.Ok())
	require.Equal(t, uint32(4), value)

	_, res = scanNumber([]byte(""), 0, UnitNone)
	require.False(t, res.Ok())
	require.Equal(t, InvalidFormat, res.Err.Kind)
}

func TestScanStringBounds(t *testing.T) {
	s, res := scanString([]byte("4530303034303031"), 0, 96)
	require.True(t, res.Ok())
	require.Equal(t, "4530303034303031", s)

	_, res = scanString([]byte("12345"), 6, 10)
	require.False(t, res.Ok())
	require.Equal(t, InvalidLength, res.Err.Kind)

	_, res = scanString([]byte("12345678901"), 6, 10)
	require.False(t, res.Ok())
	require.Equal(t, InvalidLength, res.Err.Kind)

	// empty token is fine when minlen is zero
	s, res = scanString([]byte(""), 0, 2048)
	require.True(t, res.Ok())
	require.Equal(t, "", s)
}
