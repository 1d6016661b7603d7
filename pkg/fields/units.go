package fields

// Unit labels attached to numeric fields. FixedField entries declare a
// pair of these: the large unit used by the float wire encoding and the
// small unit the scaled integer magnitude is expressed in.
const (
	UnitNone  = ""
	UnitKWh   = "kWh"
	UnitWh    = "Wh"
	UnitKW    = "kW"
	UnitW     = "W"
	UnitV     = "V"
	UnitMV    = "mV"
	UnitA     = "A"
	UnitMA    = "mA"
	UnitM3    = "m3"
	UnitDM3   = "dm3"
	UnitGJ    = "GJ"
	UnitMJ    = "MJ"
	UnitKvar  = "kvar"
	UnitKvarh = "kvarh"
	UnitHz    = "Hz"
)
