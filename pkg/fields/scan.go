package fields

// scanString accepts any token whose length lies in [min, max] and
// returns it unchanged.
func scanString(span []byte, min, max int) (string, Result) {
	if len(span) < min || len(span) > max {
		return "", fail(InvalidLength, 0)
	}
	return string(span), ok(len(span))
}

// scanNumber decodes a decimal token with at most maxDecimals fraction
// digits followed by a mandatory "*unit" suffix (no suffix is expected
// when unit is empty). The result is rescaled to the full maxDecimals
// precision, so with three decimals both "441.879" and "441879"-style
// integer input end up in the same fixed-point domain.
func scanNumber(span []byte, maxDecimals int, unit string) (uint32, Result) {
	end := len(span)
	if unit != "" {
		ul := len(unit)
		if end < ul+1 || span[end-ul-1] != '*' || string(span[end-ul:]) != unit {
			return 0, fail(UnitMismatch, 0)
		}
		end -= ul + 1
	}
	if end == 0 {
		return 0, fail(InvalidFormat, 0)
	}
	var value uint32
	decimals := -1 // -1 until the decimal point is seen
	for i := 0; i < end; i++ {
		c := span[i]
		switch {
		case c >= '0' && c <= '9':
			value = value*10 + uint32(c-'0')
			if decimals >= 0 {
				decimals++
				if decimals > maxDecimals {
					return 0, fail(InvalidFormat, i)
				}
			}
		case c == '.' && decimals < 0 && maxDecimals > 0:
			decimals = 0
		default:
			return 0, fail(InvalidFormat, i)
		}
	}
	if decimals == 0 {
		// a trailing point with no fraction digits
		return 0, fail(InvalidFormat, end-1)
	}
	if decimals < 0 {
		decimals = 0
	}
	for ; decimals < maxDecimals; decimals++ {
		value *= 10
	}
	return value, ok(len(span))
}
