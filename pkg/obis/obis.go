// OBIS object identifiers as used on the P1 port. Every data line of a
// telegram starts with one, e.g. "1-0:1.8.1" for tariff-1 delivered energy.
package obis

import "fmt"

// ID is a six-component COSEM/OBIS object identifier. It is a plain
// value type and compares with ==.
type ID [6]uint8

// Identification is not a real OBIS id. Catalog entries carrying it are
// matched positionally as the first telegram line instead of by id.
var Identification = ID{255, 255, 255, 255, 255, 255}

// New builds an ID from up to six components. Omitted trailing
// components default to 255, matching how ids are written in the DSMR
// spec ("1-0:1.8.1" has five components).
func New(parts ...uint8) ID {
	id := ID{255, 255, 255, 255, 255, 255}
	copy(id[:], parts)
	return id
}

// String renders the conventional a-b:c.d.e form.
func (id ID) String() string {
	return fmt.Sprintf("%d-%d:%d.%d.%d", id[0], id[1], id[2], id[3], id[4])
}

// Parse reads an OBIS id prefix from a telegram line and returns the
// remainder of the line, normally the parenthesized value token(s).
// Components are separated by any of '-', ':' and '.'; unspecified
// trailing components are filled with 255.
func Parse(line string) (ID, string, error) {
	id := ID{255, 255, 255, 255, 255, 255}
	n := 0
	i := 0
	for n < 6 {
		start := i
		v := 0
		for i < len(line) && line[i] >= '0' && line[i] <= '9' {
			v = v*10 + int(line[i]-'0')
			if v > 255 {
				return ID{}, line, fmt.Errorf("obis component out of range in %q", line)
			}
			i++
		}
		if i == start {
			break
		}
		id[n] = uint8(v)
		n++
		if i < len(line) && (line[i] == '-' || line[i] == ':' || line[i] == '.') {
			i++
			continue
		}
		break
	}
	if n < 2 {
		return ID{}, line, fmt.Errorf("no obis id in %q", line)
	}
	return id, line[i:], nil
}
