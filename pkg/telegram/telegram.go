// Telegram-level P1 parsing: checksum validation, line splitting and
// OBIS dispatch into a field catalog. Serial framing and transport
// live in port_reader; this package only sees complete telegram text.
package telegram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sigurn/crc16"

	"github.com/kloodhu/p1_smart_meter/pkg/fields"
	"github.com/kloodhu/p1_smart_meter/pkg/obis"
)

var (
	ErrNoTelegram = errors.New("no telegram start marker")
	ErrNoChecksum = errors.New("telegram has no checksum trailer")
	ErrChecksum   = errors.New("telegram checksum mismatch")
)

// CRC16/ARC, as required by the DSMR and Belgian eMUCS specifications.
var crcTable = crc16.MakeTable(crc16.CRC16_ARC)

// LineError records a data line the catalog knew but could not decode.
// The telegram as a whole still parses; the affected field just stays
// absent.
type LineError struct {
	Line string
	ID   obis.ID
	Err  *fields.ParseError
}

func (e LineError) Error() string {
	return fmt.Sprintf("%s: %v in line %q", e.ID, e.Err, e.Line)
}

// Reading is one fully decoded telegram. The catalog inside is fresh
// for this decode pass, so its presence flags describe exactly the
// fields this telegram contained.
type Reading struct {
	Catalog    *fields.Catalog
	LineErrors []LineError
}

// Parse decodes one complete telegram, checksum included.
func Parse(raw string) (*Reading, error) {
	return ParseWithOptions(raw, Options{})
}

// ParseWithOptions decodes one complete telegram with custom options.
func ParseWithOptions(raw string, opts Options) (*Reading, error) {
	start := strings.IndexByte(raw, '/')
	if start < 0 {
		return nil, ErrNoTelegram
	}
	raw = raw[start:]

	if !opts.SkipChecksum {
		if err := ValidateChecksum(raw); err != nil {
			return nil, err
		}
	}

	r := &Reading{Catalog: fields.NewCatalog()}

	lines := strings.Split(raw, "\n")

	// The identification line is special: no OBIS id, matched by
	// position, captured verbatim without the leading slash.
	ident := r.Catalog.Identification()
	ident.Parse([]byte(strings.TrimRight(lines[0][1:], "\r")))
	ident.SetPresent()

	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if line[0] == '!' {
			break
		}
		r.parseLine(line)
	}
	return r, nil
}

func (r *Reading) parseLine(line string) {
	id, rest, err := obis.Parse(line)
	if err != nil {
		r.LineErrors = append(r.LineErrors, LineError{
			Line: line,
			Err:  &fields.ParseError{Kind: fields.InvalidFormat},
		})
		return
	}

	f := r.Catalog.Lookup(id)
	if f == nil {
		// unknown ids are normal, meters differ per region and version
		return
	}

	var span []byte
	if _, isRaw := f.(*fields.RawField); isRaw {
		// raw fields see the token verbatim, parentheses included
		span = []byte(rest)
	} else {
		if len(rest) < 2 || rest[0] != '(' || rest[len(rest)-1] != ')' {
			r.LineErrors = append(r.LineErrors, LineError{
				Line: line,
				ID:   id,
				Err:  &fields.ParseError{Kind: fields.InvalidFormat},
			})
			return
		}
		span = []byte(rest[1 : len(rest)-1])
	}

	res := f.Parse(span)
	if !res.Ok() {
		r.LineErrors = append(r.LineErrors, LineError{Line: line, ID: id, Err: res.Err})
		return
	}
	f.SetPresent()
}

// ValidateChecksum checks the CRC16 trailer over everything from the
// start marker through the '!' inclusive.
func ValidateChecksum(raw string) error {
	bang := strings.LastIndexByte(raw, '!')
	if bang < 0 {
		return ErrNoChecksum
	}
	tail := strings.TrimSpace(raw[bang+1:])
	if len(tail) < 4 {
		return ErrNoChecksum
	}
	sum := crc16.Checksum([]byte(raw[:bang+1]), crcTable)
	if !strings.EqualFold(tail[:4], fmt.Sprintf("%04X", sum)) {
		return ErrChecksum
	}
	return nil
}

// Identification returns the first telegram line without its slash.
func (r *Reading) Identification() string {
	return r.Catalog.Identification().Value
}

// Timestamp returns the meter's own 13-character timestamp, or the
// empty string when the telegram did not carry one.
func (r *Reading) Timestamp() string {
	f := r.Catalog.Lookup(obis.New(0, 0, 1, 0, 0))
	if ts, ok := f.(*fields.TimestampField); ok && ts.Present() {
		return ts.Value
	}
	return ""
}
