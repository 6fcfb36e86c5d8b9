// Package format holds the display formatting rules shared by every certificate
// presentation: dates, identity documents, addresses and ordinals.
package format

import (
	"fmt"
	"strings"
	"time"

	"certificate-api/internal/presentation/models"
)

// NotAvailable is rendered when an address has no usable parts.
const NotAvailable = "NA"

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// layouts accepted for stored timestamps. Offset-less date-times are read in the
// display location; date-only values are UTC midnight.
var (
	zonedLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999Z0700"}
	localLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05", "2006-01-02T15:04"}
	dateLayout   = "2006-01-02"
)

// Dates formats stored timestamps for display in a fixed location.
type Dates struct {
	loc *time.Location
}

// NewDates returns a formatter rendering in loc. A nil loc renders in UTC.
func NewDates(loc *time.Location) Dates {
	if loc == nil {
		loc = time.UTC
	}
	return Dates{loc: loc}
}

// Location returns the display location.
func (d Dates) Location() *time.Location {
	return d.loc
}

// Parse reads a stored timestamp and converts it to the display location.
func (d Dates) Parse(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.In(d.loc), true
		}
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.In(d.loc), true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, d.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date renders DD-Mon-YYYY, or "" when value cannot be parsed.
func (d Dates) Date(value string) string {
	t, ok := d.Parse(value)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d-%s-%d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// DateTime renders DD-Mon-YYYY H:M. Neither hour nor minute is padded, so
// 07:05 prints as 7:5 on certificates already in circulation.
func (d Dates) DateTime(value string) string {
	t, ok := d.Parse(value)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d-%s-%d %d:%d", t.Day(), monthNames[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// DateISO renders YYYY-M-DD. The month is not zero-padded; DCC payloads
// already issued carry dates in this shape.
func (d Dates) DateISO(value string) string {
	t, ok := d.Parse(value)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d-%d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ValidDays is the whole number of days between the UTC calendar dates of
// start and end. Unparseable input yields 0.
func ValidDays(start, end string) int {
	utc := NewDates(time.UTC)
	a, okA := utc.Parse(start)
	b, okB := utc.Parse(end)
	if !okA || !okB {
		return 0
	}
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da) / (24 * time.Hour))
}

// Ordinal renders n with its English ordinal suffix: 1st, 2nd, 11th, 21st.
func Ordinal(n int) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	suffix := "th"
	if v := abs % 100; v < 11 || v > 13 {
		switch abs % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// ReadableString joins a and b with ", ", skipping blank parts. Two blank parts
// render as NotAvailable.
func ReadableString(a, b string) string {
	out := appendNonBlank(appendNonBlank("", a), b)
	if out == "" {
		return NotAvailable
	}
	return out
}

func appendNonBlank(acc, part string) string {
	if strings.TrimSpace(acc) == "" {
		return part
	}
	if strings.TrimSpace(part) == "" {
		return acc
	}
	return acc + ", " + part
}

// RecipientAddress renders the street and district of a subject's address.
func RecipientAddress(addr models.Address) string {
	return ReadableString(addr.StreetAddress, addr.District)
}

// FacilityAddress renders the facility name and district.
func FacilityAddress(f models.Facility) string {
	return ReadableString(f.Name, f.Address.District)
}
