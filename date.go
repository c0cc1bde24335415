package txingest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// readDateFormats are the exact layouts tried by ParseDate, in priority order.
// An ambiguous slash date like 03/04/2024 is read as US (March 4).
var readDateFormats = []string{
	"2006-1-2",  // ISO, permissive on single-digit month/day
	"1/2/2006",  // US
	"2/1/2006",  // EU
	"2-1-2006",  // EU dashed
	"1/2/06",    // US, two-digit year
	"2/1/06",    // EU, two-digit year
}

var (
	asOfDateRE = regexp.MustCompile(`(?i)as of ([0-9]{1,2}/[0-9]{1,2}/[0-9]{2,4}|[0-9]{4}-[0-9]{1,2}-[0-9]{1,2})`)
	dateLikeRE = regexp.MustCompile(`([0-9]{1,2}/[0-9]{1,2}/[0-9]{2,4}|[0-9]{4}-[0-9]{1,2}-[0-9]{1,2})`)
)

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// String formats the date as ISO-8601, or the empty string for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool {
	return d.y == 0 && d.m == 0 && d.d == 0
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// ParseDate reads a date as brokers write them.
//
// An embedded "as of <date>" clause wins over anything else in the text, so
// "07/22/2024 as of 07/19/2024" is July 19. Otherwise the whole text is tried
// against ISO, US, EU and dashed EU layouts in that order, and as a last resort
// the first date-like substring is extracted and tried again.
func ParseDate(str string) (Date, bool) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Date{}, false
	}

	if m := asOfDateRE.FindStringSubmatch(str); m != nil {
		if d, ok := parseDateExact(m[1]); ok {
			return d, true
		}
	}

	if d, ok := parseDateExact(str); ok {
		return d, true
	}

	if m := dateLikeRE.FindStringSubmatch(str); m != nil {
		return parseDateExact(m[1])
	}
	return Date{}, false
}

func parseDateExact(str string) (Date, bool) {
	for _, layout := range readDateFormats {
		if on, err := time.Parse(layout, str); err == nil {
			return NewDate(on.Date()), true
		}
	}
	return Date{}, false
}

// MustParseDate is like ParseDate but panics on unreadable input.
func MustParseDate(str string) Date {
	d, ok := ParseDate(str)
	if !ok {
		panic(fmt.Sprintf("invalid date %q", str))
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*j = Date{}
		return nil
	}
	// Keep this parsing strict, as it's for data files.
	on, err := time.Parse(readDateFormats[0], str)
	if err != nil {
		return fmt.Errorf("invalid date %q, want format %q: %w", str, DateFormat, err)
	}
	*j = NewDate(on.Date())
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
