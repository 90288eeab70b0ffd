package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the timestamp layout the records endpoint expects,
// e.g. "2023-02-05T00:00:00.000".
const DateFormat = "2006-01-02T15:04:05.000"

// CadenceUnit is the sampling-interval unit understood by the catalog.
type CadenceUnit string

const (
	CadenceMinute CadenceUnit = "min"
	CadenceHour   CadenceUnit = "h"
	CadenceDay    CadenceUnit = "day"
)

// Cadence is the sampling interval filter applied to the catalog query.
type Cadence struct {
	Value int
	Unit  CadenceUnit
}

// Encode renders the cadence in the catalog's wire form, e.g. "1 min".
func (c Cadence) Encode() string {
	return fmt.Sprintf("%d %s", c.Value, c.Unit)
}

func (c Cadence) validate() error {
	switch c.Unit {
	case CadenceMinute, CadenceHour, CadenceDay:
	default:
		return &ValidationError{Field: "cadence", Reason: "unit must be minutes, hours, or days"}
	}
	if c.Value <= 0 {
		return &ValidationError{Field: "cadence", Reason: "value must be positive"}
	}
	return nil
}

// ParseCadence parses a CLI-style cadence like "1min", "2h", "1 day".
func ParseCadence(s string) (Cadence, error) {
	trimmed := strings.TrimSpace(s)
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i == 0 {
		return Cadence{}, &ValidationError{Field: "cadence", Reason: fmt.Sprintf("missing value in %q", s)}
	}
	value, err := strconv.Atoi(trimmed[:i])
	if err != nil {
		return Cadence{}, &ValidationError{Field: "cadence", Reason: fmt.Sprintf("bad value in %q", s)}
	}

	var unit CadenceUnit
	switch strings.TrimSpace(trimmed[i:]) {
	case "min", "m", "minute", "minutes":
		unit = CadenceMinute
	case "h", "hour", "hours":
		unit = CadenceHour
	case "day", "d", "days":
		unit = CadenceDay
	default:
		return Cadence{}, &ValidationError{Field: "cadence", Reason: fmt.Sprintf("unsupported unit in %q", s)}
	}

	c := Cadence{Value: value, Unit: unit}
	if err := c.validate(); err != nil {
		return Cadence{}, err
	}
	return c, nil
}

// Query selects catalog records by observation time range, wavelength and cadence.
type Query struct {
	StartDate  string
	EndDate    string
	Wavelength int
	Cadence    Cadence
}

// Validate checks the query before any network activity.
func (q Query) Validate() error {
	if _, err := time.Parse(DateFormat, q.StartDate); err != nil {
		return &ValidationError{Field: "start_date", Reason: "must match " + DateFormat}
	}
	if _, err := time.Parse(DateFormat, q.EndDate); err != nil {
		return &ValidationError{Field: "end_date", Reason: "must match " + DateFormat}
	}
	if q.Wavelength <= 0 {
		return &ValidationError{Field: "wavelength", Reason: "must be a positive identifier"}
	}
	return q.Cadence.validate()
}

// params builds the record-listing query string. Only the first page is
// requested: a backlog beyond limit records is truncated by the server.
func (q Query) params(limit int) url.Values {
	v := url.Values{}
	v.Set("_dc", strconv.FormatInt(time.Now().UnixMilli(), 10))
	v.Set("nocount", "false")
	v.Set("p[0]", fmt.Sprintf("DATE_BETWEEN|date__obs|%s|%s", q.StartDate, q.EndDate))
	v.Set("p[1]", fmt.Sprintf("CADENCE|mask_cadence|%s", q.Cadence.Encode()))
	v.Set("p[2]", fmt.Sprintf("LISTBOXMULTIPLE|wavelnth|%d", q.Wavelength))
	v.Set("page", "1")
	v.Set("start", "0")
	v.Set("limit", strconv.Itoa(limit))
	return v
}
