package acs

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Value is one decoded ACS observation: a variable name paired with the raw
// string the API returned for it. The API serializes every value as a string,
// so numeric interpretation happens on demand.
type Value struct {
	Name string
	Raw  string
}

// Float64 parses the raw value as a number. The API occasionally pads values
// with whitespace, so the raw string is trimmed first.
func (v Value) Float64() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Raw), 64)
	if err != nil {
		return 0, eris.Wrapf(err, "acs: value for %s is not numeric: %q", v.Name, v.Raw)
	}
	return f, nil
}
