package acs

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultBaseURL is the public ACS data endpoint.
const DefaultBaseURL = "https://api.census.gov/data"

// Dataset selects the ACS estimate vintage.
type Dataset int

const (
	// Acs1 is the one-year estimate dataset.
	Acs1 Dataset = iota
	// Acs5 is the five-year estimate dataset.
	Acs5
)

func (d Dataset) String() string {
	switch d {
	case Acs1:
		return "acs1"
	case Acs5:
		return "acs5"
	default:
		return fmt.Sprintf("acs(%d)", int(d))
	}
}

// ParseDataset reads a dataset name as it appears in config or on the CLI.
func ParseDataset(s string) (Dataset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "acs1":
		return Acs1, nil
	case "acs5":
		return Acs5, nil
	default:
		return 0, eris.Errorf("acs: unknown dataset %q, want acs1 or acs5", s)
	}
}

// QueryParams is one fully specified ACS request: the variables to fetch and
// the geographic scope to fetch them over.
type QueryParams struct {
	BaseURL string
	Year    uint64
	Dataset Dataset
	Get     []string
	Query   GeoidQuery
	APIKey  string
}

// URL renders the complete request URL.
func (p QueryParams) URL() string {
	base := p.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%d/acs/%s?get=%s", base, p.Year, p.Dataset, strings.Join(p.Get, ","))
	b.WriteString(p.Query.QueryKey())
	if p.APIKey != "" {
		b.WriteString("&key=")
		b.WriteString(p.APIKey)
	}
	return b.String()
}

// ColumnNames is the header row the response is expected to open with: the
// requested variables followed by the query's geographic identifier columns.
func (p QueryParams) ColumnNames() []string {
	cols := make([]string, 0, len(p.Get)+len(p.Query.ResponseColumns()))
	cols = append(cols, p.Get...)
	cols = append(cols, p.Query.ResponseColumns()...)
	return cols
}
