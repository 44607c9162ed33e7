package acs

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/NREL/bamcensus/internal/geoid"
)

// SchemaMismatchError reports a response header that does not line up with
// the columns the request asked for.
type SchemaMismatchError struct {
	Want []string
	Got  []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("acs: response header %v does not match requested columns %v", e.Got, e.Want)
}

// MalformedRowError reports a data row too short to carry the requested
// variables plus the geographic identifier columns.
type MalformedRowError struct {
	Row  []string
	Want int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("acs: row %v has %d columns, want %d", e.Row, len(e.Row), e.Want)
}

// Row is one decoded response row: the geography it describes and the values
// observed there.
type Row struct {
	Geoid  geoid.Geoid
	Values []Value
}

// DecodeResponse turns the raw nested-array response body into rows. The
// first row must be a header matching the request's column names position for
// position. Each data row splits into variable values followed by identifier
// columns, which decode into the row's geoid.
func DecodeResponse(params QueryParams, body [][]string) ([]Row, error) {
	if len(body) == 0 {
		return nil, eris.New("acs: empty response, expected a header row")
	}
	want := params.ColumnNames()
	header := body[0]
	if !columnsEqual(want, header) {
		return nil, &SchemaMismatchError{Want: want, Got: header}
	}

	idCols := len(params.Query.ResponseColumns())
	nAttrs := len(params.Get)
	rows := make([]Row, 0, len(body)-1)
	for _, raw := range body[1:] {
		if len(raw) < nAttrs+idCols {
			return nil, &MalformedRowError{Row: raw, Want: nAttrs + idCols}
		}
		g, err := params.Query.DecodeGeoid(raw[len(raw)-idCols:])
		if err != nil {
			return nil, eris.Wrap(err, "acs: decode row geoid")
		}
		values := make([]Value, nAttrs)
		for i := 0; i < nAttrs; i++ {
			values[i] = Value{Name: params.Get[i], Raw: raw[i]}
		}
		rows = append(rows, Row{Geoid: g, Values: values})
	}
	return rows, nil
}

func columnsEqual(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
