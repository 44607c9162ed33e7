// Package acs compiles geographic queries for the Census ACS attribute API,
// decodes its responses, and aggregates the resulting rows.
package acs

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/NREL/bamcensus/internal/fips"
	"github.com/NREL/bamcensus/internal/geoid"
)

// ErrEmptyQuery is returned when neither an identifier nor a wildcard level
// was supplied.
var ErrEmptyQuery = eris.New("acs: cannot create query without at least a geoid or wildcard")

// ErrBlockLevel is returned for any query touching the block level, which the
// ACS API does not expose.
var ErrBlockLevel = eris.New("acs: the ACS API does not support block-level queries")

// WildcardCombinationError reports an identifier/wildcard pairing that the
// ACS geography hierarchy does not sanction.
type WildcardCombinationError struct {
	// GeoidType is the identifier's level; only meaningful when HasGeoid.
	GeoidType geoid.GeoidType
	HasGeoid  bool
	Wildcard  geoid.GeoidType
}

func (e *WildcardCombinationError) Error() string {
	if !e.HasGeoid {
		return fmt.Sprintf("acs: cannot create a %s query without an ancestor geoid", e.Wildcard)
	}
	return fmt.Sprintf("acs: cannot append a %q wildcard to a %s geoid", e.Wildcard, e.GeoidType)
}

// GeoidQuery is the geographic scope of one ACS request. Each variant mirrors
// a queryable hierarchy level; nil components render as wildcards ("*") in the
// query key, while non-pointer components are ancestor context the API
// requires to be pinned.
//
// Values of this type only exist for sanctioned identifier/wildcard
// combinations: construction goes through NewGeoidQuery, which consults the
// combination table.
type GeoidQuery interface {
	// Level is the granularity of rows this query returns.
	Level() geoid.GeoidType
	// QueryKey renders the "&for=...&in=..." fragment of the request URL.
	// Ancestor clauses are always ordered state, county, tract; the decoder
	// relies on that order.
	QueryKey() string
	// ResponseColumns lists the identifier column names the API echoes for
	// this query, in response order.
	ResponseColumns() []string
	// DecodeGeoid rebuilds a Geoid from the identifier tail of a response
	// row. The input length must equal len(ResponseColumns()).
	DecodeGeoid(vals []string) (geoid.Geoid, error)

	sealedQuery()
}

// StateQuery scopes a query to one state or all states.
type StateQuery struct {
	State *fips.State
}

// CountyQuery scopes a query to counties, optionally pinned to a state.
type CountyQuery struct {
	State  *fips.State
	County *fips.County
}

// CountySubdivisionQuery scopes a query to county subdivisions. The API
// requires the state to be pinned.
type CountySubdivisionQuery struct {
	State       fips.State
	County      *fips.County
	Subdivision *fips.CountySubdivision
}

// PlaceQuery scopes a query to places, optionally pinned to a state.
type PlaceQuery struct {
	State *fips.State
	Place *fips.Place
}

// TractQuery scopes a query to census tracts. The API requires the state to
// be pinned.
type TractQuery struct {
	State  fips.State
	County *fips.County
	Tract  *fips.CensusTract
}

// BlockGroupQuery scopes a query to block groups. The API requires the state
// to be pinned and county context to be present (pinned or wildcard).
type BlockGroupQuery struct {
	State  fips.State
	County *fips.County
	Tract  *fips.CensusTract
	Group  *fips.BlockGroup
}

func (StateQuery) sealedQuery()             {}
func (CountyQuery) sealedQuery()            {}
func (CountySubdivisionQuery) sealedQuery() {}
func (PlaceQuery) sealedQuery()             {}
func (TractQuery) sealedQuery()             {}
func (BlockGroupQuery) sealedQuery()        {}

func (StateQuery) Level() geoid.GeoidType             { return geoid.StateType }
func (CountyQuery) Level() geoid.GeoidType            { return geoid.CountyType }
func (CountySubdivisionQuery) Level() geoid.GeoidType { return geoid.CountySubdivisionType }
func (PlaceQuery) Level() geoid.GeoidType             { return geoid.PlaceType }
func (TractQuery) Level() geoid.GeoidType             { return geoid.CensusTractType }
func (BlockGroupQuery) Level() geoid.GeoidType        { return geoid.BlockGroupType }

func (StateQuery) ResponseColumns() []string  { return []string{"state"} }
func (CountyQuery) ResponseColumns() []string { return []string{"state", "county"} }
func (CountySubdivisionQuery) ResponseColumns() []string {
	return []string{"state", "county", "county subdivision"}
}
func (PlaceQuery) ResponseColumns() []string { return []string{"state", "place"} }
func (TractQuery) ResponseColumns() []string { return []string{"state", "county", "tract"} }
func (BlockGroupQuery) ResponseColumns() []string {
	return []string{"state", "county", "tract", "block group"}
}

func (q StateQuery) DecodeGeoid(vals []string) (geoid.Geoid, error) {
	return geoid.FromColumns(geoid.StateType, vals)
}
func (q CountyQuery) DecodeGeoid(vals []string) (geoid.Geoid, error) {
	return geoid.FromColumns(geoid.CountyType, vals)
}
func (q CountySubdivisionQuery) DecodeGeoid(vals []string) (geoid.Geoid, error) {
	return geoid.FromColumns(geoid.CountySubdivisionType, vals)
}
func (q PlaceQuery) DecodeGeoid(vals []string) (geoid.Geoid, error) {
	return geoid.FromColumns(geoid.PlaceType, vals)
}
func (q TractQuery) DecodeGeoid(vals []string) (geoid.Geoid, error) {
	return geoid.FromColumns(geoid.CensusTractType, vals)
}
func (q BlockGroupQuery) DecodeGeoid(vals []string) (geoid.Geoid, error) {
	return geoid.FromColumns(geoid.BlockGroupType, vals)
}

// QueryKey renders "&for=state:{s|*}".
func (q StateQuery) QueryKey() string {
	return "&for=state:" + wildcardOr(q.State)
}

// QueryKey renders "&for=county:{c|*}[&in=state:{s}]". The state clause is
// dropped when no state is pinned.
func (q CountyQuery) QueryKey() string {
	key := "&for=county:" + wildcardOr(q.County)
	if q.State != nil {
		key += "&in=state:" + q.State.String()
	}
	return key
}

// QueryKey renders the county subdivision scope. Both ancestor clauses are
// always present, the county as a wildcard when unpinned.
func (q CountySubdivisionQuery) QueryKey() string {
	return "&for=county%20subdivision:" + wildcardOr(q.Subdivision) +
		"&in=state:" + q.State.String() +
		"&in=county:" + wildcardOr(q.County)
}

// QueryKey renders "&for=place:{p|*}[&in=state:{s|*}]". The state clause is
// dropped only in the all-places form.
func (q PlaceQuery) QueryKey() string {
	if q.State == nil && q.Place == nil {
		return "&for=place:*"
	}
	if q.State == nil {
		return "&for=place:" + q.Place.String() + "&in=state:*"
	}
	return "&for=place:" + wildcardOr(q.Place) + "&in=state:" + q.State.String()
}

// QueryKey renders the tract scope. The county clause is dropped when the
// county is implied rather than pinned.
func (q TractQuery) QueryKey() string {
	key := "&for=tract:" + wildcardOr(q.Tract) + "&in=state:" + q.State.String()
	if q.County != nil {
		key += "&in=county:" + q.County.String()
	}
	return key
}

// QueryKey renders the block group scope. All three ancestor clauses are
// always present, wildcarded where unpinned.
func (q BlockGroupQuery) QueryKey() string {
	return "&for=block%20group:" + wildcardOr(q.Group) +
		"&in=state:" + q.State.String() +
		"&in=county:" + wildcardOr(q.County) +
		"&in=tract:" + wildcardOr(q.Tract)
}

// wildcardOr renders a pinned component's fixed-width form, or the wildcard
// marker when the component is unset.
func wildcardOr[T fmt.Stringer](v *T) string {
	if v == nil {
		return "*"
	}
	return (*v).String()
}
