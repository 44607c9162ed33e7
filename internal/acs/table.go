package acs

import (
	"github.com/NREL/bamcensus/internal/geoid"
)

// levelNone marks the absent side of an identifier/wildcard combination.
const levelNone geoid.GeoidType = -1

// comboKey is one cell of the combination table: the identifier's level (or
// levelNone) paired with the requested wildcard level (or levelNone).
type comboKey struct {
	geoid    geoid.GeoidType
	wildcard geoid.GeoidType
}

// deriveFn builds the query variant for a sanctioned combination. The
// argument is the source identifier, nil for wildcard-only cells.
type deriveFn func(geoid.Geoid) GeoidQuery

// queryTable enumerates every sanctioned (identifier level, wildcard level)
// combination and how it derives a query. Absent cells are illegal pairings.
//
// Three families of cells exist:
//   - wildcard-only: levels whose ancestor clauses the API can wildcard;
//   - exact: an identifier with no wildcard pins every component;
//   - layered: a wildcard unpins one component of the identifier. When the
//     wildcard sits above a level the query no longer reports (for example a
//     county wildcard on a tract identifier), the redundant clause is dropped
//     as implied rather than re-emitted.
var queryTable = map[comboKey]deriveFn{
	// wildcard-only queries
	{levelNone, geoid.StateType}:  func(geoid.Geoid) GeoidQuery { return StateQuery{} },
	{levelNone, geoid.CountyType}: func(geoid.Geoid) GeoidQuery { return CountyQuery{} },
	{levelNone, geoid.PlaceType}:  func(geoid.Geoid) GeoidQuery { return PlaceQuery{} },

	// exact queries, no wildcard
	{geoid.StateType, levelNone}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.State)
		return StateQuery{State: &v.State}
	},
	{geoid.CountyType, levelNone}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.County)
		return CountyQuery{State: &v.State, County: &v.County}
	},
	{geoid.CountySubdivisionType, levelNone}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.CountySubdivision)
		return CountySubdivisionQuery{State: v.State, County: &v.County, Subdivision: &v.Subdivision}
	},
	{geoid.PlaceType, levelNone}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.Place)
		return PlaceQuery{State: &v.State, Place: &v.Place}
	},
	{geoid.CensusTractType, levelNone}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.CensusTract)
		return TractQuery{State: v.State, County: &v.County, Tract: &v.Tract}
	},
	{geoid.BlockGroupType, levelNone}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.BlockGroup)
		return BlockGroupQuery{State: v.State, County: &v.County, Tract: &v.Tract, Group: &v.Group}
	},

	// state identifier with a wildcard at or below it
	{geoid.StateType, geoid.StateType}: func(geoid.Geoid) GeoidQuery {
		return StateQuery{}
	},
	{geoid.StateType, geoid.CountyType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.State)
		return CountyQuery{State: &v.State}
	},
	{geoid.StateType, geoid.CountySubdivisionType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.State)
		return CountySubdivisionQuery{State: v.State}
	},
	{geoid.StateType, geoid.PlaceType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.State)
		return PlaceQuery{State: &v.State}
	},
	{geoid.StateType, geoid.CensusTractType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.State)
		return TractQuery{State: v.State}
	},

	// county identifier
	{geoid.CountyType, geoid.StateType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.County)
		return CountyQuery{County: &v.County}
	},
	{geoid.CountyType, geoid.CountyType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.County)
		return CountyQuery{State: &v.State}
	},
	{geoid.CountyType, geoid.CountySubdivisionType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.County)
		return CountySubdivisionQuery{State: v.State, County: &v.County}
	},
	{geoid.CountyType, geoid.CensusTractType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.County)
		return TractQuery{State: v.State, County: &v.County}
	},
	{geoid.CountyType, geoid.BlockGroupType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.County)
		return BlockGroupQuery{State: v.State, County: &v.County}
	},

	// county subdivision identifier. the state stays pinned even under a
	// state wildcard: the API demands it, so the most specific form wins.
	{geoid.CountySubdivisionType, geoid.StateType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.CountySubdivision)
		return CountySubdivisionQuery{State: v.State, County: &v.County, Subdivision: &v.Subdivision}
	},
	{geoid.CountySubdivisionType, geoid.CountyType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.CountySubdivision)
		return CountySubdivisionQuery{State: v.State, Subdivision: &v.Subdivision}
	},
	{geoid.CountySubdivisionType, geoid.CountySubdivisionType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.CountySubdivision)
		return CountySubdivisionQuery{State: v.State, County: &v.County}
	},

	// place identifier
	{geoid.PlaceType, geoid.StateType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.Place)
		return PlaceQuery{Place: &v.Place}
	},
	{geoid.PlaceType, geoid.PlaceType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.Place)
		return PlaceQuery{State: &v.State}
	},

	// census tract identifier
	{geoid.CensusTractType, geoid.CountyType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.CensusTract)
		return TractQuery{State: v.State, Tract: &v.Tract}
	},
	{geoid.CensusTractType, geoid.CensusTractType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.CensusTract)
		return TractQuery{State: v.State, County: &v.County}
	},
	{geoid.CensusTractType, geoid.BlockGroupType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.CensusTract)
		return BlockGroupQuery{State: v.State, County: &v.County, Tract: &v.Tract}
	},

	// block group identifier
	{geoid.BlockGroupType, geoid.CountyType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.BlockGroup)
		return BlockGroupQuery{State: v.State, Tract: &v.Tract, Group: &v.Group}
	},
	{geoid.BlockGroupType, geoid.CensusTractType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.BlockGroup)
		return BlockGroupQuery{State: v.State, County: &v.County, Group: &v.Group}
	},
	{geoid.BlockGroupType, geoid.BlockGroupType}: func(g geoid.Geoid) GeoidQuery {
		v := g.(geoid.BlockGroup)
		return BlockGroupQuery{State: v.State, County: &v.County, Tract: &v.Tract}
	},
}

// NewGeoidQuery validates an (identifier, wildcard level) pair against the
// combination table and derives the query variant for it. At least one side
// must be present. Block-level queries are rejected in every form: the ACS
// API has no block granularity, and a silently narrowed query would
// misattribute values.
func NewGeoidQuery(g geoid.Geoid, wildcard *geoid.GeoidType) (GeoidQuery, error) {
	if g == nil && wildcard == nil {
		return nil, ErrEmptyQuery
	}
	if wildcard != nil && *wildcard == geoid.BlockType {
		return nil, ErrBlockLevel
	}
	if g != nil && g.Type() == geoid.BlockType {
		return nil, ErrBlockLevel
	}

	key := comboKey{geoid: levelNone, wildcard: levelNone}
	if g != nil {
		key.geoid = g.Type()
	}
	if wildcard != nil {
		key.wildcard = *wildcard
	}

	derive, ok := queryTable[key]
	if !ok {
		err := &WildcardCombinationError{Wildcard: key.wildcard}
		if g != nil {
			err.HasGeoid = true
			err.GeoidType = g.Type()
		}
		return nil, err
	}
	return derive(g), nil
}
