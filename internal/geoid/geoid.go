// Package geoid models hierarchical Census geographic identifiers (GEOIDs)
// and the operations that move between hierarchy levels.
//
// A GEOID is the concatenation of fixed-width FIPS components in hierarchy
// order, so the total string length alone determines the level: 2 digits is a
// state, 5 a county, 7 a place, 10 a county subdivision, 11 a census tract,
// 12 a block group, and 15-16 a block.
package geoid

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/NREL/bamcensus/internal/fips"
)

// Geoid is one geographic identifier at a specific hierarchy level. The seven
// implementations are value types carrying exactly the FIPS components needed
// to address their level; they are comparable and usable as map keys.
type Geoid interface {
	// Type reports the hierarchy level of this identifier.
	Type() GeoidType
	// String renders the canonical fixed-width GEOID string.
	String() string

	sealed()
}

// State is a 2-digit state GEOID.
type State struct {
	State fips.State
}

// County is a 5-digit state+county GEOID.
type County struct {
	State  fips.State
	County fips.County
}

// CountySubdivision is a 10-digit state+county+subdivision GEOID.
type CountySubdivision struct {
	State       fips.State
	County      fips.County
	Subdivision fips.CountySubdivision
}

// Place is a 7-digit state+place GEOID. Places are children of states and
// have no county component.
type Place struct {
	State fips.State
	Place fips.Place
}

// CensusTract is an 11-digit state+county+tract GEOID.
type CensusTract struct {
	State  fips.State
	County fips.County
	Tract  fips.CensusTract
}

// BlockGroup is a 12-digit state+county+tract+group GEOID.
type BlockGroup struct {
	State  fips.State
	County fips.County
	Tract  fips.CensusTract
	Group  fips.BlockGroup
}

// Block is a 15- or 16-digit state+county+tract+block GEOID. The block
// component stays a string: its first digit names the containing block group.
type Block struct {
	State  fips.State
	County fips.County
	Tract  fips.CensusTract
	Block  fips.Block
}

func (State) sealed()             {}
func (County) sealed()            {}
func (CountySubdivision) sealed() {}
func (Place) sealed()             {}
func (CensusTract) sealed()       {}
func (BlockGroup) sealed()        {}
func (Block) sealed()             {}

func (State) Type() GeoidType             { return StateType }
func (County) Type() GeoidType            { return CountyType }
func (CountySubdivision) Type() GeoidType { return CountySubdivisionType }
func (Place) Type() GeoidType             { return PlaceType }
func (CensusTract) Type() GeoidType       { return CensusTractType }
func (BlockGroup) Type() GeoidType        { return BlockGroupType }
func (Block) Type() GeoidType             { return BlockType }

func (g State) String() string { return g.State.String() }

func (g County) String() string { return g.State.String() + g.County.String() }

func (g CountySubdivision) String() string {
	return g.State.String() + g.County.String() + g.Subdivision.String()
}

func (g Place) String() string { return g.State.String() + g.Place.String() }

func (g CensusTract) String() string {
	return g.State.String() + g.County.String() + g.Tract.String()
}

func (g BlockGroup) String() string {
	return g.State.String() + g.County.String() + g.Tract.String() + g.Group.String()
}

func (g Block) String() string {
	return g.State.String() + g.County.String() + g.Tract.String() + g.Block.String()
}

// Label renders an identifier with its level name, e.g. "county=08059".
func Label(g Geoid) string {
	return fmt.Sprintf("%s=%s", g.Type(), g.String())
}

// AllStates returns state-level Geoids for the 50 states, DC, and Puerto Rico.
func AllStates() []Geoid {
	codes := fips.AllStates()
	out := make([]Geoid, len(codes))
	for i, code := range codes {
		out[i] = State{State: code}
	}
	return out
}

// StateAbbreviation returns the USPS abbreviation of the state containing g.
func StateAbbreviation(g Geoid) (string, error) {
	st, err := Truncate(g, StateType)
	if err != nil {
		return "", err
	}
	abbrev, ok := st.(State).State.Abbreviation()
	if !ok {
		return "", eris.Errorf("geoid: no state abbreviation for FIPS code %s", st)
	}
	return abbrev, nil
}
