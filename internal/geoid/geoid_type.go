package geoid

import (
	"strings"

	"github.com/rotisserie/eris"
)

// GeoidType is a level in the Census geographic containment hierarchy.
type GeoidType int

// Hierarchy levels, coarsest first. State is the root; County and Place are
// its children; CountySubdivision and CensusTract nest under County;
// BlockGroup and Block nest under CensusTract.
const (
	StateType GeoidType = iota
	CountyType
	CountySubdivisionType
	PlaceType
	CensusTractType
	BlockGroupType
	BlockType
)

// String returns the Census display name for the level.
func (t GeoidType) String() string {
	switch t {
	case StateType:
		return "state"
	case CountyType:
		return "county"
	case CountySubdivisionType:
		return "county subdivision"
	case PlaceType:
		return "place"
	case CensusTractType:
		return "census tract"
	case BlockGroupType:
		return "block group"
	case BlockType:
		return "block"
	default:
		return "unknown"
	}
}

// ParseGeoidType parses a level name as written on a command line. Both
// space-separated and underscore-separated spellings are accepted.
func ParseGeoidType(s string) (GeoidType, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ") {
	case "state":
		return StateType, nil
	case "county":
		return CountyType, nil
	case "county subdivision", "cousub":
		return CountySubdivisionType, nil
	case "place":
		return PlaceType, nil
	case "census tract", "tract":
		return CensusTractType, nil
	case "block group", "bg":
		return BlockGroupType, nil
	case "block":
		return BlockType, nil
	default:
		return 0, eris.Errorf("geoid: unknown geoid type %q", s)
	}
}
