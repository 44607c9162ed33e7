package geoid

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/NREL/bamcensus/internal/fips"
)

// Parse decodes a raw GEOID string, dispatching on its length to select the
// hierarchy level.
func Parse(raw string) (Geoid, error) {
	switch len(raw) {
	case 2:
		return ParseAs(StateType, raw)
	case 5:
		return ParseAs(CountyType, raw)
	case 7:
		return ParseAs(PlaceType, raw)
	case 10:
		return ParseAs(CountySubdivisionType, raw)
	case 11:
		return ParseAs(CensusTractType, raw)
	case 12:
		return ParseAs(BlockGroupType, raw)
	case 15, 16:
		return ParseAs(BlockType, raw)
	default:
		return nil, eris.Errorf("geoid: unsupported GEOID length %d: %q", len(raw), raw)
	}
}

// ParseAs decodes a raw GEOID string known to be at a given level, slicing it
// into its fixed-width components.
func ParseAs(t GeoidType, raw string) (Geoid, error) {
	switch t {
	case StateType:
		if len(raw) != 2 {
			return nil, eris.Errorf("geoid: state GEOID must be 2 digits, found %q", raw)
		}
		return FromColumns(t, []string{raw})
	case CountyType:
		if len(raw) != 5 {
			return nil, eris.Errorf("geoid: county GEOID must be 5 digits, found %q", raw)
		}
		return FromColumns(t, []string{raw[0:2], raw[2:5]})
	case CountySubdivisionType:
		if len(raw) != 10 {
			return nil, eris.Errorf("geoid: county subdivision GEOID must be 10 digits, found %q", raw)
		}
		return FromColumns(t, []string{raw[0:2], raw[2:5], raw[5:10]})
	case PlaceType:
		if len(raw) != 7 {
			return nil, eris.Errorf("geoid: place GEOID must be 7 digits, found %q", raw)
		}
		return FromColumns(t, []string{raw[0:2], raw[2:7]})
	case CensusTractType:
		if len(raw) != 11 {
			return nil, eris.Errorf("geoid: census tract GEOID must be 11 digits, found %q", raw)
		}
		return FromColumns(t, []string{raw[0:2], raw[2:5], raw[5:11]})
	case BlockGroupType:
		if len(raw) != 12 {
			return nil, eris.Errorf("geoid: block group GEOID must be 12 digits, found %q", raw)
		}
		return FromColumns(t, []string{raw[0:2], raw[2:5], raw[5:11], raw[11:12]})
	case BlockType:
		if len(raw) != 15 && len(raw) != 16 {
			return nil, eris.Errorf("geoid: block GEOID must be 15 or 16 digits, found %q with length %d", raw, len(raw))
		}
		return FromColumns(t, []string{raw[0:2], raw[2:5], raw[5:11], raw[11:]})
	default:
		return nil, eris.Errorf("geoid: cannot parse GEOID as type %s", t)
	}
}

// FromColumns builds a Geoid from the per-component string values of a level,
// ordered coarsest first. This is the decode path shared by raw-string parsing
// and attribute-API identifier columns.
func FromColumns(t GeoidType, vals []string) (Geoid, error) {
	switch t {
	case StateType:
		nums, err := asUints(t, vals, 1)
		if err != nil {
			return nil, err
		}
		return State{State: fips.State(nums[0])}, nil
	case CountyType:
		nums, err := asUints(t, vals, 2)
		if err != nil {
			return nil, err
		}
		return County{State: fips.State(nums[0]), County: fips.County(nums[1])}, nil
	case CountySubdivisionType:
		nums, err := asUints(t, vals, 3)
		if err != nil {
			return nil, err
		}
		return CountySubdivision{
			State:       fips.State(nums[0]),
			County:      fips.County(nums[1]),
			Subdivision: fips.CountySubdivision(nums[2]),
		}, nil
	case PlaceType:
		nums, err := asUints(t, vals, 2)
		if err != nil {
			return nil, err
		}
		return Place{State: fips.State(nums[0]), Place: fips.Place(nums[1])}, nil
	case CensusTractType:
		nums, err := asUints(t, vals, 3)
		if err != nil {
			return nil, err
		}
		return CensusTract{
			State:  fips.State(nums[0]),
			County: fips.County(nums[1]),
			Tract:  fips.CensusTract(nums[2]),
		}, nil
	case BlockGroupType:
		nums, err := asUints(t, vals, 4)
		if err != nil {
			return nil, err
		}
		return BlockGroup{
			State:  fips.State(nums[0]),
			County: fips.County(nums[1]),
			Tract:  fips.CensusTract(nums[2]),
			Group:  fips.BlockGroup(nums[3]),
		}, nil
	case BlockType:
		if len(vals) != 4 {
			return nil, eris.Errorf("geoid: block decode expects 4 columns, found %d", len(vals))
		}
		// first three columns are numeric; the block leaf keeps its raw form
		nums, err := asUints(t, vals[:3], 3)
		if err != nil {
			return nil, err
		}
		if !allDigits(vals[3]) {
			return nil, eris.Errorf("geoid: block value must be numeric, found %q", vals[3])
		}
		return Block{
			State:  fips.State(nums[0]),
			County: fips.County(nums[1]),
			Tract:  fips.CensusTract(nums[2]),
			Block:  fips.Block(vals[3]),
		}, nil
	default:
		return nil, eris.Errorf("geoid: cannot decode columns as type %s", t)
	}
}

// asUints parses component values as unsigned integers, enforcing the column
// count expected for the level.
func asUints(t GeoidType, vals []string, want int) ([]uint64, error) {
	if len(vals) != want {
		return nil, eris.Errorf("geoid: %s decode expects %d columns, found %d", t, want, len(vals))
	}
	out := make([]uint64, len(vals))
	for i, v := range vals {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "geoid: component %d of %s GEOID is not numeric (%q)", i, t, v)
		}
		out[i] = n
	}
	return out, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
