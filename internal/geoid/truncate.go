package geoid

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/NREL/bamcensus/internal/fips"
)

// IncompatibleLevelError reports a truncation request whose target is not the
// source's own level or one of its ancestors.
type IncompatibleLevelError struct {
	From GeoidType
	To   GeoidType
}

func (e *IncompatibleLevelError) Error() string {
	return "geoid: " + e.To.String() + " is not a parent type of " + e.From.String() + ", cannot truncate"
}

// Truncate drops trailing components of g to reach the target level. The
// target must be g's own level or an ancestor of it.
//
// Block to BlockGroup is the one non-structural case: block groups are named
// by the first digit of the block code, so the group component is derived
// from that digit rather than dropped.
func Truncate(g Geoid, target GeoidType) (Geoid, error) {
	if g.Type() == target {
		return g, nil
	}
	switch v := g.(type) {
	case State:
		// no ancestors
	case County:
		if target == StateType {
			return State{State: v.State}, nil
		}
	case CountySubdivision:
		switch target {
		case StateType:
			return State{State: v.State}, nil
		case CountyType:
			return County{State: v.State, County: v.County}, nil
		}
	case Place:
		if target == StateType {
			return State{State: v.State}, nil
		}
	case CensusTract:
		switch target {
		case StateType:
			return State{State: v.State}, nil
		case CountyType:
			return County{State: v.State, County: v.County}, nil
		}
	case BlockGroup:
		switch target {
		case StateType:
			return State{State: v.State}, nil
		case CountyType:
			return County{State: v.State, County: v.County}, nil
		case CensusTractType:
			return CensusTract{State: v.State, County: v.County, Tract: v.Tract}, nil
		}
	case Block:
		switch target {
		case StateType:
			return State{State: v.State}, nil
		case CountyType:
			return County{State: v.State, County: v.County}, nil
		case CensusTractType:
			return CensusTract{State: v.State, County: v.County, Tract: v.Tract}, nil
		case BlockGroupType:
			if len(v.Block) == 0 {
				return nil, eris.New("geoid: empty block value, cannot derive block group")
			}
			group, err := strconv.ParseUint(string(v.Block[0:1]), 10, 64)
			if err != nil {
				return nil, eris.Wrap(err, "geoid: cannot read first digit of block as integer")
			}
			return BlockGroup{
				State:  v.State,
				County: v.County,
				Tract:  v.Tract,
				Group:  fips.BlockGroup(group),
			}, nil
		}
	}
	return nil, &IncompatibleLevelError{From: g.Type(), To: target}
}

// Parent returns the identifier one hierarchy step above g, or false at the
// root.
//
// A block's parent is its census tract, not its block group: Census guidance
// does not promise that every block group is the first digit of its blocks.
func Parent(g Geoid) (Geoid, bool) {
	switch v := g.(type) {
	case State:
		return nil, false
	case County:
		return State{State: v.State}, true
	case CountySubdivision:
		return County{State: v.State, County: v.County}, true
	case Place:
		return State{State: v.State}, true
	case CensusTract:
		return County{State: v.State, County: v.County}, true
	case BlockGroup:
		return CensusTract{State: v.State, County: v.County, Tract: v.Tract}, true
	case Block:
		return CensusTract{State: v.State, County: v.County, Tract: v.Tract}, true
	default:
		return nil, false
	}
}

// IsParentOf reports whether a addresses an area containing b: truncating b
// to a's level must reproduce a. It is defined for all pairs, false for
// unrelated ones, and true when a equals b.
func IsParentOf(a, b Geoid) bool {
	truncated, err := Truncate(b, a.Type())
	if err != nil {
		return false
	}
	return truncated == a
}
