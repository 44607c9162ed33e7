// Package fips defines the fixed-width FIPS components that make up a GEOID.
// Each component renders as a zero-padded decimal string; a full GEOID is the
// concatenation of its components in hierarchy order.
package fips

import "fmt"

// State is a 2-digit state FIPS code.
type State uint64

// County is a 3-digit county FIPS code.
type County uint64

// CountySubdivision is a 5-digit county subdivision FIPS code.
type CountySubdivision uint64

// Place is a 5-digit place FIPS code.
type Place uint64

// CensusTract is a 6-digit census tract code.
type CensusTract uint64

// BlockGroup is a single-digit block group code.
type BlockGroup uint64

// Block is the trailing block code of a block GEOID. It is kept as a string
// because its first digit carries block-group semantics and its width varies
// (4 or 5 digits), so leading digits must survive round-trips.
type Block string

func (s State) String() string             { return fmt.Sprintf("%02d", uint64(s)) }
func (c County) String() string            { return fmt.Sprintf("%03d", uint64(c)) }
func (cs CountySubdivision) String() string { return fmt.Sprintf("%05d", uint64(cs)) }
func (p Place) String() string             { return fmt.Sprintf("%05d", uint64(p)) }
func (t CensusTract) String() string       { return fmt.Sprintf("%06d", uint64(t)) }
func (bg BlockGroup) String() string       { return fmt.Sprintf("%d", uint64(bg)) }
func (b Block) String() string             { return string(b) }
