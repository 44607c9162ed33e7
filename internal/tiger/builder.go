// Package tiger locates and fetches Census TIGER/Line shapefiles, decoding
// geometries keyed by geographic identifier.
package tiger

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/NREL/bamcensus/internal/geoid"
)

// DefaultBaseURL is the root of the Census Bureau's TIGER/Line file tree.
const DefaultBaseURL = "https://www2.census.gov/geo/tiger"

// Resource is one TIGER/Line ZIP file: where it lives, the identifier level
// of the rows inside it, and the geography the file covers. A nil FileScope
// means a single national file.
type Resource struct {
	URI       string
	GeoidType geoid.GeoidType
	FileScope *geoid.GeoidType
}

// era distinguishes the three TIGER/Line naming conventions.
type era int

const (
	// era2010 is the 2010 decennial layout with per-county files for the
	// finer levels and a "10" suffix on every layer name.
	era2010 era = iota
	// era2011 covers 2011 through 2019: national state and county files,
	// per-state files below, block layers still named for the 2010 census.
	era2011
	// era2020 covers 2020 onward: same layout as era2011 with the block
	// layers renamed for the 2020 census.
	era2020
)

// Builder maps identifiers to the TIGER/Line resources covering them for one
// vintage year.
type Builder struct {
	year    uint64
	baseURL string
	era     era
}

// NewBuilder creates a resource builder for the given TIGER/Line vintage.
// Years before 2010 use a layout this builder does not speak.
func NewBuilder(year uint64) (*Builder, error) {
	return NewBuilderWithBase(year, DefaultBaseURL)
}

// NewBuilderWithBase is NewBuilder with a non-default file tree root, for
// mirrors and tests.
func NewBuilderWithBase(year uint64, baseURL string) (*Builder, error) {
	b := &Builder{year: year, baseURL: baseURL}
	switch {
	case year < 2010:
		return nil, eris.Errorf("tiger: unsupported year %d, TIGER/Line coverage starts at 2010", year)
	case year == 2010:
		b.era = era2010
	case year < 2020:
		b.era = era2011
	default:
		b.era = era2020
	}
	return b, nil
}

// Year is the vintage this builder resolves against.
func (b *Builder) Year() uint64 { return b.year }

func scopePtr(t geoid.GeoidType) *geoid.GeoidType { return &t }

// scope is the geography one file covers for the given row level, nil for
// national files.
func (b *Builder) scope(t geoid.GeoidType) *geoid.GeoidType {
	switch b.era {
	case era2010:
		switch t {
		case geoid.CensusTractType, geoid.BlockGroupType, geoid.BlockType:
			return scopePtr(geoid.CountyType)
		default:
			return scopePtr(geoid.StateType)
		}
	default:
		switch t {
		case geoid.StateType, geoid.CountyType:
			return nil
		default:
			return scopePtr(geoid.StateType)
		}
	}
}

// layer names the directory and filename stem for a row level in the
// current era.
func (b *Builder) layer(t geoid.GeoidType) (dir, stem string, err error) {
	switch t {
	case geoid.StateType:
		return "STATE", "state", nil
	case geoid.CountyType:
		return "COUNTY", "county", nil
	case geoid.CountySubdivisionType:
		return "COUSUB", "cousub", nil
	case geoid.PlaceType:
		return "PLACE", "place", nil
	case geoid.CensusTractType:
		return "TRACT", "tract", nil
	case geoid.BlockGroupType:
		return "BG", "bg", nil
	case geoid.BlockType:
		switch b.era {
		case era2020:
			return "TABBLOCK20", "tabblock20", nil
		case era2011:
			// post-2010 vintages keep shipping blocks under the 2010
			// census delineation
			return "TABBLOCK", "tabblock10", nil
		default:
			return "TABBLOCK", "tabblock", nil
		}
	default:
		return "", "", eris.Errorf("tiger: no shapefile layer for level %s", t)
	}
}

// Resource resolves the single TIGER/Line file covering one identifier at
// its own level.
func (b *Builder) Resource(g geoid.Geoid) (Resource, error) {
	t := g.Type()
	dir, stem, err := b.layer(t)
	if err != nil {
		return Resource{}, err
	}

	res := Resource{GeoidType: t, FileScope: b.scope(t)}

	var filename string
	switch b.era {
	case era2010:
		nameScope := *res.FileScope
		if t == geoid.CountySubdivisionType {
			// the 2010 server names cousub files by state+county while the
			// coverage scope stays state
			nameScope = geoid.CountyType
		}
		scoped, err := geoid.Truncate(g, nameScope)
		if err != nil {
			return Resource{}, eris.Wrap(err, "tiger: scope identifier")
		}
		filename = fmt.Sprintf("%s/2010/tl_2010_%s_%s10.zip", dir, scoped.String(), stem)
	default:
		if res.FileScope == nil {
			filename = fmt.Sprintf("%s/tl_%d_us_%s.zip", dir, b.year, stem)
		} else {
			scoped, err := geoid.Truncate(g, *res.FileScope)
			if err != nil {
				return Resource{}, eris.Wrap(err, "tiger: scope identifier")
			}
			filename = fmt.Sprintf("%s/tl_%d_%s_%s.zip", dir, b.year, scoped.String(), stem)
		}
	}

	res.URI = fmt.Sprintf("%s/TIGER%d/%s", b.baseURL, b.year, filename)
	return res, nil
}

// Resources resolves the minimal set of files covering a batch of
// identifiers. Identifiers sharing a file collapse to one resource.
func (b *Builder) Resources(geoids []geoid.Geoid) ([]Resource, error) {
	seen := make(map[string]bool)
	out := make([]Resource, 0, len(geoids))
	for _, g := range geoids {
		res, err := b.Resource(g)
		if err != nil {
			return nil, err
		}
		if seen[res.URI] {
			continue
		}
		seen[res.URI] = true
		out = append(out, res)
	}
	return out, nil
}
