// Package join matches attribute rows to geometries by geographic
// identifier.
package join

import (
	"fmt"

	"github.com/twpayne/go-geom"

	"github.com/NREL/bamcensus/internal/geoid"
	"github.com/NREL/bamcensus/internal/tiger"
)

// Item pairs an identifier with the values awaiting geometry.
type Item[V any] struct {
	Geoid  geoid.Geoid
	Values []V
}

// Row is a joined item.
type Row[V any] struct {
	Geoid    geoid.Geoid
	Values   []V
	Geometry geom.T
}

// MissError reports an item whose identifier has no geometry in the index,
// naming how many values went unmatched with it.
type MissError struct {
	Geoid      geoid.Geoid
	ValueCount int
}

func (e *MissError) Error() string {
	return fmt.Sprintf("join: no geometry found for %s, has %d values", geoid.Label(e.Geoid), e.ValueCount)
}

// Result partitions a join into matched rows and per-item misses. Every
// input item lands in exactly one of the two.
type Result[V any] struct {
	Rows   []Row[V]
	Errors []error
}

// Join hash-joins items against geometries by identifier. When one
// identifier carries several geometries the last one wins. A miss is
// recorded per item, never aborting the batch.
func Join[V any](items []Item[V], geometries []tiger.GeometryRow) Result[V] {
	index := make(map[geoid.Geoid]geom.T, len(geometries))
	for _, row := range geometries {
		index[row.Geoid] = row.Geometry
	}

	result := Result[V]{Rows: make([]Row[V], 0, len(items))}
	for _, item := range items {
		g, ok := index[item.Geoid]
		if !ok {
			result.Errors = append(result.Errors, &MissError{Geoid: item.Geoid, ValueCount: len(item.Values)})
			continue
		}
		result.Rows = append(result.Rows, Row[V]{
			Geoid:    item.Geoid,
			Values:   item.Values,
			Geometry: g,
		})
	}
	return result
}
