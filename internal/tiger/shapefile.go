package tiger

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/NREL/bamcensus/internal/geoid"
)

// geoidColumns is the identifier column lookup order. TIGER/Line renames the
// column per census vintage, so the unsuffixed name wins when present.
var geoidColumns = []string{"GEOID", "GEOID20", "GEOID10"}

// GeometryRow pairs one decoded identifier with its geometry.
type GeometryRow struct {
	Geoid    geoid.Geoid
	Geometry geom.T
}

// ReadShapefile decodes a TIGER/Line shapefile into geometry rows at the
// given identifier level. Records with no usable geometry are skipped and
// counted, not fatal.
func ReadShapefile(shpPath string, level geoid.GeoidType) ([]GeometryRow, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "tiger: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToUpper(name)] = i
	}

	geoidIdx := -1
	for _, col := range geoidColumns {
		if idx, ok := fieldIdx[col]; ok {
			geoidIdx = idx
			break
		}
	}
	if geoidIdx < 0 {
		return nil, eris.Errorf("tiger: shapefile %s has no identifier column, looked for %s",
			shpPath, strings.Join(geoidColumns, ", "))
	}

	var rows []GeometryRow
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		raw := strings.TrimSpace(strings.TrimRight(reader.Attribute(geoidIdx), "\x00"))
		g, err := geoid.ParseAs(level, raw)
		if err != nil {
			return nil, eris.Wrapf(err, "tiger: decode identifier %q in %s", raw, shpPath)
		}

		geometry := shapeToGeometry(shape)
		if geometry == nil {
			skipped++
			continue
		}
		rows = append(rows, GeometryRow{Geoid: g, Geometry: geometry})
	}

	if skipped > 0 {
		zap.L().Debug("tiger: skipped shapefile records without geometry",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	return rows, nil
}
