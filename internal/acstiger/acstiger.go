// Package acstiger runs the full pipeline: fetch ACS attribute rows, roll
// them up if asked, fetch the TIGER/Line geometries covering them, and join
// the two into output rows.
package acstiger

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/NREL/bamcensus/internal/acs"
	"github.com/NREL/bamcensus/internal/geoid"
	"github.com/NREL/bamcensus/internal/join"
	"github.com/NREL/bamcensus/internal/tiger"
)

// Options shape one pipeline run beyond the queries themselves.
type Options struct {
	// TargetLevel, when set, rolls ACS rows up to this level before the
	// geometry fetch.
	TargetLevel *geoid.GeoidType
	// Aggregation collapses grouped values during roll-up. Ignored when
	// TargetLevel is nil.
	Aggregation acs.Aggregation
}

// OutputRow is one attribute observation with its geometry, flattened for
// writing.
type OutputRow struct {
	Geoid    string
	Name     string
	Value    string
	Geometry string
}

// Response carries the joined rows plus the failures the pipeline absorbed
// along the way.
type Response struct {
	Rows        []OutputRow
	TigerErrors []error
	JoinErrors  []error
}

// Runner wires the ACS and TIGER clients into one pipeline.
type Runner struct {
	acs   acs.Client
	tiger tiger.Client
	log   *zap.Logger
}

// NewRunner creates a pipeline runner over the given clients.
func NewRunner(acsClient acs.Client, tigerClient tiger.Client) *Runner {
	return &Runner{
		acs:   acsClient,
		tiger: tigerClient,
		log:   zap.L().With(zap.String("component", "acstiger")),
	}
}

// Run executes the pipeline for a batch of queries. Every query must target
// the same vintage year, since attribute rows and geometry files have to
// come from matching delineations. ACS failures abort the run; geometry and
// join failures ride along in the response.
func (r *Runner) Run(ctx context.Context, params []acs.QueryParams, opts Options) (*Response, error) {
	if len(params) == 0 {
		return nil, eris.New("acstiger: no queries to run")
	}
	year := params[0].Year
	for _, p := range params[1:] {
		if p.Year != year {
			return nil, eris.Errorf("acstiger: mixed vintage years %d and %d in one run", year, p.Year)
		}
	}

	acsResult := r.acs.FetchBatch(ctx, params)
	if len(acsResult.Errors) > 0 {
		return nil, eris.Wrapf(errors.Join(acsResult.Errors...),
			"acstiger: %d of %d queries failed", len(acsResult.Errors), len(params))
	}
	rows := acsResult.Rows

	if opts.TargetLevel != nil {
		var err error
		rows, err = acs.Aggregate(rows, *opts.TargetLevel, opts.Aggregation)
		if err != nil {
			return nil, eris.Wrap(err, "acstiger: aggregate")
		}
	}

	geoids := distinctGeoids(rows)
	r.log.Info("fetching geometries",
		zap.Uint64("year", year),
		zap.Int("identifiers", len(geoids)))
	tigerResult := r.tiger.FetchGeometries(ctx, year, geoids)

	items := make([]join.Item[acs.Value], 0, len(rows))
	for _, row := range rows {
		items = append(items, join.Item[acs.Value]{Geoid: row.Geoid, Values: row.Values})
	}
	joined := join.Join(items, tigerResult.Rows)

	resp := &Response{
		TigerErrors: tigerResult.Errors,
		JoinErrors:  joined.Errors,
	}
	for _, row := range joined.Rows {
		wktGeom, err := tiger.MarshalWKT(row.Geometry)
		if err != nil {
			resp.JoinErrors = append(resp.JoinErrors, eris.Wrapf(err, "acstiger: encode geometry for %s", geoid.Label(row.Geoid)))
			continue
		}
		for _, v := range row.Values {
			resp.Rows = append(resp.Rows, OutputRow{
				Geoid:    row.Geoid.String(),
				Name:     v.Name,
				Value:    v.Raw,
				Geometry: wktGeom,
			})
		}
	}

	r.log.Info("pipeline complete",
		zap.Int("rows", len(resp.Rows)),
		zap.Int("tiger_errors", len(resp.TigerErrors)),
		zap.Int("join_errors", len(resp.JoinErrors)))
	return resp, nil
}

// distinctGeoids keeps first-appearance order.
func distinctGeoids(rows []acs.Row) []geoid.Geoid {
	seen := make(map[geoid.Geoid]bool, len(rows))
	out := make([]geoid.Geoid, 0, len(rows))
	for _, row := range rows {
		if seen[row.Geoid] {
			continue
		}
		seen[row.Geoid] = true
		out = append(out, row.Geoid)
	}
	return out
}
