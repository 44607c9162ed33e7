package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NREL/bamcensus/internal/acs"
	"github.com/NREL/bamcensus/internal/acstiger"
	"github.com/NREL/bamcensus/internal/geoid"
	"github.com/NREL/bamcensus/internal/tiger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch ACS data joined with TIGER/Line geometries",
	Long: `Runs the full pipeline: compiles one ACS query per geography, fetches the
attribute rows, optionally aggregates them to a target level, downloads the
TIGER/Line files covering the result, and joins attributes to geometries.

Geographies are given as GEOID strings (e.g. 08 for Colorado, 08031 for
Denver County). A wildcard level expands each geography to all of its
descendants at that level.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L().With(zap.String("command", "run"))

		year, _ := cmd.Flags().GetUint64("year")
		getStr, _ := cmd.Flags().GetString("get")
		geoidStrs, _ := cmd.Flags().GetStringSlice("geoid")
		wildcardStr, _ := cmd.Flags().GetString("wildcard")
		datasetStr, _ := cmd.Flags().GetString("dataset")
		targetStr, _ := cmd.Flags().GetString("target")
		aggStr, _ := cmd.Flags().GetString("agg")
		output, _ := cmd.Flags().GetString("output")

		get := splitAndTrim(getStr)
		if len(get) == 0 {
			return eris.New("run: --get needs at least one ACS variable")
		}

		if datasetStr == "" {
			datasetStr = cfg.ACS.Dataset
		}
		dataset, err := acs.ParseDataset(datasetStr)
		if err != nil {
			return err
		}

		var wildcard *geoid.GeoidType
		if wildcardStr != "" {
			lvl, err := geoid.ParseGeoidType(wildcardStr)
			if err != nil {
				return err
			}
			wildcard = &lvl
		}

		params, err := buildParams(year, dataset, get, geoidStrs, wildcard)
		if err != nil {
			return err
		}

		opts := acstiger.Options{}
		if targetStr != "" {
			lvl, err := geoid.ParseGeoidType(targetStr)
			if err != nil {
				return err
			}
			opts.TargetLevel = &lvl
		}
		if aggStr != "" {
			agg, err := acs.ParseAggregation(aggStr)
			if err != nil {
				return err
			}
			opts.Aggregation = agg
		}

		log.Info("starting pipeline",
			zap.Uint64("year", year),
			zap.String("dataset", dataset.String()),
			zap.Strings("get", get),
			zap.Int("queries", len(params)),
		)

		runner := acstiger.NewRunner(
			acs.NewClient(
				acs.WithRateLimit(cfg.ACS.RateLimit),
				acs.WithConcurrency(cfg.ACS.Concurrency),
			),
			tiger.NewClient(
				tiger.WithBaseURL(cfg.Tiger.BaseURL),
				tiger.WithCacheDir(cfg.Tiger.CacheDir),
				tiger.WithRateLimit(cfg.Tiger.RateLimit),
				tiger.WithConcurrency(cfg.Tiger.Concurrency),
			),
		)

		resp, err := runner.Run(ctx, params, opts)
		if err != nil {
			return eris.Wrap(err, "run")
		}

		if err := writeRows(output, resp.Rows); err != nil {
			return err
		}

		for _, e := range resp.TigerErrors {
			log.Warn("geometry fetch failure", zap.Error(e))
		}
		for _, e := range resp.JoinErrors {
			log.Warn("join failure", zap.Error(e))
		}
		fmt.Printf("wrote %d rows (%d geometry errors, %d join errors)\n",
			len(resp.Rows), len(resp.TigerErrors), len(resp.JoinErrors))
		return nil
	},
}

// buildParams compiles one query per geography, or a single wildcard-only
// query when no geographies are given.
func buildParams(year uint64, dataset acs.Dataset, get, geoidStrs []string, wildcard *geoid.GeoidType) ([]acs.QueryParams, error) {
	newParams := func(q acs.GeoidQuery) acs.QueryParams {
		return acs.QueryParams{
			BaseURL: cfg.ACS.BaseURL,
			Year:    year,
			Dataset: dataset,
			Get:     get,
			Query:   q,
			APIKey:  cfg.ACS.APIKey,
		}
	}

	if len(geoidStrs) == 0 {
		q, err := acs.NewGeoidQuery(nil, wildcard)
		if err != nil {
			return nil, err
		}
		return []acs.QueryParams{newParams(q)}, nil
	}

	params := make([]acs.QueryParams, 0, len(geoidStrs))
	for _, raw := range geoidStrs {
		g, err := geoid.Parse(raw)
		if err != nil {
			return nil, err
		}
		q, err := acs.NewGeoidQuery(g, wildcard)
		if err != nil {
			return nil, err
		}
		params = append(params, newParams(q))
	}
	return params, nil
}

// writeRows writes output rows as CSV to a file, or stdout when path is "-"
// or empty.
func writeRows(path string, rows []acstiger.OutputRow) error {
	out := os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "run: create %s", path)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"geoid", "name", "value", "geometry"}); err != nil {
		return eris.Wrap(err, "run: write header")
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Geoid, row.Name, row.Value, row.Geometry}); err != nil {
			return eris.Wrap(err, "run: write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "run: flush output")
}

// splitAndTrim splits a comma-separated flag value, dropping empties.
func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	runCmd.Flags().Uint64("year", 2020, "ACS and TIGER/Line vintage year")
	runCmd.Flags().String("get", "", "comma-separated ACS variable names (e.g. B01001_001E)")
	runCmd.Flags().StringSlice("geoid", nil, "GEOID strings scoping the queries (repeatable)")
	runCmd.Flags().String("wildcard", "", "expand each geography to all descendants at this level")
	runCmd.Flags().String("dataset", "", "acs1 or acs5 (default: from config)")
	runCmd.Flags().String("target", "", "aggregate results up to this level")
	runCmd.Flags().String("agg", "sum", "aggregation function: sum or mean")
	runCmd.Flags().String("output", "-", "output CSV path, - for stdout")
	rootCmd.AddCommand(runCmd)
}
