package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NREL/bamcensus/internal/acs"
	"github.com/NREL/bamcensus/internal/acstiger"
	"github.com/NREL/bamcensus/internal/config"
	"github.com/NREL/bamcensus/internal/geoid"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.ACS.BaseURL = "https://api.census.gov/data"
	c.ACS.APIKey = "test-key"
	c.ACS.Dataset = "acs5"
	return c
}

func TestBuildParams(t *testing.T) {
	cfg = testConfig()

	params, err := buildParams(2020, acs.Acs5, []string{"B01001_001E"}, []string{"08031", "48201"}, nil)
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, uint64(2020), params[0].Year)
	assert.Equal(t, "test-key", params[0].APIKey)
	assert.Equal(t, "&for=county:031&in=state:08", params[0].Query.QueryKey())
	assert.Equal(t, "&for=county:201&in=state:48", params[1].Query.QueryKey())
}

func TestBuildParams_Wildcard(t *testing.T) {
	cfg = testConfig()

	lvl := geoid.CountyType
	params, err := buildParams(2020, acs.Acs5, []string{"B01001_001E"}, []string{"08"}, &lvl)
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "&for=county:*&in=state:08", params[0].Query.QueryKey())
}

func TestBuildParams_WildcardOnly(t *testing.T) {
	cfg = testConfig()

	lvl := geoid.StateType
	params, err := buildParams(2020, acs.Acs5, []string{"B01001_001E"}, nil, &lvl)
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "&for=state:*", params[0].Query.QueryKey())
}

func TestBuildParams_Errors(t *testing.T) {
	cfg = testConfig()

	_, err := buildParams(2020, acs.Acs5, []string{"B01001_001E"}, []string{"bad"}, nil)
	assert.Error(t, err)

	// no geography and no wildcard is an empty query
	_, err = buildParams(2020, acs.Acs5, []string{"B01001_001E"}, nil, nil)
	assert.ErrorIs(t, err, acs.ErrEmptyQuery)
}

func TestWriteRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	rows := []acstiger.OutputRow{
		{Geoid: "08213", Name: "B01001_001E", Value: "54841", Geometry: "POINT (-105.1 40)"},
	}

	require.NoError(t, writeRows(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "geoid,name,value,geometry", lines[0])
	assert.Contains(t, lines[1], "08213")
	assert.Contains(t, lines[1], "POINT (-105.1 40)")
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim("a, b"))
	assert.Equal(t, []string{"a"}, splitAndTrim("a,,"))
	assert.Nil(t, splitAndTrim(""))
}
