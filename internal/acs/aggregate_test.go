package acs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NREL/bamcensus/internal/geoid"
)

func TestAggregate_SumToState(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{Geoid: geoid.County{State: 8, County: 213}, Values: []Value{{Name: "B01001_001E", Raw: "54841"}}},
		{Geoid: geoid.County{State: 8, County: 215}, Values: []Value{{Name: "B01001_001E", Raw: "55514"}}},
	}

	out, err := Aggregate(rows, geoid.StateType, Sum)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, geoid.State{State: 8}, out[0].Geoid)
	require.Len(t, out[0].Values, 1)
	assert.Equal(t, "B01001_001E", out[0].Values[0].Name)
	assert.Equal(t, "110355", out[0].Values[0].Raw)
}

func TestAggregate_Mean(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{Geoid: geoid.CensusTract{State: 8, County: 1, Tract: 1}, Values: []Value{{Name: "B19013_001E", Raw: "100"}}},
		{Geoid: geoid.CensusTract{State: 8, County: 1, Tract: 2}, Values: []Value{{Name: "B19013_001E", Raw: "50"}}},
	}

	out, err := Aggregate(rows, geoid.CountyType, Mean)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, geoid.County{State: 8, County: 1}, out[0].Geoid)
	assert.Equal(t, "75", out[0].Values[0].Raw)
}

func TestAggregate_NativeLevelPassesThrough(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{Geoid: geoid.County{State: 8, County: 213}, Values: []Value{{Name: "NAME", Raw: "not a number"}}},
	}

	// fast path returns the input untouched, numeric or not
	out, err := Aggregate(rows, geoid.CountyType, Sum)
	require.NoError(t, err)
	assert.Equal(t, rows, out)
}

func TestAggregate_MultipleGroups(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{Geoid: geoid.County{State: 8, County: 1}, Values: []Value{{Name: "x", Raw: "1"}}},
		{Geoid: geoid.County{State: 8, County: 2}, Values: []Value{{Name: "x", Raw: "2"}}},
		{Geoid: geoid.County{State: 48, County: 1}, Values: []Value{{Name: "x", Raw: "10"}}},
	}

	out, err := Aggregate(rows, geoid.StateType, Sum)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, geoid.State{State: 8}, out[0].Geoid)
	assert.Equal(t, "3", out[0].Values[0].Raw)
	assert.Equal(t, geoid.State{State: 48}, out[1].Geoid)
	assert.Equal(t, "10", out[1].Values[0].Raw)
}

func TestAggregate_NonNumeric(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{Geoid: geoid.County{State: 8, County: 213}, Values: []Value{{Name: "NAME", Raw: "Boulder"}}},
	}

	_, err := Aggregate(rows, geoid.StateType, Sum)
	var nonNumeric *NonNumericAggregationError
	require.ErrorAs(t, err, &nonNumeric)
	assert.Equal(t, "NAME", nonNumeric.Column)
}

func TestAggregate_TruncationFailures(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{Geoid: geoid.State{State: 8}, Values: []Value{{Name: "x", Raw: "1"}}},
		{Geoid: geoid.State{State: 48}, Values: []Value{{Name: "x", Raw: "2"}}},
	}

	// states cannot roll up to counties
	_, err := Aggregate(rows, geoid.CountyType, Sum)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to truncate")
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	out, err := Aggregate(nil, geoid.StateType, Sum)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestParseAggregation(t *testing.T) {
	t.Parallel()

	a, err := ParseAggregation("sum")
	require.NoError(t, err)
	assert.Equal(t, Sum, a)

	a, err = ParseAggregation("AVG")
	require.NoError(t, err)
	assert.Equal(t, Mean, a)

	_, err = ParseAggregation("median")
	assert.Error(t, err)
}
