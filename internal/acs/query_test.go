package acs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NREL/bamcensus/internal/fips"
	"github.com/NREL/bamcensus/internal/geoid"
)

func levelPtr(t geoid.GeoidType) *geoid.GeoidType { return &t }

func TestNewGeoidQuery_QueryKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		geoid    geoid.Geoid
		wildcard *geoid.GeoidType
		want     string
	}{
		{
			name:  "exact county",
			geoid: geoid.County{State: 8, County: 1},
			want:  "&for=county:001&in=state:08",
		},
		{
			name:     "state with county wildcard",
			geoid:    geoid.State{State: 8},
			wildcard: levelPtr(geoid.CountyType),
			want:     "&for=county:*&in=state:08",
		},
		{
			name:     "tract with county wildcard drops the implied clause",
			geoid:    geoid.CensusTract{State: 8, County: 1, Tract: 1},
			wildcard: levelPtr(geoid.CountyType),
			want:     "&for=tract:000001&in=state:08",
		},
		{
			name:     "wildcard-only states",
			wildcard: levelPtr(geoid.StateType),
			want:     "&for=state:*",
		},
		{
			name:     "wildcard-only counties",
			wildcard: levelPtr(geoid.CountyType),
			want:     "&for=county:*",
		},
		{
			name:     "wildcard-only places",
			wildcard: levelPtr(geoid.PlaceType),
			want:     "&for=place:*",
		},
		{
			name:  "exact state",
			geoid: geoid.State{State: 48},
			want:  "&for=state:48",
		},
		{
			name:     "county with state wildcard keeps only the county pin",
			geoid:    geoid.County{State: 8, County: 1},
			wildcard: levelPtr(geoid.StateType),
			want:     "&for=county:001",
		},
		{
			name:  "exact county subdivision",
			geoid: geoid.CountySubdivision{State: 48, County: 201, Subdivision: 90100},
			want:  "&for=county%20subdivision:90100&in=state:48&in=county:201",
		},
		{
			name:     "state with county subdivision wildcard",
			geoid:    geoid.State{State: 48},
			wildcard: levelPtr(geoid.CountySubdivisionType),
			want:     "&for=county%20subdivision:*&in=state:48&in=county:*",
		},
		{
			name:  "exact place",
			geoid: geoid.Place{State: 8, Place: 7850},
			want:  "&for=place:07850&in=state:08",
		},
		{
			name:     "place with state wildcard",
			geoid:    geoid.Place{State: 8, Place: 7850},
			wildcard: levelPtr(geoid.StateType),
			want:     "&for=place:07850&in=state:*",
		},
		{
			name:  "exact tract",
			geoid: geoid.CensusTract{State: 8, County: 59, Tract: 9838},
			want:  "&for=tract:009838&in=state:08&in=county:059",
		},
		{
			name:     "state with tract wildcard",
			geoid:    geoid.State{State: 8},
			wildcard: levelPtr(geoid.CensusTractType),
			want:     "&for=tract:*&in=state:08",
		},
		{
			name:  "exact block group",
			geoid: geoid.BlockGroup{State: 8, County: 1, Tract: 1, Group: 2},
			want:  "&for=block%20group:2&in=state:08&in=county:001&in=tract:000001",
		},
		{
			name:     "block group with county wildcard",
			geoid:    geoid.BlockGroup{State: 8, County: 1, Tract: 1, Group: 2},
			wildcard: levelPtr(geoid.CountyType),
			want:     "&for=block%20group:2&in=state:08&in=county:*&in=tract:000001",
		},
		{
			name:     "county with block group wildcard",
			geoid:    geoid.County{State: 8, County: 1},
			wildcard: levelPtr(geoid.BlockGroupType),
			want:     "&for=block%20group:*&in=state:08&in=county:001&in=tract:*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q, err := NewGeoidQuery(tt.geoid, tt.wildcard)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.QueryKey())
		})
	}
}

func TestNewGeoidQuery_Empty(t *testing.T) {
	t.Parallel()
	_, err := NewGeoidQuery(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestNewGeoidQuery_BlockLevel(t *testing.T) {
	t.Parallel()

	_, err := NewGeoidQuery(geoid.Block{State: 8, County: 1, Tract: 1, Block: "1001"}, nil)
	assert.ErrorIs(t, err, ErrBlockLevel)

	_, err = NewGeoidQuery(geoid.State{State: 8}, levelPtr(geoid.BlockType))
	assert.ErrorIs(t, err, ErrBlockLevel)

	_, err = NewGeoidQuery(nil, levelPtr(geoid.BlockType))
	assert.ErrorIs(t, err, ErrBlockLevel)
}

// TestNewGeoidQuery_CombinationGrid walks every identifier/wildcard pairing
// and checks it against the sanctioned set.
func TestNewGeoidQuery_CombinationGrid(t *testing.T) {
	t.Parallel()

	samples := map[geoid.GeoidType]geoid.Geoid{
		geoid.StateType:             geoid.State{State: 8},
		geoid.CountyType:            geoid.County{State: 8, County: 1},
		geoid.CountySubdivisionType: geoid.CountySubdivision{State: 8, County: 1, Subdivision: 90100},
		geoid.PlaceType:             geoid.Place{State: 8, Place: 7850},
		geoid.CensusTractType:       geoid.CensusTract{State: 8, County: 1, Tract: 1},
		geoid.BlockGroupType:        geoid.BlockGroup{State: 8, County: 1, Tract: 1, Group: 2},
	}
	levels := []geoid.GeoidType{
		geoid.StateType, geoid.CountyType, geoid.CountySubdivisionType,
		geoid.PlaceType, geoid.CensusTractType, geoid.BlockGroupType,
	}

	legal := map[comboKey]bool{
		{levelNone, geoid.StateType}:  true,
		{levelNone, geoid.CountyType}: true,
		{levelNone, geoid.PlaceType}:  true,

		{geoid.StateType, geoid.StateType}:             true,
		{geoid.StateType, geoid.CountyType}:            true,
		{geoid.StateType, geoid.CountySubdivisionType}: true,
		{geoid.StateType, geoid.PlaceType}:             true,
		{geoid.StateType, geoid.CensusTractType}:       true,

		{geoid.CountyType, geoid.StateType}:             true,
		{geoid.CountyType, geoid.CountyType}:            true,
		{geoid.CountyType, geoid.CountySubdivisionType}: true,
		{geoid.CountyType, geoid.CensusTractType}:       true,
		{geoid.CountyType, geoid.BlockGroupType}:        true,

		{geoid.CountySubdivisionType, geoid.StateType}:             true,
		{geoid.CountySubdivisionType, geoid.CountyType}:            true,
		{geoid.CountySubdivisionType, geoid.CountySubdivisionType}: true,

		{geoid.PlaceType, geoid.StateType}: true,
		{geoid.PlaceType, geoid.PlaceType}: true,

		{geoid.CensusTractType, geoid.CountyType}:      true,
		{geoid.CensusTractType, geoid.CensusTractType}: true,
		{geoid.CensusTractType, geoid.BlockGroupType}:  true,

		{geoid.BlockGroupType, geoid.CountyType}:      true,
		{geoid.BlockGroupType, geoid.CensusTractType}: true,
		{geoid.BlockGroupType, geoid.BlockGroupType}:  true,
	}

	// wildcard-only cells
	for _, w := range levels {
		_, err := NewGeoidQuery(nil, levelPtr(w))
		if legal[comboKey{levelNone, w}] {
			assert.NoError(t, err, "wildcard-only %s", w)
		} else {
			var combErr *WildcardCombinationError
			assert.ErrorAs(t, err, &combErr, "wildcard-only %s", w)
		}
	}

	for _, id := range levels {
		// exact query is always sanctioned
		q, err := NewGeoidQuery(samples[id], nil)
		require.NoError(t, err, "exact %s", id)
		assert.Equal(t, id, q.Level())

		for _, w := range levels {
			q, err := NewGeoidQuery(samples[id], levelPtr(w))
			if legal[comboKey{id, w}] {
				require.NoError(t, err, "%s with %s wildcard", id, w)
				// rows come back at the finer of the two levels
				want := id
				if w > want {
					want = w
				}
				assert.Equal(t, want, q.Level())
			} else {
				var combErr *WildcardCombinationError
				require.ErrorAs(t, err, &combErr, "%s with %s wildcard", id, w)
				assert.True(t, combErr.HasGeoid)
				assert.Equal(t, id, combErr.GeoidType)
				assert.Equal(t, w, combErr.Wildcard)
			}
		}
	}
}

func TestGeoidQuery_ResponseColumns(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"state"}, StateQuery{}.ResponseColumns())
	assert.Equal(t, []string{"state", "county"}, CountyQuery{}.ResponseColumns())
	assert.Equal(t, []string{"state", "county", "county subdivision"}, CountySubdivisionQuery{}.ResponseColumns())
	assert.Equal(t, []string{"state", "place"}, PlaceQuery{}.ResponseColumns())
	assert.Equal(t, []string{"state", "county", "tract"}, TractQuery{}.ResponseColumns())
	assert.Equal(t, []string{"state", "county", "tract", "block group"}, BlockGroupQuery{}.ResponseColumns())
}

func TestGeoidQuery_DecodeGeoid(t *testing.T) {
	t.Parallel()

	g, err := CountyQuery{}.DecodeGeoid([]string{"08", "213"})
	require.NoError(t, err)
	assert.Equal(t, geoid.County{State: 8, County: 213}, g)

	g, err = TractQuery{State: fips.State(8)}.DecodeGeoid([]string{"08", "059", "009838"})
	require.NoError(t, err)
	assert.Equal(t, geoid.CensusTract{State: 8, County: 59, Tract: 9838}, g)

	_, err = CountyQuery{}.DecodeGeoid([]string{"08"})
	assert.Error(t, err)
}
