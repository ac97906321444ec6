package maps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var koreaOrder = []string{
	"North Pyongan", "South Pyongan", "North Hamgyong", "South Hamgyong", "Hwanghae",
	"Gangwon", "Gyeonggi", "South Gyeongsang", "North Gyeongsang", "South Jeolla",
	"North Jeolla", "North Chungcheong", "South Chungcheong", "Jeju",
}

func TestLoad_Korea(t *testing.T) {
	m, err := Load("korea.json")
	require.NoError(t, err)

	assert.Equal(t, DefaultMapID, m.ID)
	assert.Equal(t, koreaOrder, m.RegionNames())
	assert.Equal(t, koreaOrder, m.Graph().Regions())
	assert.Len(t, m.Factions, 13)
	assert.Equal(t, "Gyeonggi", m.DefaultStart)

	assert.Equal(t, []string{"South Pyongan", "Gangwon"}, m.Graph().Neighbors("Hwanghae"))
	assert.Equal(t, []string{"South Jeolla"}, m.Graph().Neighbors("Jeju"))
	assert.Equal(t, "제주도", m.GetRegion("Jeju").LocalName)

	assert.Empty(t, m.Asymmetries())
	assert.Len(t, m.Components(), 1)
}

func TestLoadAll_Registers(t *testing.T) {
	require.NoError(t, LoadAll())

	require.NotNil(t, Get(DefaultMapID))
	infos := List()
	require.NotEmpty(t, infos)
	assert.Equal(t, DefaultMapID, infos[0].ID)
	assert.Equal(t, 14, infos[0].RegionCount)
}

func TestLoadFromJSON_Validation(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"missing id", `{"name":"x","regions":[{"name":"a"}],"factions":["f"]}`},
		{"no regions", `{"id":"x","name":"x","factions":["f"]}`},
		{"no factions", `{"id":"x","name":"x","regions":[{"name":"a"}]}`},
		{"duplicate region", `{"id":"x","name":"x","regions":[{"name":"a"},{"name":"a"}],"factions":["f"]}`},
		{"unknown neighbor", `{"id":"x","name":"x","regions":[{"name":"a","adjacent":["b"]}],"factions":["f"]}`},
		{"self loop", `{"id":"x","name":"x","regions":[{"name":"a","adjacent":["a"]}],"factions":["f"]}`},
		{"bad default start", `{"id":"x","name":"x","defaultStart":"z","regions":[{"name":"a"}],"factions":["f"]}`},
		{"malformed", `{"id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromJSON([]byte(tt.json))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromJSON_OneWayAdjacencyAllowed(t *testing.T) {
	m, err := LoadFromJSON([]byte(`{
		"id": "oneway", "name": "One Way",
		"regions": [{"name": "a", "adjacent": ["b"]}, {"name": "b"}, {"name": "c"}],
		"factions": ["f"]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "a", m.DefaultStart)
	assert.Equal(t, [][2]string{{"a", "b"}}, m.Asymmetries())
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, m.Components())
	assert.Contains(t, m.Debug(), "a -> b")
}

func TestResolve(t *testing.T) {
	m, err := Load("korea.json")
	require.NoError(t, err)

	for _, input := range []string{"South Jeolla", "south-jeolla", "  SOUTH jeolla ", "전라남도"} {
		name, ok := m.Resolve(input)
		assert.True(t, ok, input)
		assert.Equal(t, "South Jeolla", name, input)
	}

	_, ok := m.Resolve("Kyushu")
	assert.False(t, ok)
}

func TestPrintAdjacencyMatrix(t *testing.T) {
	m, err := Load("korea.json")
	require.NoError(t, err)

	matrix := m.PrintAdjacencyMatrix()
	assert.Contains(t, matrix, "Adjacency Matrix:")
	assert.Contains(t, m.Debug(), "Jeju (제주도)")
}
