package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/domain"
)

func TestLoad(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	names := catalog.Names()
	assert.Contains(t, names, "active_users")
	assert.Contains(t, names, "revenue")
	assert.Contains(t, names, "error_rate")
	assert.IsIncreasing(t, names)
}

func TestGet(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	m, err := catalog.Get("revenue")
	require.NoError(t, err)
	assert.Equal(t, "usd", m.Unit)
	assert.NotEmpty(t, m.Points)

	var notFound *domain.NotFoundError
	_, err = catalog.Get("nope")
	require.ErrorAs(t, err, &notFound)
}

func TestMetricTable(t *testing.T) {
	m := Metric{
		Name: "active_users",
		Points: []Point{
			{Label: "mon", Value: 1240},
			{Label: "tue", Value: 1312},
		},
	}

	table := m.Table()
	assert.Equal(t, []string{"label", "value"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "mon", table.Rows[0]["label"])
	assert.Equal(t, 1240.0, table.Rows[0]["value"])
}

func TestParse_Invalid(t *testing.T) {
	_, err := parse([]byte("metrics: [{name: a}, {name: a}]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = parse([]byte("metrics: [{description: unnamed}]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a name")

	_, err = parse([]byte("{{nope"))
	require.Error(t, err)
}
