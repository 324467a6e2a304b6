package profiling

import (
	"math"
	"testing"

	"catalogclean/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeDistribution(t *testing.T) {
	da := NewDistributionAnalyzer()

	summary, err := da.AnalyzeDistribution([]float64{1, 2, 3, 4, 100})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Count)
	assert.InDelta(t, 22.0, summary.Mean, 1e-9)
	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 100.0, summary.Max)
	assert.Equal(t, 3.0, summary.Median)
	assert.Equal(t, 1, summary.Outliers)
	assert.Greater(t, summary.Skewness, 0.0, "long right tail")
	assert.True(t, summary.JarqueBeraP >= 0 && summary.JarqueBeraP <= 1)
}

func TestAnalyzeDistribution_SmallSamples(t *testing.T) {
	da := NewDistributionAnalyzer()

	summary, err := da.AnalyzeDistribution([]float64{5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, summary.Median)
	assert.True(t, math.IsNaN(summary.JarqueBeraP))

	_, err = da.AnalyzeDistribution(nil)
	assert.Error(t, err)
}

func TestProfileTable(t *testing.T) {
	tbl, err := table.New([]table.Column{
		{Name: "title", Type: table.ColumnText},
		{Name: "release_year", Type: table.ColumnInteger},
		{Name: "score", Type: table.ColumnFloat},
	})
	require.NoError(t, err)
	require.NoError(t, tbl.Append(table.Row{table.Text("a"), table.Number(2019), table.Missing()}))
	require.NoError(t, tbl.Append(table.Row{table.Text("b"), table.Number(2021), table.Missing()}))

	profiles, err := NewTableProfiler().ProfileTable(tbl)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "release_year", profiles[0].Column)
	assert.Equal(t, 2020.0, profiles[0].Summary.Median)
	assert.False(t, profiles[0].Empty)

	assert.Equal(t, "score", profiles[1].Column)
	assert.True(t, profiles[1].Empty)
	assert.Equal(t, 2, profiles[1].Missing)
}
