package main

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"quantfold/returns"
)

func testReportFrame(t *testing.T) returns.Frame {
	t.Helper()
	dates := []time.Time{
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	x, err := returns.NewIndexedSeries("x", dates, []float64{0.02, -0.01, 0.03, 0.01})
	require.NoError(t, err)
	y, err := returns.NewIndexedSeries("y", dates, []float64{0.05, 0.02, -0.03, 0.04})
	require.NoError(t, err)
	f, err := returns.NewFrame(x, y)
	require.NoError(t, err)
	return f
}

func TestBuildMetrics(t *testing.T) {
	f := testReportFrame(t)
	rows := buildMetrics(f, returns.Monthly, 0.02, 0.05)
	require.Len(t, rows, 2)
	assert.Equal(t, "x", rows[0].Name)
	assert.Equal(t, "y", rows[1].Name)

	x, err := f.Col("x")
	require.NoError(t, err)
	assert.InDelta(t, x.Mean(), rows[0].Mean, 1e-12)
	assert.InDelta(t, x.GMean(), rows[0].GMean, 1e-12)
	assert.InDelta(t, x.Annualized(returns.Monthly), rows[0].Annualized, 1e-12)
	assert.InDelta(t, x.EffectVol(returns.Monthly), rows[0].EffectVol, 1e-12)
	assert.InDelta(t, x.Sharpe(0.02, returns.Monthly), rows[0].Sharpe, 1e-12)
	assert.InDelta(t, x.TotalReturn(), rows[0].TotalReturn, 1e-12)
	assert.InDelta(t, x.MaxDrawdown(), rows[0].MaxDrawdown, 1e-12)
	assert.InDelta(t, x.Skew(), rows[0].Skew, 1e-12)
	assert.InDelta(t, x.Kurtosis(), rows[0].Kurtosis, 1e-12)
	assert.Equal(t, x.IsNormal(0.05), rows[0].Normal)
}

func TestMetricsTable(t *testing.T) {
	rows := buildMetrics(testReportFrame(t), returns.Monthly, 0, 0.01)
	rendered := metricsTable(rows).Render()

	assert.Contains(t, rendered, "Instrument")
	assert.Contains(t, rendered, "Sharpe")
	assert.Contains(t, rendered, "x")
	assert.Contains(t, rendered, "y")
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "n/a", formatCell(math.NaN()))
	assert.Equal(t, "0.012500", formatCell(0.0125))
	assert.Equal(t, "-0.500000", formatCell(-0.5))
}

func TestWriteMetricsCSV(t *testing.T) {
	rows := buildMetrics(testReportFrame(t), returns.Monthly, 0, 0.01)
	path := filepath.Join(t.TempDir(), "metrics.csv")
	require.NoError(t, writeMetricsCSV(rows, path))

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	records, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, metricHeader, records[0])
	assert.Equal(t, "x", records[1][0])

	mean, err := strconv.ParseFloat(records[1][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, rows[0].Mean, mean, 1e-15)
}

func TestWriteMetricsXLSX(t *testing.T) {
	rows := buildMetrics(testReportFrame(t), returns.Monthly, 0, 0.01)
	path := filepath.Join(t.TempDir(), "metrics.xlsx")
	require.NoError(t, writeMetricsXLSX(rows, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	head, err := f.GetCellValue("Metrics", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Instrument", head)

	name, err := f.GetCellValue("Metrics", "A2")
	require.NoError(t, err)
	assert.Equal(t, "x", name)

	cell, err := f.GetCellValue("Metrics", "B2")
	require.NoError(t, err)
	mean, err := strconv.ParseFloat(cell, 64)
	require.NoError(t, err)
	assert.InDelta(t, rows[0].Mean, mean, 1e-9)
}

func TestWriteChart(t *testing.T) {
	f := testReportFrame(t)
	cfg := ReportConfig{ChartWidth: 640, ChartHeight: 480}
	path := filepath.Join(t.TempDir(), "cumulated.png")

	require.NoError(t, writeChart(f.Cumulated(), "Cumulated wealth", cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestWriteChartEmptyFrame(t *testing.T) {
	cfg := ReportConfig{ChartWidth: 640, ChartHeight: 480}
	err := writeChart(returns.Frame{}, "Drawdown", cfg, filepath.Join(t.TempDir(), "drawdown.png"))
	assert.Error(t, err)
}

func TestWriteReports(t *testing.T) {
	f := testReportFrame(t)
	rows := buildMetrics(f, returns.Monthly, 0, 0.01)
	dir := filepath.Join(t.TempDir(), "out")

	written, err := writeReports(f, rows, ReportConfig{ChartWidth: 640, ChartHeight: 480}, dir)
	require.NoError(t, err)
	require.Len(t, written, 4)

	prefixes := []string{"metrics_", "metrics_", "cumulated_", "drawdown_"}
	exts := []string{".csv", ".xlsx", ".png", ".png"}
	for i, path := range written {
		base := filepath.Base(path)
		assert.True(t, strings.HasPrefix(base, prefixes[i]), base)
		assert.Equal(t, exts[i], filepath.Ext(base), base)

		info, err := os.Stat(path)
		require.NoError(t, err, base)
		assert.Positive(t, info.Size(), base)
	}
}
