package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/jedib0t/go-pretty/table"
	"github.com/vicanso/go-charts/v2"
	"github.com/xuri/excelize/v2"

	"quantfold/returns"
)

// metricRow is one instrument's summary line.
type metricRow struct {
	Name        string
	Mean        float64
	GMean       float64
	Annualized  float64
	EffectVol   float64
	Sharpe      float64
	TotalReturn float64
	MaxDrawdown float64
	Skew        float64
	Kurtosis    float64
	Normal      bool
}

var metricHeader = []string{
	"Instrument", "Mean", "GMean", "Annualized", "EffectVol",
	"Sharpe", "TotalReturn", "MaxDrawdown", "Skew", "Kurtosis", "Normal",
}

// buildMetrics computes the per-instrument summary statistics of a
// return frame.
func buildMetrics(f returns.Frame, p returns.Period, riskFree, alpha float64) []metricRow {
	var (
		mean   = f.Mean()
		gmean  = f.GMean()
		ann    = f.Annualized(p)
		vol    = f.EffectVol(p)
		sharpe = f.Sharpe(riskFree, p)
		total  = f.TotalReturn()
		maxDD  = f.MaxDrawdown()
		skew   = f.Skew()
		kurt   = f.Kurtosis()
		normal = f.IsNormal(alpha)
	)
	rows := make([]metricRow, 0, f.NumCols())
	for _, name := range f.Names() {
		rows = append(rows, metricRow{
			Name:        name,
			Mean:        mean[name],
			GMean:       gmean[name],
			Annualized:  ann[name],
			EffectVol:   vol[name],
			Sharpe:      sharpe[name],
			TotalReturn: total[name],
			MaxDrawdown: maxDD[name],
			Skew:        skew[name],
			Kurtosis:    kurt[name],
			Normal:      normal[name],
		})
	}
	return rows
}

// metricsTable renders the rows as a console table.
func metricsTable(rows []metricRow) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetAutoIndex(true)
	header := table.Row{}
	for _, h := range metricHeader {
		header = append(header, h)
	}
	t.AppendHeader(header)
	for _, r := range rows {
		t.AppendRow(table.Row{
			r.Name,
			formatCell(r.Mean), formatCell(r.GMean), formatCell(r.Annualized),
			formatCell(r.EffectVol), formatCell(r.Sharpe), formatCell(r.TotalReturn),
			formatCell(r.MaxDrawdown), formatCell(r.Skew), formatCell(r.Kurtosis),
			r.Normal,
		})
	}
	return t
}

// formatCell keeps NaN readable in console output.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// metricsRecords lays the rows out as CSV records for the dataframe
// writer, at full float precision.
func metricsRecords(rows []metricRow) [][]string {
	records := [][]string{metricHeader}
	for _, r := range rows {
		records = append(records, []string{
			r.Name,
			strconv.FormatFloat(r.Mean, 'g', -1, 64),
			strconv.FormatFloat(r.GMean, 'g', -1, 64),
			strconv.FormatFloat(r.Annualized, 'g', -1, 64),
			strconv.FormatFloat(r.EffectVol, 'g', -1, 64),
			strconv.FormatFloat(r.Sharpe, 'g', -1, 64),
			strconv.FormatFloat(r.TotalReturn, 'g', -1, 64),
			strconv.FormatFloat(r.MaxDrawdown, 'g', -1, 64),
			strconv.FormatFloat(r.Skew, 'g', -1, 64),
			strconv.FormatFloat(r.Kurtosis, 'g', -1, 64),
			strconv.FormatBool(r.Normal),
		})
	}
	return records
}

// writeMetricsCSV writes the rows through the dataframe layer.
func writeMetricsCSV(rows []metricRow, path string) error {
	df := dataframe.LoadRecords(metricsRecords(rows), dataframe.DetectTypes(false))
	if df.Error() != nil {
		return fmt.Errorf("build metrics dataframe: %w", df.Error())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeMetricsXLSX writes the rows to a single-sheet workbook.
func writeMetricsXLSX(rows []metricRow, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Metrics"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for col, h := range metricHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, r := range rows {
		values := []interface{}{
			r.Name, r.Mean, r.GMean, r.Annualized, r.EffectVol,
			r.Sharpe, r.TotalReturn, r.MaxDrawdown, r.Skew, r.Kurtosis, r.Normal,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("metrics cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write metrics row %d: %w", i, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// chartLabels formats the time axis for chart output, numbering the
// observations when the frame carries no axis.
func chartLabels(f returns.Frame) []string {
	dates := f.Dates()
	if dates == nil {
		labels := make([]string, f.Len())
		for i := range labels {
			labels[i] = strconv.Itoa(i + 1)
		}
		return labels
	}
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = d.Format("2006-01-02")
	}
	return labels
}

// writeChart renders one line per instrument into a PNG file.
func writeChart(f returns.Frame, title string, cfg ReportConfig, path string) error {
	if f.Len() == 0 {
		return fmt.Errorf("render %s: no observations to plot", title)
	}
	values := make([][]float64, 0, f.NumCols())
	for _, col := range f.Columns() {
		values = append(values, col.Values())
	}
	labels := chartLabels(f)
	splitNum := 6
	if len(labels) <= 30 {
		splitNum = len(labels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}
	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: f.Names()}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(cfg.ChartWidth),
		charts.HeightOptionFunc(cfg.ChartHeight),
	)
	if err != nil {
		return fmt.Errorf("render %s: %w", title, err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return fmt.Errorf("encode %s: %w", title, err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeReports writes every report artifact with date-stamped names and
// returns the paths written so far, even on partial failure.
func writeReports(f returns.Frame, rows []metricRow, cfg ReportConfig, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	timestamp := time.Now().Format("20060102")
	written := make([]string, 0, 4)

	csvPath := filepath.Join(dir, fmt.Sprintf("metrics_%s.csv", timestamp))
	if err := writeMetricsCSV(rows, csvPath); err != nil {
		return written, err
	}
	written = append(written, csvPath)

	xlsxPath := filepath.Join(dir, fmt.Sprintf("metrics_%s.xlsx", timestamp))
	if err := writeMetricsXLSX(rows, xlsxPath); err != nil {
		return written, err
	}
	written = append(written, xlsxPath)

	cumPath := filepath.Join(dir, fmt.Sprintf("cumulated_%s.png", timestamp))
	if err := writeChart(f.Cumulated(), "Cumulated wealth", cfg, cumPath); err != nil {
		return written, err
	}
	written = append(written, cumPath)

	ddPath := filepath.Join(dir, fmt.Sprintf("drawdown_%s.png", timestamp))
	if err := writeChart(f.Drawdown(), "Drawdown", cfg, ddPath); err != nil {
		return written, err
	}
	written = append(written, ddPath)

	return written, nil
}
