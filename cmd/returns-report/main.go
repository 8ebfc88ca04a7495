package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"

	"quantfold/dataset"
	"quantfold/returns"
)

func main() {
	var (
		inputPath   = flag.String("input", "", "price CSV to analyze (exactly one of -input or -dataset)")
		datasetName = flag.String("dataset", "", "data library dataset to analyze (exactly one of -input or -dataset)")
		tableName   = flag.String("table", "", "table within the dataset (defaults to the one with the most rows)")
		periodName  = flag.String("period", "monthly", "observation period: daily, weekly, monthly, quarterly, semiannual, yearly")
		riskFree    = flag.Float64("riskfree", 0, "annual risk-free rate for sharpe ratios")
		alpha       = flag.Float64("alpha", 0.01, "significance level for the normality test")
		startFlag   = flag.String("start", "", "first date to keep when fetching a dataset (2006-01-02, 2006-01, or 2006)")
		endFlag     = flag.String("end", "", "last date to keep when fetching a dataset")
		outputDir   = flag.String("out", "reports", "output directory for report files")
		configPath  = flag.String("config", "", "optional YAML config file")
		list        = flag.Bool("list", false, "list available datasets and exit")
	)
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx := context.Background()

	if *list {
		client := dataset.NewClient(cfg.Library.clientConfig(), logger)
		names, err := client.AvailableDatasets(ctx)
		if err != nil {
			slog.Error("Failed to list datasets", "error", err)
			os.Exit(1)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	if (*inputPath == "") == (*datasetName == "") {
		slog.Error("Exactly one of -input or -dataset is required")
		os.Exit(1)
	}

	period, err := returns.ParsePeriod(*periodName)
	if err != nil {
		slog.Error("Invalid period", "period", *periodName, "error", err)
		os.Exit(1)
	}

	var (
		frame returns.Frame
		label string
	)
	switch {
	case *inputPath != "":
		slog.Info("Loading prices", "path", *inputPath)
		frame, err = loadPriceFrame(*inputPath)
		if err != nil {
			slog.Error("Failed to load prices", "error", err)
			os.Exit(1)
		}
		label = filepath.Base(*inputPath)
	default:
		start, err := parseDateFlag(*startFlag)
		if err != nil {
			slog.Error("Invalid -start date", "error", err)
			os.Exit(1)
		}
		end, err := parseDateFlag(*endFlag)
		if err != nil {
			slog.Error("Invalid -end date", "error", err)
			os.Exit(1)
		}
		client := dataset.NewClient(cfg.Library.clientConfig(), logger)
		frames, err := client.Fetch(ctx, *datasetName, dataset.FamaFrench, start, end)
		if err != nil {
			slog.Error("Failed to fetch dataset", "dataset", *datasetName, "error", err)
			os.Exit(1)
		}
		var key string
		frame, key, err = selectTable(frames, *tableName)
		if err != nil {
			slog.Error("Failed to select table", "dataset", *datasetName, "error", err)
			os.Exit(1)
		}
		slog.Info("Selected table", "dataset", *datasetName, "table", key, "rows", frame.Len())
		label = *datasetName
	}

	if frame.NumCols() == 0 || frame.Len() == 0 {
		slog.Error("No return observations to analyze", "source", label)
		os.Exit(1)
	}

	rows := buildMetrics(frame, period, *riskFree, *alpha)

	tbl := metricsTable(rows)
	tbl.SetTitle(fmt.Sprintf("%s (%s, riskfree %.2f%%)", label, period, *riskFree*100))
	fmt.Println(tbl.Render())

	written, err := writeReports(frame, rows, cfg.Report, *outputDir)
	if err != nil {
		slog.Error("Failed to write reports", "error", err)
		os.Exit(1)
	}
	slog.Info("Report complete",
		"source", label,
		"instruments", frame.NumCols(),
		"observations", frame.Len(),
		"files", len(written),
		"dir", *outputDir)
}

// loadPriceFrame reads a price CSV and converts it to simple returns.
func loadPriceFrame(path string) (returns.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return returns.Frame{}, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f)
	if df.Error() != nil {
		return returns.Frame{}, fmt.Errorf("parse price file: %w", df.Error())
	}
	prices, err := returns.FrameFromDataFrame(df)
	if err != nil {
		return returns.Frame{}, fmt.Errorf("convert price file: %w", err)
	}
	return returns.FrameFromPrices(prices), nil
}

// selectTable picks the requested table, or the one with the most rows
// when no name is given. Ties break alphabetically.
func selectTable(frames map[string]returns.Frame, name string) (returns.Frame, string, error) {
	keys := make([]string, 0, len(frames))
	for k := range frames {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if name != "" {
		f, ok := frames[name]
		if !ok {
			return returns.Frame{}, "", fmt.Errorf("no table %q in dataset, have %v", name, keys)
		}
		return f, name, nil
	}
	if len(keys) == 0 {
		return returns.Frame{}, "", errors.New("dataset has no tables")
	}
	best := keys[0]
	for _, k := range keys[1:] {
		if frames[k].Len() > frames[best].Len() {
			best = k
		}
	}
	return frames[best], best, nil
}

var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// parseDateFlag accepts the axis layouts a user would naturally type.
// An empty value means unbounded.
func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want 2006-01-02, 2006-01, or 2006)", value)
}
