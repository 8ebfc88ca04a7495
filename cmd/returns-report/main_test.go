package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantfold/returns"
)

func frameOfLen(t *testing.T, n int) returns.Frame {
	t.Helper()
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = 0.01
	}
	f, err := returns.NewFrame(returns.NewSeries("r", vals))
	require.NoError(t, err)
	return f
}

func TestSelectTable(t *testing.T) {
	frames := map[string]returns.Frame{
		"big":   frameOfLen(t, 5),
		"small": frameOfLen(t, 2),
	}

	f, key, err := selectTable(frames, "")
	require.NoError(t, err)
	assert.Equal(t, "big", key)
	assert.Equal(t, 5, f.Len())

	f, key, err = selectTable(frames, "small")
	require.NoError(t, err)
	assert.Equal(t, "small", key)
	assert.Equal(t, 2, f.Len())

	_, _, err = selectTable(frames, "absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent")

	_, _, err = selectTable(map[string]returns.Frame{}, "")
	assert.Error(t, err)
}

func TestParseDateFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"empty is unbounded", "", time.Time{}, false},
		{"full date", "1926-07-01", time.Date(1926, 7, 1, 0, 0, 0, 0, time.UTC), false},
		{"month", "1926-07", time.Date(1926, 7, 1, 0, 0, 0, 0, time.UTC), false},
		{"year", "1926", time.Date(1926, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"unrecognized", "07/1926", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateFlag(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestLoadPriceFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	body := "date,acme\n2024-01-31,80\n2024-02-29,85\n2024-03-31,90\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	f, err := loadPriceFrame(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, f.Names())
	require.Equal(t, 2, f.Len())

	acme, err := f.Col("acme")
	require.NoError(t, err)
	assert.InDelta(t, 0.0625, acme.At(0), 1e-9)
	assert.InDelta(t, 0.058824, acme.At(1), 1e-6)

	require.Len(t, f.Dates(), 2)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), f.Dates()[0])
}

func TestLoadPriceFrameMissingFile(t *testing.T) {
	_, err := loadPriceFrame(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
