package returns

import (
	"fmt"
	"time"
)

// Frame is an ordered collection of equal-length return series sharing one
// time axis. Insertion order is column order; every computation treats the
// columns in total isolation, so for any function f and column c the frame
// result satisfies f(frame)[c] == f(frame.Col(c)).
type Frame struct {
	dates []time.Time
	names []string
	cols  [][]float64
}

// NewFrame builds a frame from the given columns. All columns must share
// one length and carry distinct names; indexed columns must agree on the
// time axis, and the first indexed column donates the axis to the frame.
func NewFrame(cols ...Series) (Frame, error) {
	var f Frame
	for _, col := range cols {
		if len(f.names) > 0 && col.Len() != len(f.cols[0]) {
			return Frame{}, &ValidationError{
				Field:   col.name,
				Message: "column length does not match frame",
				Value:   col.Len(),
			}
		}
		for _, name := range f.names {
			if name == col.name {
				return Frame{}, &ValidationError{
					Field:   col.name,
					Message: "duplicate column name",
					Value:   col.name,
				}
			}
		}
		if col.dates != nil {
			if f.dates == nil {
				f.dates = append([]time.Time(nil), col.dates...)
			} else if !sameAxis(f.dates, col.dates) {
				return Frame{}, &ValidationError{
					Field:   col.name,
					Message: "column time axis conflicts with frame",
				}
			}
		}
		f.names = append(f.names, col.name)
		f.cols = append(f.cols, append([]float64(nil), col.values...))
	}
	return f, nil
}

// FrameFromPrices derives per-column simple returns from a frame of price
// paths, dropping the first row and its axis entry.
func FrameFromPrices(prices Frame) Frame {
	out := Frame{names: append([]string(nil), prices.names...)}
	for _, col := range prices.cols {
		out.cols = append(out.cols, fromPrices(col))
	}
	if prices.dates != nil && len(prices.dates) > 1 {
		out.dates = append([]time.Time(nil), prices.dates[1:]...)
	}
	return out
}

func sameAxis(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Names returns the column labels in presentation order.
func (f Frame) Names() []string {
	return append([]string(nil), f.names...)
}

// NumCols returns the number of columns.
func (f Frame) NumCols() int {
	return len(f.names)
}

// Len returns the number of rows.
func (f Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0])
}

// Dates returns a copy of the shared time axis, or nil when unindexed.
func (f Frame) Dates() []time.Time {
	if f.dates == nil {
		return nil
	}
	return append([]time.Time(nil), f.dates...)
}

// Col returns the named column as a series carrying the frame's axis.
func (f Frame) Col(name string) (Series, error) {
	for i, n := range f.names {
		if n == name {
			return Series{
				name:   n,
				dates:  f.dates,
				values: append([]float64(nil), f.cols[i]...),
			}, nil
		}
	}
	return Series{}, fmt.Errorf("%w: %q", ErrNoColumn, name)
}

// Columns returns all columns as series in presentation order.
func (f Frame) Columns() []Series {
	out := make([]Series, len(f.names))
	for i, n := range f.names {
		out[i] = Series{name: n, dates: f.dates, values: append([]float64(nil), f.cols[i]...)}
	}
	return out
}

// reduce applies a scalar kernel to every column independently.
func (f Frame) reduce(fn func([]float64) float64) map[string]float64 {
	out := make(map[string]float64, len(f.names))
	for i, name := range f.names {
		out[name] = fn(f.cols[i])
	}
	return out
}

// transform applies a shape-preserving kernel to every column
// independently, keeping axis and column order.
func (f Frame) transform(fn func([]float64) []float64) Frame {
	out := Frame{dates: f.dates, names: append([]string(nil), f.names...)}
	for _, col := range f.cols {
		out.cols = append(out.cols, fn(col))
	}
	return out
}

// Mean returns the per-column arithmetic average return.
func (f Frame) Mean() map[string]float64 {
	return f.reduce(mean)
}

// GMean returns the per-column geometric mean return.
func (f Frame) GMean() map[string]float64 {
	return f.reduce(gmean)
}

// StdDev returns the per-column sample standard deviation.
func (f Frame) StdDev() map[string]float64 {
	return f.reduce(stdDev)
}

// Effect returns the per-column annual effective rate compounded from the
// arithmetic mean.
func (f Frame) Effect(p Period) map[string]float64 {
	return f.reduce(func(r []float64) float64 { return effect(r, p) })
}

// Annualized returns the per-column annual effective rate compounded from
// the geometric mean.
func (f Frame) Annualized(p Period) map[string]float64 {
	return f.reduce(func(r []float64) float64 { return annualized(r, p) })
}

// EffectVol returns the per-column annualized sample volatility.
func (f Frame) EffectVol(p Period) map[string]float64 {
	return f.reduce(func(r []float64) float64 { return effectVol(r, p) })
}

// Sharpe returns the per-column Sharpe ratio against an annual risk-free
// rate; see Series.Sharpe for the convention.
func (f Frame) Sharpe(riskfree float64, p Period) map[string]float64 {
	return f.reduce(func(r []float64) float64 { return sharpe(r, riskfree, p) })
}

// TotalReturn returns the per-column holding-period return.
func (f Frame) TotalReturn() map[string]float64 {
	return f.reduce(totalReturn)
}

// Cumulated returns the per-column compounded growth paths.
func (f Frame) Cumulated() Frame {
	return f.transform(cumulate)
}

// Drawdown returns the per-column declines from the running wealth peak.
func (f Frame) Drawdown() Frame {
	return f.transform(drawdown)
}

// MaxDrawdown returns the per-column deepest drawdown.
func (f Frame) MaxDrawdown() map[string]float64 {
	return f.reduce(maxDrawdown)
}

// LogReturns returns the per-column continuously compounded returns.
func (f Frame) LogReturns() Frame {
	return f.transform(logReturns)
}

// Skew returns the per-column sample skewness.
func (f Frame) Skew() map[string]float64 {
	return f.reduce(skew)
}

// Kurtosis returns the per-column Pearson kurtosis.
func (f Frame) Kurtosis() map[string]float64 {
	return f.reduce(kurtosis)
}

// IsNormal reports per column whether the Jarque-Bera test fails to
// reject normality at the given significance level.
func (f Frame) IsNormal(alpha float64) map[string]bool {
	out := make(map[string]bool, len(f.names))
	for i, name := range f.names {
		_, p := jarqueBera(f.cols[i])
		out[name] = p > alpha
	}
	return out
}
