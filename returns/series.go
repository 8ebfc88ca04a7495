package returns

import (
	"time"
)

// Series is an ordered sequence of simple returns for a single instrument,
// optionally carrying a time axis. A simple return r relates consecutive
// prices by price[t] = price[t-1] * (1+r). Series values are immutable:
// constructors copy their inputs, accessors return copies, and every
// transform allocates a fresh result.
type Series struct {
	name   string
	dates  []time.Time
	values []float64
}

// NewSeries builds an unindexed series from a name and values.
func NewSeries(name string, values []float64) Series {
	return Series{name: name, values: append([]float64(nil), values...)}
}

// NewIndexedSeries builds a series carrying a time axis. The axis must
// have exactly one date per value.
func NewIndexedSeries(name string, dates []time.Time, values []float64) (Series, error) {
	if len(dates) != len(values) {
		return Series{}, &ValidationError{
			Field:   "dates",
			Message: "time axis length does not match value count",
			Value:   len(dates),
		}
	}
	return Series{
		name:   name,
		dates:  append([]time.Time(nil), dates...),
		values: append([]float64(nil), values...),
	}, nil
}

// FromPrices derives the simple return series of a price path,
// price[t]/price[t-1] - 1 for t >= 1. The result is one shorter than the
// input; empty and single-price inputs yield an empty series, not an
// error, so zero-length slices compose through the pipeline.
func FromPrices(name string, prices []float64) Series {
	return Series{name: name, values: fromPrices(prices)}
}

// FromPriceSeries derives simple returns from a price series, dropping the
// first axis entry along with the first price.
func FromPriceSeries(prices Series) Series {
	out := Series{name: prices.name, values: fromPrices(prices.values)}
	if prices.dates != nil && len(prices.dates) > 1 {
		out.dates = append([]time.Time(nil), prices.dates[1:]...)
	}
	return out
}

// Name returns the instrument label.
func (s Series) Name() string {
	return s.name
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s.values)
}

// Values returns a copy of the observations.
func (s Series) Values() []float64 {
	return append([]float64(nil), s.values...)
}

// Dates returns a copy of the time axis, or nil for unindexed series.
func (s Series) Dates() []time.Time {
	if s.dates == nil {
		return nil
	}
	return append([]time.Time(nil), s.dates...)
}

// At returns the observation at position i.
func (s Series) At(i int) float64 {
	return s.values[i]
}

// Date returns the axis entry at position i, or the zero time for
// unindexed series.
func (s Series) Date(i int) time.Time {
	if s.dates == nil {
		return time.Time{}
	}
	return s.dates[i]
}

// Indexed reports whether the series carries a time axis.
func (s Series) Indexed() bool {
	return s.dates != nil
}

// WithName returns a copy of the series under a different label.
func (s Series) WithName(name string) Series {
	out := s
	out.name = name
	return out
}

// derive builds a sibling series carrying new values. Same-length results
// keep the time axis; reshaping results drop it.
func (s Series) derive(values []float64) Series {
	out := Series{name: s.name, values: values}
	if s.dates != nil && len(s.dates) == len(values) {
		out.dates = s.dates
	}
	return out
}

// Mean returns the arithmetic average return; NaN when empty.
func (s Series) Mean() float64 {
	return mean(s.values)
}

// GMean returns the geometric mean return, the compounding-consistent
// average growth rate exp(mean(log(1+r))) - 1. Computed in log space for
// numerical stability; NaN when empty.
func (s Series) GMean() float64 {
	return gmean(s.values)
}

// StdDev returns the sample standard deviation of the returns (n-1
// divisor); NaN below two observations.
func (s Series) StdDev() float64 {
	return stdDev(s.values)
}

// Effect compounds the arithmetic mean return into an annual effective
// rate, (1+mean)^factor - 1. For volatile series this overstates realized
// growth; Annualized is the geometric counterpart.
func (s Series) Effect(p Period) float64 {
	return effect(s.values, p)
}

// Annualized compounds the geometric mean return into an annual effective
// rate, (1+gmean)^factor - 1. This is the compounding-consistent
// annualization and the one Sharpe uses.
func (s Series) Annualized(p Period) float64 {
	return annualized(s.values, p)
}

// EffectVol annualizes the sample volatility by the square-root-of-time
// rule, std * sqrt(factor).
func (s Series) EffectVol(p Period) float64 {
	return effectVol(s.values, p)
}

// Sharpe returns the risk-adjusted excess return
//
//	(Annualized(p) - riskfree) / EffectVol(p)
//
// riskfree must be an annual rate; no periodicity conversion is applied.
// Zero volatility yields Inf or NaN per floating-point semantics, which
// callers must guard against if undesired.
func (s Series) Sharpe(riskfree float64, p Period) float64 {
	return sharpe(s.values, riskfree, p)
}

// TotalReturn returns the holding-period return, the product of gross
// returns minus one; 0 when empty.
func (s Series) TotalReturn() float64 {
	return totalReturn(s.values)
}

// Cumulated returns the compounded growth path of one unit of wealth. The
// path starts at 1+r[0] and its last element equals TotalReturn()+1.
func (s Series) Cumulated() Series {
	return s.derive(cumulate(s.values))
}

// Drawdown returns the per-period decline from the running peak of the
// compounded wealth path. Values are never positive and the first element
// is always 0.
func (s Series) Drawdown() Series {
	return s.derive(drawdown(s.values))
}

// MaxDrawdown returns the deepest drawdown over the whole path; 0 when
// empty.
func (s Series) MaxDrawdown() float64 {
	return maxDrawdown(s.values)
}

// LogReturns returns the continuously compounded counterpart log(1+r) of
// each observation.
func (s Series) LogReturns() Series {
	return s.derive(logReturns(s.values))
}

// Skew returns the sample skewness of the returns.
func (s Series) Skew() float64 {
	return skew(s.values)
}

// Kurtosis returns the Pearson kurtosis of the returns; a normal
// distribution scores about 3.
func (s Series) Kurtosis() float64 {
	return kurtosis(s.values)
}

// JarqueBera returns the Jarque-Bera normality statistic and its
// chi-squared(2) p-value.
func (s Series) JarqueBera() (statistic, pvalue float64) {
	return jarqueBera(s.values)
}

// IsNormal reports whether the Jarque-Bera test fails to reject normality
// at the given significance level, conventionally 0.01. Degenerate series
// produce a NaN p-value and report false.
func (s Series) IsNormal(alpha float64) bool {
	_, p := jarqueBera(s.values)
	return p > alpha
}
