// Package returns implements periodicity-aware statistics over simple
// return series and frames.
//
// The package augments two container types with the finance-domain
// computations used when evaluating instrument performance: geometric and
// arithmetic means, effective annual rates, annualized volatility, the
// Sharpe ratio, drawdown paths, and total return, alongside higher-moment
// summaries (skewness, kurtosis, Jarque-Bera normality).
//
// # Core Components
//
// The computation layer has three levels:
//
//  1. Period: a closed enumeration of compounding periods, each carrying
//     its annualization factor (252, 52, 12, 4, 2, 1 periods per year)
//  2. Kernels: every formula is implemented once over a plain []float64
//  3. Shape dispatch: Series applies a kernel to its own values while
//     Frame routes every column through the same kernel independently
//
// Column isolation is an algebraic law of the frame type: for any
// function f and column c, f(frame)[c] equals f(frame.Col(c)). No
// computation ever mixes columns.
//
// # Conventions
//
// Returns are simple returns, price[t]/price[t-1] - 1. Annualization
// composes a per-period mean with the period factor: Annualized uses the
// geometric mean (compounding-consistent, used by Sharpe) and Effect uses
// the arithmetic mean (simpler, biased upward for volatile series).
// Volatility uses the sample standard deviation and the
// square-root-of-time rule. The Sharpe ratio divides annualized excess
// return over an ANNUAL risk-free rate by annualized volatility; callers
// convert the risk-free rate themselves.
//
// Degenerate inputs follow floating-point semantics rather than erroring:
// empty reductions yield NaN (or 0 where the empty product applies, as in
// TotalReturn), zero volatility drives Sharpe to Inf or NaN, and empty
// transforms yield empty results so sliced windows compose.
//
// # Architecture
//
//   - period.go: Period enumeration and parsing
//   - stats.go: float64 kernels and scalar helpers
//   - series.go: single-instrument container and its method surface
//   - frame.go: multi-instrument container and per-column dispatch
//   - dataframe.go: gota dataframe interchange
//
// # Usage Example
//
//	acme := returns.FromPrices("ACME", []float64{80, 85, 90})
//	fmt.Printf("total return %.4f\n", acme.TotalReturn())
//
//	frame, err := returns.NewFrame(
//	    returns.NewSeries("growth", []float64{0.10, 0.05, -0.02}),
//	    returns.NewSeries("value", []float64{0.03, 0.01, 0.02}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	annual := frame.Annualized(returns.Monthly)
//	sharpe := frame.Sharpe(0.04, returns.Monthly)
//	for _, name := range frame.Names() {
//	    fmt.Printf("%s: %.4f (sharpe %.2f)\n", name, annual[name], sharpe[name])
//	}
package returns
