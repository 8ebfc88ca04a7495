package returns

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// EffectiveRate compounds a per-period rate into an annual effective rate,
// (1+rate)^factor - 1. A quarterly rate of 3% compounds to roughly 12.55%
// per year.
func EffectiveRate(rate float64, p Period) float64 {
	return math.Pow(1+rate, float64(p.Factor())) - 1
}

// AnnualizeVol scales a per-period volatility to an annual basis using the
// square-root-of-time rule, vol * sqrt(factor).
func AnnualizeVol(vol float64, p Period) float64 {
	return vol * math.Sqrt(float64(p.Factor()))
}

// fromPrices computes simple returns from a price path. The first price has
// no return, so fewer than two prices yield no returns.
func fromPrices(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	r := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		r[i-1] = prices[i]/prices[i-1] - 1
	}
	return r
}

// cumulate is the running product of gross returns, starting at 1+r[0].
func cumulate(r []float64) []float64 {
	if len(r) == 0 {
		return nil
	}
	out := make([]float64, len(r))
	for i, v := range r {
		out[i] = 1 + v
	}
	floats.CumProd(out, out)
	return out
}

// totalReturn is the holding-period return, the product of gross returns
// minus one. The empty-product convention makes the zero-length result 0.
func totalReturn(r []float64) float64 {
	acc := 1.0
	for _, v := range r {
		acc *= 1 + v
	}
	return acc - 1
}

// mean is the arithmetic average; NaN for empty input.
func mean(r []float64) float64 {
	if len(r) == 0 {
		return math.NaN()
	}
	return stat.Mean(r, nil)
}

// gmean computes the geometric mean growth rate through log space,
// exp(mean(log(1+r))) - 1. The log form sidesteps the overflow and
// underflow the direct product form risks on long series.
func gmean(r []float64) float64 {
	if len(r) == 0 {
		return math.NaN()
	}
	logs := make([]float64, len(r))
	for i, v := range r {
		logs[i] = math.Log1p(v)
	}
	return math.Expm1(stat.Mean(logs, nil))
}

// stdDev is the sample standard deviation (n-1 divisor); NaN below two
// observations.
func stdDev(r []float64) float64 {
	if len(r) < 2 {
		return math.NaN()
	}
	return stat.StdDev(r, nil)
}

// effect compounds the arithmetic mean return up to an annual rate.
func effect(r []float64, p Period) float64 {
	return EffectiveRate(mean(r), p)
}

// annualized compounds the geometric mean return up to an annual rate.
func annualized(r []float64, p Period) float64 {
	return EffectiveRate(gmean(r), p)
}

// effectVol annualizes the sample volatility of the returns.
func effectVol(r []float64, p Period) float64 {
	return AnnualizeVol(stdDev(r), p)
}

// sharpe divides annual excess return by annual volatility. riskfree is an
// annual rate; zero volatility propagates Inf or NaN rather than erroring.
func sharpe(r []float64, riskfree float64, p Period) float64 {
	return (annualized(r, p) - riskfree) / effectVol(r, p)
}

// drawdown measures the relative distance of the compounded wealth path
// from its running peak. Values are never positive and the first element
// is always 0.
func drawdown(r []float64) []float64 {
	if len(r) == 0 {
		return nil
	}
	out := make([]float64, len(r))
	wealth := 1.0
	peak := math.Inf(-1)
	for i, v := range r {
		wealth *= 1 + v
		if wealth > peak {
			peak = wealth
		}
		out[i] = (wealth - peak) / peak
	}
	return out
}

// maxDrawdown is the deepest point of the drawdown path; 0 for empty input.
func maxDrawdown(r []float64) float64 {
	min := 0.0
	for _, v := range drawdown(r) {
		if v < min {
			min = v
		}
	}
	return min
}

// logReturns converts simple returns to continuously compounded returns.
func logReturns(r []float64) []float64 {
	if len(r) == 0 {
		return nil
	}
	out := make([]float64, len(r))
	for i, v := range r {
		out[i] = math.Log1p(v)
	}
	return out
}

// skew is the sample skewness; NaN below three observations.
func skew(r []float64) float64 {
	if len(r) < 3 {
		return math.NaN()
	}
	return stat.Skew(r, nil)
}

// kurtosis reports Pearson kurtosis, where a normal distribution scores 3;
// NaN below four observations.
func kurtosis(r []float64) float64 {
	if len(r) < 4 {
		return math.NaN()
	}
	return stat.ExKurtosis(r, nil) + 3
}

// jarqueBera computes the Jarque-Bera normality statistic and its
// chi-squared(2) p-value. The test is defined on population moments, so
// they are computed here without the sample bias corrections applied by
// skew and kurtosis.
func jarqueBera(r []float64) (statistic, pvalue float64) {
	n := float64(len(r))
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	mu := stat.Mean(r, nil)
	var m2, m3, m4 float64
	for _, v := range r {
		d := v - mu
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2 /= n
	m3 /= n
	m4 /= n
	s := m3 / math.Pow(m2, 1.5)
	k := m4/(m2*m2) - 3
	statistic = n / 6 * (s*s + k*k/4)
	pvalue = distuv.ChiSquared{K: 2}.Survival(statistic)
	return statistic, pvalue
}
