package simulate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantfold/returns"
)

// TestParseMethod tests method label parsing
func TestParseMethod(t *testing.T) {
	tests := []struct {
		name        string
		label       string
		expected    Method
		expectError bool
	}{
		{"normal", "normal", Normal, false},
		{"lognormal uppercase", "LOGNORMAL", LogNormal, false},
		{"gbm with spaces", " gbm ", GBM, false},
		{"unknown", "cauchy", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMethod(tt.label)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrUnknownMethod)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, m)
			}
		})
	}
}

// TestGeneratorDeterminism tests that equal seeds reproduce equal streams
func TestGeneratorDeterminism(t *testing.T) {
	for _, method := range []Method{Normal, LogNormal, GBM} {
		t.Run(string(method), func(t *testing.T) {
			a, err := New(42).Returns("x", 0.01, 0.05, 64, method)
			require.NoError(t, err)
			b, err := New(42).Returns("x", 0.01, 0.05, 64, method)
			require.NoError(t, err)

			require.Equal(t, 64, a.Len())
			assert.Equal(t, a.Values(), b.Values())
		})
	}

	t.Run("different seeds diverge", func(t *testing.T) {
		a, err := New(1).Returns("x", 0.01, 0.05, 64, Normal)
		require.NoError(t, err)
		b, err := New(2).Returns("x", 0.01, 0.05, 64, Normal)
		require.NoError(t, err)
		assert.NotEqual(t, a.Values(), b.Values())
	})
}

// TestReturnsMoments tests that sampled moments track the parameters
func TestReturnsMoments(t *testing.T) {
	s, err := New(7).Returns("x", 0.01, 0.05, 4000, Normal)
	require.NoError(t, err)

	assert.InDelta(t, 0.01, s.Mean(), 0.005)
	assert.InDelta(t, 0.05, s.StdDev(), 0.005)
}

// TestGrossReturnsStayPositive tests the log-space methods
func TestGrossReturnsStayPositive(t *testing.T) {
	for _, method := range []Method{LogNormal, GBM} {
		t.Run(string(method), func(t *testing.T) {
			s, err := New(11).Returns("x", 0.0, 0.5, 2000, method)
			require.NoError(t, err)
			for _, v := range s.Values() {
				assert.Greater(t, 1+v, 0.0)
			}
		})
	}

	t.Run("gbm mean of gross returns", func(t *testing.T) {
		s, err := New(13).Returns("x", 0.01, 0.05, 4000, GBM)
		require.NoError(t, err)
		assert.InDelta(t, math.Expm1(0.01), s.Mean(), 0.005)
	})
}

// TestUnknownMethod tests the invalid-configuration failure mode
func TestUnknownMethod(t *testing.T) {
	g := New(1)

	_, err := g.Returns("x", 0.01, 0.05, 10, Method("pareto"))
	assert.ErrorIs(t, err, ErrUnknownMethod)

	_, err = g.Prices("x", 100, 0.01, 0.05, 10, Method(""))
	assert.ErrorIs(t, err, ErrUnknownMethod)

	_, err = g.ReturnsFrame([]string{"x"}, []float64{0.01}, []float64{0.05}, 10, Method("pareto"))
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

// TestPrices tests the price path length and seeding contract
func TestPrices(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		expectedLen int
	}{
		{"ten observations", 10, 10},
		{"single observation is just the seed", 1, 1},
		{"zero size", 0, 0},
		{"negative size", -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(3).Prices("x", 100.0, 0.01, 0.05, tt.size, Normal)
			require.NoError(t, err)
			require.Equal(t, tt.expectedLen, s.Len())
			if tt.expectedLen > 0 {
				assert.Equal(t, 100.0, s.At(0))
			}
		})
	}
}

// TestPricesRoundTrip tests that differencing a price path recovers the
// drawn returns
func TestPricesRoundTrip(t *testing.T) {
	drawn, err := New(21).Returns("x", 0.02, 0.1, 9, Normal)
	require.NoError(t, err)
	prices, err := New(21).Prices("x", 80.0, 0.02, 0.1, 10, Normal)
	require.NoError(t, err)

	got := returns.FromPriceSeries(prices)
	require.Equal(t, drawn.Len(), got.Len())
	for i := 0; i < got.Len(); i++ {
		assert.InDelta(t, drawn.At(i), got.At(i), 1e-9)
	}
}

// TestReturnsFrame tests multi-instrument draws
func TestReturnsFrame(t *testing.T) {
	t.Run("one column per instrument", func(t *testing.T) {
		f, err := New(5).ReturnsFrame(
			[]string{"a", "b"},
			[]float64{0.01, 0.05},
			[]float64{0.02, 0.1},
			100,
			Normal,
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, f.Names())
		assert.Equal(t, 100, f.Len())

		a, err := f.Col("a")
		require.NoError(t, err)
		b, err := f.Col("b")
		require.NoError(t, err)
		assert.NotEqual(t, a.Values(), b.Values())
	})

	t.Run("reproducible", func(t *testing.T) {
		draw := func() returns.Frame {
			f, err := New(5).ReturnsFrame([]string{"a", "b"},
				[]float64{0.01, 0.05}, []float64{0.02, 0.1}, 32, GBM)
			require.NoError(t, err)
			return f
		}
		first, second := draw(), draw()
		for _, name := range first.Names() {
			x, err := first.Col(name)
			require.NoError(t, err)
			y, err := second.Col(name)
			require.NoError(t, err)
			assert.Equal(t, x.Values(), y.Values())
		}
	})

	t.Run("parameter count mismatch", func(t *testing.T) {
		_, err := New(5).ReturnsFrame([]string{"a", "b"}, []float64{0.01}, []float64{0.02, 0.1}, 10, Normal)
		require.Error(t, err)
		var ve *returns.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

// TestPricesFrame tests multi-instrument price paths
func TestPricesFrame(t *testing.T) {
	f, err := New(9).PricesFrame(
		[]string{"a", "b"},
		[]float64{100, 50},
		[]float64{0.01, 0.02},
		[]float64{0.05, 0.1},
		12,
		LogNormal,
	)
	require.NoError(t, err)
	assert.Equal(t, 12, f.Len())

	a, err := f.Col("a")
	require.NoError(t, err)
	assert.Equal(t, 100.0, a.At(0))
	b, err := f.Col("b")
	require.NoError(t, err)
	assert.Equal(t, 50.0, b.At(0))
}

// TestSharpeScenario tests the sampled Sharpe ratio against its
// closed-form expectation
func TestSharpeScenario(t *testing.T) {
	mu := math.Pow(1.25, 1.0/12) - 1
	sigma := math.Pow(1.1, 1.0/12) - 1
	riskfree := 0.1

	expected := (returns.EffectiveRate(mu, returns.Monthly) - riskfree) /
		returns.AnnualizeVol(sigma, returns.Monthly)

	t.Run("4000 samples", func(t *testing.T) {
		s, err := New(17).Returns("x", mu, sigma, 4000, Normal)
		require.NoError(t, err)
		assert.InEpsilon(t, expected, s.Sharpe(riskfree, returns.Monthly), 0.05)
	})

	// One sampling standard error of the ratio is about 1.7% at 4000
	// draws, so the tight bound gets a sample size that shrinks it well
	// under the tolerance.
	t.Run("converges with sample size", func(t *testing.T) {
		s, err := New(17).Returns("x", mu, sigma, 500000, Normal)
		require.NoError(t, err)
		assert.InEpsilon(t, expected, s.Sharpe(riskfree, returns.Monthly), 0.01)
	})
}
