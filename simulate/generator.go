// Package simulate produces synthetic return series and price paths from
// parametric distributions, for tests and for exercising the analytics
// pipeline on controlled inputs.
//
// Generator state is explicit: every Generator owns its own seeded source,
// so fixed seeds reproduce fixed streams and concurrent callers that need
// determinism simply own independent generators. Nothing in this package
// touches a process-global source.
package simulate

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"quantfold/returns"
)

// Method selects the distribution a generator draws simple returns from.
type Method string

const (
	// Normal draws simple returns straight from N(mu, sigma).
	Normal Method = "normal"
	// LogNormal draws gross returns from a log-normal, r = exp(N(mu, sigma)) - 1,
	// keeping prices positive.
	LogNormal Method = "lognormal"
	// GBM draws one-period geometric Brownian motion steps,
	// r = exp(mu - sigma^2/2 + sigma*Z) - 1, so E[1+r] = exp(mu).
	GBM Method = "gbm"
)

// ErrUnknownMethod is returned when a method name is not recognized.
var ErrUnknownMethod = errors.New("unknown generation method")

// ParseMethod converts a case-insensitive method label into a Method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case Normal, LogNormal, GBM:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Generator draws synthetic returns and prices from an explicit random
// source. Generators are not safe for concurrent use; give each goroutine
// its own.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded with the given value. Equal seeds yield
// equal streams.
func New(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// NewFrom returns a generator drawing from the given source.
func NewFrom(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// draw builds the sampling function for a method, or fails for an
// unrecognized one.
func (g *Generator) draw(mu, sigma float64, method Method) (func() float64, error) {
	switch method {
	case Normal:
		d := distuv.Normal{Mu: mu, Sigma: sigma, Src: g.rng}
		return d.Rand, nil
	case LogNormal:
		d := distuv.LogNormal{Mu: mu, Sigma: sigma, Src: g.rng}
		return func() float64 { return d.Rand() - 1 }, nil
	case GBM:
		d := distuv.Normal{Mu: 0, Sigma: 1, Src: g.rng}
		drift := mu - sigma*sigma/2
		return func() float64 { return math.Expm1(drift + sigma*d.Rand()) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// Returns draws size independent simple returns for one instrument.
func (g *Generator) Returns(name string, mu, sigma float64, size int, method Method) (returns.Series, error) {
	next, err := g.draw(mu, sigma, method)
	if err != nil {
		return returns.Series{}, err
	}
	values := make([]float64, 0, max(size, 0))
	for i := 0; i < size; i++ {
		values = append(values, next())
	}
	return returns.NewSeries(name, values), nil
}

// ReturnsFrame draws one return column per instrument, each with its own
// mu and sigma but a shared size. The parameter slices must line up with
// the instrument names.
func (g *Generator) ReturnsFrame(names []string, mu, sigma []float64, size int, method Method) (returns.Frame, error) {
	if len(mu) != len(names) || len(sigma) != len(names) {
		return returns.Frame{}, &returns.ValidationError{
			Field:   "mu",
			Message: "parameter count does not match instrument count",
			Value:   len(names),
		}
	}
	cols := make([]returns.Series, 0, len(names))
	for i, name := range names {
		s, err := g.Returns(name, mu[i], sigma[i], size, method)
		if err != nil {
			return returns.Frame{}, err
		}
		cols = append(cols, s)
	}
	return returns.NewFrame(cols...)
}

// Prices compounds size-1 drawn returns into a price path seeded at
// initial, which is prepended so the output length is exactly size.
func (g *Generator) Prices(name string, initial, mu, sigma float64, size int, method Method) (returns.Series, error) {
	next, err := g.draw(mu, sigma, method)
	if err != nil {
		return returns.Series{}, err
	}
	values := make([]float64, 0, max(size, 0))
	if size > 0 {
		values = append(values, initial)
		acc := initial
		for i := 1; i < size; i++ {
			acc *= 1 + next()
			values = append(values, acc)
		}
	}
	return returns.NewSeries(name, values), nil
}

// PricesFrame compounds one price path per instrument; see Prices.
func (g *Generator) PricesFrame(names []string, initial, mu, sigma []float64, size int, method Method) (returns.Frame, error) {
	if len(initial) != len(names) || len(mu) != len(names) || len(sigma) != len(names) {
		return returns.Frame{}, &returns.ValidationError{
			Field:   "initial",
			Message: "parameter count does not match instrument count",
			Value:   len(names),
		}
	}
	cols := make([]returns.Series, 0, len(names))
	for i, name := range names {
		s, err := g.Prices(name, initial[i], mu[i], sigma[i], size, method)
		if err != nil {
			return returns.Frame{}, err
		}
		cols = append(cols, s)
	}
	return returns.NewFrame(cols...)
}
