package returns

import (
	"fmt"
	"strings"
)

// Period represents the compounding periodicity of a return series.
// The underlying value is the annualization factor, i.e. the number of
// compounding periods per year.
type Period int

const (
	// Daily assumes 252 trading days per year
	Daily Period = 252
	// Weekly assumes 52 weeks per year
	Weekly Period = 52
	// Monthly assumes 12 months per year
	Monthly Period = 12
	// Quarterly assumes 4 quarters per year
	Quarterly Period = 4
	// Semiannual assumes 2 half-years per year
	Semiannual Period = 2
	// Yearly assumes a single period per year
	Yearly Period = 1
)

// Factor returns the annualization factor for the period.
func (p Period) Factor() int {
	return int(p)
}

// Valid reports whether p is one of the defined periods.
func (p Period) Valid() bool {
	switch p {
	case Daily, Weekly, Monthly, Quarterly, Semiannual, Yearly:
		return true
	default:
		return false
	}
}

// String returns the string representation of the period
func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Semiannual:
		return "semiannual"
	case Yearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// ParsePeriod converts a case-insensitive label such as "daily" or
// "monthly" into a Period. Unrecognized labels return ErrUnknownPeriod.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	case "quarterly":
		return Quarterly, nil
	case "semiannual":
		return Semiannual, nil
	case "yearly", "annual":
		return Yearly, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
}

// Periods lists the defined periods from most to least frequent.
func Periods() []Period {
	return []Period{Daily, Weekly, Monthly, Quarterly, Semiannual, Yearly}
}
