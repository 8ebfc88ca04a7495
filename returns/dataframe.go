package returns

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// axisFormats are the layouts accepted for a "date" column on import,
// from daily down to annual granularity.
var axisFormats = []string{"2006-01-02", "20060102", "2006-01", "200601", "2006"}

// DataFrame exports the frame as a gota dataframe for interchange with
// CSV tooling. An indexed frame gains a leading "date" column formatted
// as 2006-01-02.
func (f Frame) DataFrame() dataframe.DataFrame {
	se := make([]series.Series, 0, len(f.names)+1)
	if f.dates != nil {
		labels := make([]string, len(f.dates))
		for i, d := range f.dates {
			labels[i] = d.Format("2006-01-02")
		}
		se = append(se, series.New(labels, series.String, "date"))
	}
	for i, name := range f.names {
		se = append(se, series.New(f.cols[i], series.Float, name))
	}
	return dataframe.New(se...)
}

// FrameFromDataFrame imports a gota dataframe. A column named "date" (any
// case) becomes the time axis; every other column is coerced to float64,
// with unparseable cells surfacing as NaN the way gota coerces them.
func FrameFromDataFrame(df dataframe.DataFrame) (Frame, error) {
	if df.Error() != nil {
		return Frame{}, fmt.Errorf("read dataframe: %w", df.Error())
	}
	var f Frame
	for _, name := range df.Names() {
		col := df.Col(name)
		if strings.EqualFold(name, "date") && f.dates == nil {
			dates, err := parseAxis(col.Records())
			if err != nil {
				return Frame{}, err
			}
			f.dates = dates
			continue
		}
		f.names = append(f.names, name)
		f.cols = append(f.cols, col.Float())
	}
	return f, nil
}

func parseAxis(records []string) ([]time.Time, error) {
	out := make([]time.Time, len(records))
	for i, rec := range records {
		rec = strings.TrimSpace(rec)
		parsed := false
		for _, layout := range axisFormats {
			if t, err := time.Parse(layout, rec); err == nil {
				out[i] = t
				parsed = true
				break
			}
		}
		if !parsed {
			return nil, &ValidationError{
				Field:   "date",
				Message: fmt.Sprintf("cannot parse axis entry %q", rec),
				Value:   rec,
			}
		}
	}
	return out, nil
}
