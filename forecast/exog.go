package forecast

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/storecast/timeseries"
)

// Exog holds exogenous driver columns aligned to a target series and its
// forecast horizon. History rows match the target's dates one to one; Future
// rows match the horizon dates. Columns are ordered by driver name.
type Exog struct {
	Names   []string
	History [][]float64 // one row per target date
	Future  [][]float64 // one row per horizon date
	Dropped []string    // drivers with no usable values
}

// BuildExog aligns the named driver series to the target's date index and to
// the horizon dates. Driver values are matched by date; gaps are repaired by
// interpolation and fill over the history window. Horizon values missing
// from a driver are forward-filled from the last known value, never from a
// later one. Drivers with no usable values at all are dropped and recorded.
func BuildExog(target *timeseries.Series, horizon []time.Time, drivers map[string]*timeseries.Series) *Exog {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)

	ex := &Exog{
		History: newRows(target.Len()),
		Future:  newRows(len(horizon)),
	}

	for _, name := range names {
		hist, fut, ok := alignDriver(drivers[name], target, horizon)
		if !ok {
			ex.Dropped = append(ex.Dropped, name)
			continue
		}
		ex.Names = append(ex.Names, name)
		for i, v := range hist {
			ex.History[i] = append(ex.History[i], v)
		}
		for i, v := range fut {
			ex.Future[i] = append(ex.Future[i], v)
		}
	}

	return ex
}

// alignDriver maps one driver onto the target dates and horizon dates. The
// third return is false when the driver has no finite values.
func alignDriver(driver, target *timeseries.Series, horizon []time.Time) (hist, fut []float64, ok bool) {
	byDate := make(map[time.Time]float64, driver.Len())
	for i, d := range driver.Dates {
		byDate[timeseries.Day(d)] = driver.Values[i]
	}

	hist = make([]float64, target.Len())
	for i, d := range target.Dates {
		v, present := byDate[timeseries.Day(d)]
		if !present {
			v = math.NaN()
		}
		hist[i] = v
	}

	aligned, err := timeseries.NewWithDates(target.Dates, hist)
	if err != nil {
		return nil, nil, false
	}
	clean, err := timeseries.Sanitize(timeseries.Interpolate(aligned))
	if err != nil {
		return nil, nil, false
	}
	hist = clean.Values

	// Horizon values come from the driver where it defines the date;
	// anything else carries the last known value forward.
	last := hist[len(hist)-1]
	fut = make([]float64, len(horizon))
	for i, d := range horizon {
		v, present := byDate[timeseries.Day(d)]
		if present && !math.IsNaN(v) && !math.IsInf(v, 0) {
			last = v
		}
		fut[i] = last
	}

	return hist, fut, true
}

// Empty reports whether no driver survived alignment.
func (e *Exog) Empty() bool {
	return e == nil || len(e.Names) == 0
}

// HistoryMatrix returns the history rows as a dense matrix, or nil when
// there are no drivers.
func (e *Exog) HistoryMatrix() *mat.Dense {
	return toMatrix(e, e.History)
}

// FutureMatrix returns the horizon rows as a dense matrix, or nil when
// there are no drivers.
func (e *Exog) FutureMatrix() *mat.Dense {
	return toMatrix(e, e.Future)
}

// HistoryColumns returns the history values keyed by driver name.
func (e *Exog) HistoryColumns() map[string][]float64 {
	return toColumns(e, e.History)
}

// FutureColumns returns the horizon values keyed by driver name.
func (e *Exog) FutureColumns() map[string][]float64 {
	return toColumns(e, e.Future)
}

func newRows(n int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = []float64{}
	}
	return rows
}

func toMatrix(e *Exog, rows [][]float64) *mat.Dense {
	if e.Empty() || len(rows) == 0 {
		return nil
	}
	k := len(e.Names)
	data := make([]float64, 0, len(rows)*k)
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), k, data)
}

func toColumns(e *Exog, rows [][]float64) map[string][]float64 {
	if e.Empty() {
		return nil
	}
	cols := make(map[string][]float64, len(e.Names))
	for j, name := range e.Names {
		col := make([]float64, len(rows))
		for i, row := range rows {
			col[i] = row[j]
		}
		cols[name] = col
	}
	return cols
}
