// Package dataset adapts CSV files to the in-memory records the pipeline
// consumes.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/storecast/hierarchy"
	"github.com/sartorproj/storecast/timeseries"
)

// SalesRecord is one historical row: the volume a store sold of a product
// family on a date.
type SalesRecord struct {
	Date   time.Time
	Store  string
	Family string
	Sales  float64
}

// TestRecord is one row to predict.
type TestRecord struct {
	ID     string
	Date   time.Time
	Store  string
	Family string
}

const dateFormat = "2006-01-02"

// LoadSales reads historical sales rows. The CSV must carry date, store,
// family and sales columns; a malformed date or a missing key field aborts
// the load.
func LoadSales(r io.Reader) ([]SalesRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	dateIdx, err := findColumn(header, "date", "ds")
	if err != nil {
		return nil, err
	}
	storeIdx, err := findColumn(header, "store_nbr", "store")
	if err != nil {
		return nil, err
	}
	familyIdx, err := findColumn(header, "family", "product_family")
	if err != nil {
		return nil, err
	}
	salesIdx, err := findColumn(header, "sales", "y", "value")
	if err != nil {
		return nil, err
	}

	var records []SalesRecord
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		date, err := time.Parse(dateFormat, field(record, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date: %w", line, err)
		}
		store := field(record, storeIdx)
		family := field(record, familyIdx)
		if store == "" || family == "" {
			return nil, fmt.Errorf("line %d: missing store or family", line)
		}

		records = append(records, SalesRecord{
			Date:   timeseries.Day(date),
			Store:  store,
			Family: family,
			Sales:  parseValue(field(record, salesIdx)),
		})
	}

	return records, nil
}

// LoadTest reads the rows to predict. Every row must carry an id, a date and
// a sub-entity key.
func LoadTest(r io.Reader) ([]TestRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	idIdx, err := findColumn(header, "id", "row_id")
	if err != nil {
		return nil, err
	}
	dateIdx, err := findColumn(header, "date", "ds")
	if err != nil {
		return nil, err
	}
	storeIdx, err := findColumn(header, "store_nbr", "store")
	if err != nil {
		return nil, err
	}
	familyIdx, err := findColumn(header, "family", "product_family")
	if err != nil {
		return nil, err
	}

	var records []TestRecord
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		id := field(record, idIdx)
		if id == "" {
			return nil, fmt.Errorf("line %d: missing row id", line)
		}
		date, err := time.Parse(dateFormat, field(record, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date: %w", line, err)
		}
		store := field(record, storeIdx)
		family := field(record, familyIdx)
		if store == "" || family == "" {
			return nil, fmt.Errorf("line %d: missing store or family", line)
		}

		records = append(records, TestRecord{
			ID:     id,
			Date:   timeseries.Day(date),
			Store:  store,
			Family: family,
		})
	}

	return records, nil
}

// LoadDriver reads a {date, value} driver series, reindexed onto a
// contiguous daily range with NaN where the file skips a day or leaves the
// value blank.
func LoadDriver(r io.Reader) (*timeseries.Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	dateIdx, err := findColumn(header, "date", "ds")
	if err != nil {
		return nil, err
	}

	valueIdx, err := findColumn(header, "value", "y", "dcoilwtico", "price")
	if err != nil {
		// Only a two-column file leaves the value column unambiguous.
		if len(header) != 2 {
			return nil, fmt.Errorf("cannot identify the value column among %v", header)
		}
		valueIdx = 1 - dateIdx
	}

	byDate := make(map[time.Time]float64)
	var first, last time.Time
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		date, err := time.Parse(dateFormat, field(record, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date: %w", line, err)
		}
		d := timeseries.Day(date)
		byDate[d] = parseValue(field(record, valueIdx))

		if first.IsZero() || d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	if len(byDate) == 0 {
		return nil, fmt.Errorf("no driver rows found")
	}

	return reindexDaily(byDate, first, last), nil
}

// LoadEvents reads a {date, type} event calendar and returns the distinct
// event dates.
func LoadEvents(r io.Reader) ([]time.Time, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	dateIdx, err := findColumn(header, "date", "ds")
	if err != nil {
		return nil, err
	}

	seen := make(map[time.Time]bool)
	var dates []time.Time
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		date, err := time.Parse(dateFormat, field(record, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date: %w", line, err)
		}
		d := timeseries.Day(date)
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}

	return dates, nil
}

// EventIndicator builds a binary series over the given dates: 1 where the
// date is an event, 0 elsewhere.
func EventIndicator(dates []time.Time, events []time.Time) *timeseries.Series {
	set := make(map[time.Time]bool, len(events))
	for _, d := range events {
		set[timeseries.Day(d)] = true
	}

	values := make([]float64, len(dates))
	for i, d := range dates {
		if set[timeseries.Day(d)] {
			values[i] = 1
		}
	}
	s, _ := timeseries.NewWithDates(dates, values)
	return s
}

// DailyTotals sums sales per day over a contiguous daily range from the
// first to the last observed date. Days with no rows at all are NaN.
func DailyTotals(records []SalesRecord) *timeseries.Series {
	totals := make(map[time.Time]float64)
	var first, last time.Time
	for _, rec := range records {
		if math.IsNaN(rec.Sales) || math.IsInf(rec.Sales, 0) {
			continue
		}
		d := timeseries.Day(rec.Date)
		totals[d] += rec.Sales
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	if len(totals) == 0 {
		return &timeseries.Series{}
	}

	s := reindexDaily(totals, first, last)
	s.Name = "daily_totals"
	return s
}

// Observations converts sales records into the disaggregator's historical
// observations.
func Observations(records []SalesRecord) []hierarchy.Observation {
	out := make([]hierarchy.Observation, len(records))
	for i, rec := range records {
		out[i] = hierarchy.Observation{
			Key:   hierarchy.Key{Store: rec.Store, Family: rec.Family},
			Value: rec.Sales,
		}
	}
	return out
}

// Requests converts test records into disaggregation requests, preserving
// their order.
func Requests(records []TestRecord) []hierarchy.Request {
	out := make([]hierarchy.Request, len(records))
	for i, rec := range records {
		out[i] = hierarchy.Request{
			ID:   rec.ID,
			Date: rec.Date,
			Key:  hierarchy.Key{Store: rec.Store, Family: rec.Family},
		}
	}
	return out
}

// WriteSubmission writes one {id, sales} row per submission row, in order.
func WriteSubmission(w io.Writer, rows []hierarchy.SubmissionRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "sales"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{row.ID, strconv.FormatFloat(row.Sales, 'f', -1, 64)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// LoadSalesFile, LoadTestFile and LoadDriverFile are file-path conveniences
// over the reader variants.
func LoadSalesFile(filename string) ([]SalesRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadSales(file)
}

func LoadTestFile(filename string) ([]TestRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadTest(file)
}

func LoadDriverFile(filename string) (*timeseries.Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadDriver(file)
}

func LoadEventsFile(filename string) ([]time.Time, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadEvents(file)
}

// reindexDaily lays the dated values onto every day from first to last,
// inclusive, with NaN for absent days.
func reindexDaily(byDate map[time.Time]float64, first, last time.Time) *timeseries.Series {
	n := int(last.Sub(first).Hours()/24) + 1
	dates := make([]time.Time, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		d := first.AddDate(0, 0, i)
		dates[i] = d
		v, ok := byDate[d]
		if !ok {
			v = math.NaN()
		}
		values[i] = v
	}
	s, _ := timeseries.NewWithDates(dates, values)
	return s
}

// findColumn returns the index of the first header matching any of the
// names, case-insensitively.
func findColumn(header []string, names ...string) (int, error) {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.Trim(h, "\"")))
		for _, name := range names {
			if h == name {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("column %q not found", names[0])
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(strings.Trim(record[idx], "\""))
}

// parseValue parses a numeric cell, mapping blanks and NA markers to NaN.
func parseValue(s string) float64 {
	if s == "" || s == "NA" || s == "NaN" || s == "null" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
