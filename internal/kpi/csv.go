package kpi

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"

	"github.com/cleared-dev/ledgerdash/internal/csvfile"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

// File is the KPI path relative to the workbook root.
var File = filepath.Join("kpis", "kpis.csv")

const (
	numFields   = 8
	colID       = 0
	colName     = 1
	colValue    = 2
	colTarget   = 3
	colUnit     = 4
	colTrend    = 5
	colChange   = 6
	colCategory = 7
)

var header = []string{"kpi_id", "name", "value", "target", "unit", "trend", "change", "category"}

// ReadKPIs reads kpis.csv.
func ReadKPIs(r io.Reader) ([]model.KPI, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading KPI CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var kpis []model.KPI
	for i, rec := range records[1:] {
		k, err := UnmarshalKPI(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		kpis = append(kpis, k)
	}
	return kpis, nil
}

// WriteKPIs writes kpis.csv (including header).
func WriteKPIs(w io.Writer, kpis []model.KPI) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, k := range kpis {
		if err := cw.Write(MarshalKPI(k)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalKPI converts a KPI to a CSV row.
func MarshalKPI(k model.KPI) []string {
	row := make([]string, numFields)
	row[colID] = k.ID
	row[colName] = k.Name
	row[colValue] = k.Value.String()
	row[colTarget] = k.Target.String()
	row[colUnit] = k.Unit
	row[colTrend] = string(k.Trend)
	row[colChange] = k.Change.String()
	row[colCategory] = k.Category
	return row
}

// UnmarshalKPI converts a CSV row to a KPI.
func UnmarshalKPI(record []string) (model.KPI, error) {
	if len(record) != numFields {
		return model.KPI{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	value, err := csvfile.ParseDecimal(record[colValue])
	if err != nil {
		return model.KPI{}, err
	}
	target, err := csvfile.ParseDecimal(record[colTarget])
	if err != nil {
		return model.KPI{}, err
	}
	change, err := csvfile.ParseDecimal(record[colChange])
	if err != nil {
		return model.KPI{}, err
	}
	return model.KPI{
		ID:       record[colID],
		Name:     record[colName],
		Value:    value,
		Target:   target,
		Unit:     record[colUnit],
		Trend:    model.Trend(record[colTrend]),
		Change:   change,
		Category: record[colCategory],
	}, nil
}

// Load reads kpis.csv from a workbook root.
func Load(repoRoot string) ([]model.KPI, error) {
	var kpis []model.KPI
	_, err := csvfile.Read(filepath.Join(repoRoot, File), func(r io.Reader) error {
		var err error
		kpis, err = ReadKPIs(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading KPIs: %w", err)
	}
	return kpis, nil
}

// Save writes kpis.csv under a workbook root.
func Save(repoRoot string, kpis []model.KPI) error {
	if err := csvfile.Write(filepath.Join(repoRoot, File), func(w io.Writer) error {
		return WriteKPIs(w, kpis)
	}); err != nil {
		return fmt.Errorf("saving KPIs: %w", err)
	}
	return nil
}
