package ingest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"BioDash/internal/model"
)

// Column headers accepted in the source file. The original spreadsheet uses
// the Portuguese names; anglicized exports are accepted too.
var columnAliases = map[string]string{
	"data":             "date",
	"date":             "date",
	"estado":           "state",
	"state":            "state",
	"cidade":           "city",
	"city":             "city",
	"agente biológico": "agent",
	"agente biologico": "agent",
	"agente_biologico": "agent",
	"agent":            "agent",
	"preço":            "price",
	"preco":            "price",
	"price":            "price",
}

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// CSVLoader loads purchase records from a CSV file on disk.
type CSVLoader struct {
	Path string
}

// NewCSVLoader creates a loader for the given file path.
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{Path: path}
}

func (l *CSVLoader) Name() string { return "csv" }

// Load reads and cleans the source file. Rows with a missing field, an
// unparseable date, or a price that is not a positive number are dropped
// and counted, never surfaced as errors.
func (l *CSVLoader) Load(ctx context.Context) (*model.SourceData, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	src := &model.SourceData{
		Fingerprint: hex.EncodeToString(sum[:]),
		LoadedAt:    time.Now(),
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("source %s: no header row", l.Path)
	}

	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", l.Path, err)
	}

	for _, rec := range records[1:] {
		row, ok := parseRow(rec, cols)
		if !ok {
			src.DroppedRows++
			continue
		}
		src.Rows = append(src.Rows, row)
	}
	return src, nil
}

// mapColumns resolves header names to field positions. All five columns
// must be present.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, 5)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if field, ok := columnAliases[key]; ok {
			cols[field] = i
		}
	}
	for _, field := range []string{"date", "state", "city", "agent", "price"} {
		if _, ok := cols[field]; !ok {
			return nil, fmt.Errorf("missing column %q", field)
		}
	}
	return cols, nil
}

func parseRow(rec []string, cols map[string]int) (model.PurchaseRecord, bool) {
	get := func(field string) (string, bool) {
		i := cols[field]
		if i >= len(rec) {
			return "", false
		}
		v := strings.TrimSpace(rec[i])
		return v, v != ""
	}

	dateStr, ok := get("date")
	if !ok {
		return model.PurchaseRecord{}, false
	}
	state, ok := get("state")
	if !ok {
		return model.PurchaseRecord{}, false
	}
	city, ok := get("city")
	if !ok {
		return model.PurchaseRecord{}, false
	}
	agent, ok := get("agent")
	if !ok {
		return model.PurchaseRecord{}, false
	}
	priceStr, ok := get("price")
	if !ok {
		return model.PurchaseRecord{}, false
	}

	date, ok := parseDate(dateStr)
	if !ok {
		return model.PurchaseRecord{}, false
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(priceStr, ",", "."), 64)
	if err != nil || price <= 0 {
		return model.PurchaseRecord{}, false
	}

	return model.PurchaseRecord{
		Date:  date,
		Year:  date.Year(),
		Month: int(date.Month()),
		Day:   date.Day(),
		State: state,
		City:  city,
		Agent: agent,
		Price: price,
	}, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
