package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/xsignal-labs/xma-bot/pkg/types"
)

// CSVColumnMapping describes which columns of a CSV file carry which
// candle field, plus the timestamp layout.
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormat   string // Go time layout; empty means unix milliseconds
}

// DefaultCSVFormat matches the common exchange export layout:
// timestamp,open,high,low,close,volume with millisecond timestamps.
var DefaultCSVFormat = CSVColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
}

// CSVProvider loads historical candles from CSV files.
type CSVProvider struct {
	format CSVColumnMapping
}

// NewCSVProvider creates a provider with the default column layout.
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{format: DefaultCSVFormat}
}

// NewCSVProviderWithFormat creates a provider with a custom layout.
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{format: format}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads candles from a CSV file, in file order. Rows that
// fail to parse are returned in the skipped count rather than
// aborting the whole load.
func (p *CSVProvider) LoadData(source string) ([]types.OHLCV, int, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Ragged rows are handled per-row in parseRow, not by the reader.
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var (
		candles []types.OHLCV
		skipped int
		lineNum = 1
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		candle, err := p.parseRow(record)
		if err != nil {
			skipped++
			continue
		}
		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, skipped, fmt.Errorf("no usable candles in %s", source)
	}
	return candles, skipped, nil
}

func (p *CSVProvider) parseRow(record []string) (types.OHLCV, error) {
	f := p.format
	if len(record) < f.MinColumns {
		return types.OHLCV{}, fmt.Errorf("expected at least %d columns, got %d", f.MinColumns, len(record))
	}

	timestamp, err := p.parseTimestamp(record[f.TimestampCol])
	if err != nil {
		return types.OHLCV{}, err
	}

	fields := [5]float64{}
	for i, col := range [5]int{f.OpenCol, f.HighCol, f.LowCol, f.CloseCol, f.VolumeCol} {
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			return types.OHLCV{}, fmt.Errorf("invalid value %q: %w", record[col], err)
		}
		fields[i] = v
	}

	return types.OHLCV{
		Timestamp: timestamp,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, nil
}

func (p *CSVProvider) parseTimestamp(raw string) (time.Time, error) {
	if p.format.DateFormat != "" {
		return time.Parse(p.format.DateFormat, raw)
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return time.UnixMilli(ms), nil
}
