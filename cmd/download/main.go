package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xsignal-labs/xma-bot/internal/exchange/bybit"
	"github.com/xsignal-labs/xma-bot/internal/logger"
	"github.com/xsignal-labs/xma-bot/internal/safety"
	"github.com/xsignal-labs/xma-bot/pkg/types"
)

// pageLimit is Bybit's maximum klines per request.
const pageLimit = 1000

func main() {
	var (
		symbol   = flag.String("symbol", "BTCUSDT", "Trading symbol (e.g. BTCUSDT)")
		interval = flag.String("interval", "15m", "Timeframe (1m, 5m, 15m, 1h, 4h, 1d, ...)")
		category = flag.String("category", "linear", "Market category (spot, linear, inverse)")
		start    = flag.String("start", "", "Start date (YYYY-MM-DD), required")
		end      = flag.String("end", "", "End date (YYYY-MM-DD), defaults to now")
		output   = flag.String("output", "", "Output CSV path (default <outdir>/<symbol>_<interval>.csv)")
		outdir   = flag.String("outdir", "data", "Directory for the output file")
	)
	flag.Parse()

	log, closer, err := logger.New(logger.Options{Pretty: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	apiInterval, err := bybit.ParseInterval(*interval)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid interval")
	}

	if *start == "" {
		log.Fatal().Msg("please specify a start date with -start")
	}
	startTime, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid start date")
	}
	endTime := time.Now()
	if *end != "" {
		endTime, err = time.Parse("2006-01-02", *end)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid end date")
		}
	}

	path := *output
	if path == "" {
		name := fmt.Sprintf("%s_%s.csv", strings.ToUpper(*symbol), *interval)
		path = filepath.Join(*outdir, name)
	}

	client := bybit.NewClient(bybit.Config{})
	limiter := safety.NewRateLimiter(10, 5)
	ctx := context.Background()

	log.Info().Str("symbol", *symbol).Str("interval", *interval).
		Time("start", startTime).Time("end", endTime).Msg("downloading klines")

	candles, err := downloadRange(ctx, client, limiter, bybit.KlineParams{
		Category: *category,
		Symbol:   strings.ToUpper(*symbol),
		Interval: apiInterval,
	}, startTime, endTime)
	if err != nil {
		log.Fatal().Err(err).Msg("download failed")
	}
	if len(candles) == 0 {
		log.Fatal().Msg("no candles in the requested range")
	}

	if err := writeCSV(path, candles); err != nil {
		log.Fatal().Err(err).Msg("failed to write CSV")
	}
	log.Info().Int("candles", len(candles)).Str("file", path).Msg("download complete")
}

// downloadRange pages through the kline endpoint oldest-first until
// the end of the range.
func downloadRange(ctx context.Context, client *bybit.Client, limiter *safety.RateLimiter,
	params bybit.KlineParams, start, end time.Time) ([]types.OHLCV, error) {

	var all []types.OHLCV
	cursor := start
	for cursor.Before(end) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		params.Start = &cursor
		params.End = &end
		params.Limit = pageLimit
		page, err := client.GetKlines(ctx, params)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		for _, c := range page {
			if c.Timestamp.Before(start) || c.Timestamp.After(end) {
				continue
			}
			all = append(all, c)
		}

		last := page[len(page)-1].Timestamp
		if !last.After(cursor.Add(-time.Millisecond)) {
			break // no forward progress, end of available history
		}
		cursor = last.Add(time.Millisecond)
	}
	return all, nil
}

// writeCSV writes candles in the layout the replay tool reads:
// timestamp,open,high,low,close,volume with millisecond timestamps.
func writeCSV(path string, candles []types.OHLCV) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, c := range candles {
		row := []string{
			strconv.FormatInt(c.Timestamp.UnixMilli(), 10),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
			strconv.FormatFloat(c.Volume, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
