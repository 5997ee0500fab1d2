package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/xsignal-labs/xma-bot/internal/config"
	"github.com/xsignal-labs/xma-bot/internal/engine"
	"github.com/xsignal-labs/xma-bot/internal/logger"
	"github.com/xsignal-labs/xma-bot/internal/strategy"
	"github.com/xsignal-labs/xma-bot/pkg/data"
	"github.com/xsignal-labs/xma-bot/pkg/reporting"
	"github.com/xsignal-labs/xma-bot/pkg/types"
)

func main() {
	var (
		configFile = flag.String("config", "", "Configuration file (JSON); defaults when empty")
		dataFile   = flag.String("data", "", "Base-timeframe candle CSV file")
		htfRatio   = flag.Int("htf-ratio", 4, "Base candles aggregated into one higher-timeframe candle")
		excelOut   = flag.String("excel", "", "Optional path for an Excel report of the run")
		verbose    = flag.Bool("v", false, "Verbose engine logging")
	)
	flag.Parse()

	if *dataFile == "" {
		fmt.Fprintln(os.Stderr, "Please specify a candle CSV with -data")
		os.Exit(1)
	}
	if *htfRatio < 2 {
		fmt.Fprintln(os.Stderr, "-htf-ratio must be at least 2")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, logCloser, err := logger.New(logger.Options{Level: level, Pretty: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	result, err := runReplay(cfg, *dataFile, *htfRatio, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Replay failed: %v\n", err)
		os.Exit(1)
	}

	console := reporting.NewConsoleReporter()
	console.PrintSummary(result)
	console.PrintDecisions(result)

	if *excelOut != "" {
		if err := reporting.NewExcelReporter().WriteReplayXLSX(result, *excelOut); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write Excel report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Excel report written to %s\n", *excelOut)
	}
}

// runReplay streams the CSV through a fresh engine, aggregating every
// htfRatio base candles into one higher-timeframe candle.
func runReplay(cfg *config.Config, dataFile string, htfRatio int, logger zerolog.Logger) (*reporting.ReplayResult, error) {
	candles, skipped, err := data.NewCSVProvider().LoadData(dataFile)
	if err != nil {
		return nil, err
	}

	eng := engine.New(cfg.Symbol, cfg.Strategy, logger)
	result := &reporting.ReplayResult{
		Symbol:      cfg.Symbol,
		DataFile:    dataFile,
		Candles:     len(candles),
		SkippedRows: skipped,
	}

	var agg aggregator
	for _, candle := range candles {
		eval, err := eng.OnBaseCandle(candle)
		if err != nil {
			if errors.Is(err, engine.ErrInvalidCandle) {
				result.BadCandles++
				continue
			}
			return nil, err
		}

		if eval.Decision != strategy.DecisionNone {
			result.Events = append(result.Events, reporting.DecisionEvent{
				Index:     eval.Index,
				Timestamp: candle.Timestamp,
				Decision:  eval.Decision.String(),
				Regime:    eval.Regime.String(),
				Price:     candle.Close,
				Stop:      eval.StopPrice,
				Leverage:  eval.Leverage,
			})
		}

		if higher, done := agg.push(candle, htfRatio); done {
			if err := eng.OnHigherCandle(higher); err != nil && !errors.Is(err, engine.ErrInvalidCandle) {
				return nil, err
			}
		}
	}
	return result, nil
}

// aggregator folds consecutive base candles into one higher-timeframe
// candle.
type aggregator struct {
	current types.OHLCV
	count   int
}

func (a *aggregator) push(c types.OHLCV, ratio int) (types.OHLCV, bool) {
	if a.count == 0 {
		a.current = c
	} else {
		if c.High > a.current.High {
			a.current.High = c.High
		}
		if c.Low < a.current.Low {
			a.current.Low = c.Low
		}
		a.current.Close = c.Close
		a.current.Volume += c.Volume
	}
	a.count++

	if a.count < ratio {
		return types.OHLCV{}, false
	}
	done := a.current
	a.count = 0
	return done, true
}
