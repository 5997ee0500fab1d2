package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/xsignal-labs/xma-bot/internal/config"
	"github.com/xsignal-labs/xma-bot/internal/engine"
	"github.com/xsignal-labs/xma-bot/internal/exchange/bybit"
	"github.com/xsignal-labs/xma-bot/internal/logger"
	"github.com/xsignal-labs/xma-bot/internal/monitoring"
	"github.com/xsignal-labs/xma-bot/internal/safety"
	"github.com/xsignal-labs/xma-bot/internal/strategy"
	"github.com/xsignal-labs/xma-bot/pkg/types"
)

// warmupCandles primes the indicator pipelines before live polling.
const warmupCandles = 300

func main() {
	var (
		configFile = flag.String("config", "", "Configuration file (JSON)")
		envFile    = flag.String("env", ".env", "Environment file path")
		pollEvery  = flag.Duration("poll", 30*time.Second, "Feed polling interval")
		logLevel   = flag.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
		logDir     = flag.String("log-dir", "", "Directory for dated log files (console only when empty)")
	)
	flag.Parse()

	bootLog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *configFile == "" {
		bootLog.Fatal().Msg("please specify a config file with -config")
	}
	if err := godotenv.Load(*envFile); err != nil {
		bootLog.Warn().Err(err).Str("file", *envFile).Msg("no .env file loaded, using process environment")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log, logCloser, err := logger.New(logger.Options{
		Level:    *logLevel,
		Pretty:   true,
		Dir:      *logDir,
		Symbol:   cfg.Symbol,
		Interval: cfg.Interval,
	})
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to set up logging")
	}
	defer logCloser.Close()

	baseInterval, err := bybit.ParseInterval(cfg.Interval)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid base interval")
	}
	higherInterval, err := bybit.ParseInterval(cfg.HigherInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid higher interval")
	}

	client := bybit.NewClient(bybit.Config{
		APIKey:    cfg.Exchange.APIKey,
		APISecret: cfg.Exchange.APISecret,
		Testnet:   cfg.Exchange.Testnet,
		Demo:      cfg.Exchange.Demo,
	})

	printStartupInfo(cfg)

	if cfg.Monitoring.MetricsPort > 0 {
		go serveMetrics(cfg.Monitoring.MetricsPort, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot := &liveBot{
		cfg:            cfg,
		client:         client,
		engine:         engine.New(cfg.Symbol, cfg.Strategy, log),
		baseInterval:   baseInterval,
		higherInterval: higherInterval,
		limiter:        safety.NewRateLimiter(10, 5),
		breaker:        safety.NewCircuitBreaker(5, 2*time.Minute),
		log:            log.With().Str("symbol", cfg.Symbol).Logger(),
	}

	if err := bot.warmup(ctx); err != nil {
		log.Fatal().Err(err).Msg("warm-up failed")
	}
	bot.run(ctx, *pollEvery)

	log.Info().Msg("shutting down")
}

// liveBot polls closed candles from the feed and pushes them through
// the per-instrument engine. It emits decisions; order placement is
// the execution collaborator's job.
type liveBot struct {
	cfg            *config.Config
	client         *bybit.Client
	engine         *engine.Engine
	baseInterval   bybit.KlineInterval
	higherInterval bybit.KlineInterval
	limiter        *safety.RateLimiter
	breaker        *safety.CircuitBreaker
	log            zerolog.Logger

	lastBase   time.Time
	lastHigher time.Time
}

// warmup loads recent history for both timeframes so the indicator
// pipelines are past their warm-up before the first live decision.
func (b *liveBot) warmup(ctx context.Context) error {
	if err := b.feedHigher(ctx, warmupCandles); err != nil {
		return err
	}
	if err := b.feedBase(ctx, warmupCandles); err != nil {
		return err
	}
	b.log.Info().Msg("warm-up complete")
	return nil
}

func (b *liveBot) run(ctx context.Context, pollEvery time.Duration) {
	ticker := time.NewTicker(pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !b.breaker.Ready() {
				b.log.Debug().Msg("feed breaker open, skipping poll cycle")
				continue
			}
			// Higher timeframe first so a fresh regime gates the same
			// cycle's base candles.
			if err := b.feedHigher(ctx, 10); err != nil {
				b.log.Error().Err(err).Msg("higher timeframe poll failed")
			}
			if err := b.feedBase(ctx, 10); err != nil {
				b.log.Error().Err(err).Msg("base timeframe poll failed")
			}
		}
	}
}

func (b *liveBot) feedHigher(ctx context.Context, limit int) error {
	candles, err := b.fetchNew(ctx, b.higherInterval, limit, &b.lastHigher)
	if err != nil {
		return err
	}
	for _, c := range candles {
		if err := b.engine.OnHigherCandle(c); err != nil {
			if errors.Is(err, engine.ErrInvalidCandle) {
				b.log.Warn().Err(err).Msg("rejected higher timeframe candle")
				continue
			}
			return err
		}
	}
	return nil
}

func (b *liveBot) feedBase(ctx context.Context, limit int) error {
	candles, err := b.fetchNew(ctx, b.baseInterval, limit, &b.lastBase)
	if err != nil {
		return err
	}
	for _, c := range candles {
		eval, err := b.engine.OnBaseCandle(c)
		if err != nil {
			if errors.Is(err, engine.ErrInvalidCandle) {
				b.log.Warn().Err(err).Msg("rejected base candle")
				continue
			}
			return err
		}
		monitoring.RecordPrice(b.cfg.Symbol, c.Close)

		if eval.Decision != strategy.DecisionNone {
			b.log.Info().
				Stringer("decision", eval.Decision).
				Stringer("regime", eval.Regime).
				Float64("price", c.Close).
				Float64("stop", eval.StopPrice).
				Float64("leverage", eval.Leverage).
				Time("candle", c.Timestamp).
				Msg("decision")
		}
	}
	return nil
}

// fetchNew returns closed candles newer than the last fed timestamp
// and advances it.
func (b *liveBot) fetchNew(ctx context.Context, interval bybit.KlineInterval, limit int, last *time.Time) ([]types.OHLCV, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	candles, err := b.client.ClosedKlines(ctx, bybit.KlineParams{
		Category: b.cfg.Exchange.Category,
		Symbol:   b.cfg.Symbol,
		Interval: interval,
		Limit:    limit,
	})
	b.breaker.Record(err)
	if err != nil {
		return nil, err
	}

	var fresh []types.OHLCV
	for _, c := range candles {
		if c.Timestamp.After(*last) {
			fresh = append(fresh, c)
			*last = c.Timestamp
		}
	}
	return fresh, nil
}

func serveMetrics(port int, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("metrics endpoint listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics endpoint stopped")
	}
}

func printStartupInfo(cfg *config.Config) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("SIGNAL ENGINE")
	t.SetStyle(table.StyleRounded)
	t.AppendRows([]table.Row{
		{"Symbol", cfg.Symbol},
		{"Interval", cfg.Interval},
		{"Higher interval", cfg.HigherInterval},
		{"Signal", string(cfg.Strategy.Signal)},
		{"Exchange", cfg.Exchange.Name},
		{"Category", cfg.Exchange.Category},
		{"Demo", cfg.Exchange.Demo},
	})
	t.Render()
	fmt.Println()
}
