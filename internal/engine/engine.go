package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xsignal-labs/xma-bot/internal/config"
	"github.com/xsignal-labs/xma-bot/internal/indicators"
	"github.com/xsignal-labs/xma-bot/internal/monitoring"
	"github.com/xsignal-labs/xma-bot/internal/strategy"
	"github.com/xsignal-labs/xma-bot/pkg/types"
)

// ErrInvalidCandle flags a data-quality fault in the feed (zero or
// negative close). The evaluation cycle is skipped, not aborted: the
// caller decides whether to alert or drop the instrument.
var ErrInvalidCandle = errors.New("invalid candle")

// Evaluation is the output of one base-timeframe evaluation cycle.
type Evaluation struct {
	Decision  strategy.Decision
	Regime    strategy.Regime
	StopPrice float64 // protective stop while a position is open, else 0
	Leverage  float64 // permitted leverage, set on entry decisions only
	Index     int     // base candle index the cycle evaluated
}

// Engine is the per-instrument decision engine: two indicator
// pipelines (base and higher timeframe), the regime classifier, a
// signal generator, the stop-loss ratchet and the leverage sizer,
// plus the TradeContext of the open position if any.
//
// All state is owned by the instrument. Distinct engines share
// nothing and may run concurrently; within one engine, candles must
// arrive strictly ordered by close time and evaluation is synchronous.
type Engine struct {
	symbol string
	log    zerolog.Logger

	base   *indicators.Pipeline
	higher *indicators.Pipeline

	regime  *strategy.RegimeClassifier
	signals strategy.SignalSource
	stops   *strategy.StopLossEngine
	sizer   *strategy.LeverageSizer

	position *strategy.TradeContext
}

// New builds an engine for one instrument from the strategy config.
func New(symbol string, cfg config.StrategyConfig, log zerolog.Logger) *Engine {
	pipelineParams := indicators.PipelineParams{
		MALength:  cfg.MALength,
		EMALength: cfg.EMALength,
		ATRLength: cfg.ATRLength,
	}

	var signals strategy.SignalSource
	switch cfg.Signal {
	case config.SignalUTBot:
		signals = strategy.NewUTBot(strategy.UTBotParams{
			KeyValue:  cfg.UTBot.KeyValue,
			ATRPeriod: cfg.UTBot.ATRPeriod,
		})
	default:
		signals = strategy.NewSignalGenerator(strategy.SignalParams{
			MinATRPct:             cfg.MinATRPct,
			MinSepPct:             cfg.MinSepPct,
			NeutralMinATRPct:      cfg.NeutralMinATRPct,
			NeutralBreakoutWindow: cfg.NeutralBreakoutWindow,
		})
	}

	return &Engine{
		symbol: symbol,
		log:    log.With().Str("symbol", symbol).Logger(),
		base:   indicators.NewPipeline(pipelineParams),
		higher: indicators.NewPipeline(pipelineParams),
		regime: strategy.NewRegimeClassifier(cfg.RegimeBandPct),
		signals: signals,
		stops: strategy.NewStopLossEngine(strategy.StopParams{
			InitialATRMultiple: cfg.InitialStopATR,
			LockInATRMultiple:  cfg.LockInStopATR,
			LockInTrigger:      cfg.LockInTrigger,
			BreakEvenTrigger:   cfg.BreakEvenTrigger,
			FallbackStop:       cfg.FallbackStopLoss,
			MaxStopLossPct:     cfg.MaxStopLossPct,
		}),
		sizer: strategy.NewLeverageSizer(strategy.LeverageParams{
			HardCap:        cfg.LeverageHardCap,
			ATRFloorPct:    cfg.LeverageATRFloor,
			FallbackATRPct: cfg.LeverageFallbackATRPct,
		}),
	}
}

// OnHigherCandle feeds one closed higher-timeframe candle and advances
// the regime state. Between higher-timeframe closes the regime holds
// its last value.
func (e *Engine) OnHigherCandle(candle types.OHLCV) error {
	if !candle.Valid() {
		monitoring.RecordInvalidCandle(e.symbol)
		return fmt.Errorf("%w: higher timeframe close %.8f at %s",
			ErrInvalidCandle, candle.Close, candle.Timestamp)
	}
	e.higher.Append(candle)
	regime := e.regime.Update(e.higher)
	e.log.Debug().Stringer("regime", regime).Time("candle", candle.Timestamp).
		Msg("higher timeframe close")
	return nil
}

// OnBaseCandle feeds one closed base-timeframe candle and runs one
// evaluation cycle: tighten the stop of an open position, then derive
// at most one Decision. Entry decisions open the internal position
// with its initial stop and entry leverage; exit decisions destroy it.
func (e *Engine) OnBaseCandle(candle types.OHLCV) (Evaluation, error) {
	if !candle.Valid() {
		monitoring.RecordInvalidCandle(e.symbol)
		return Evaluation{}, fmt.Errorf("%w: close %.8f at %s",
			ErrInvalidCandle, candle.Close, candle.Timestamp)
	}

	e.base.Append(candle)
	eval := Evaluation{
		Regime: e.regime.Current(),
		Index:  e.base.Len() - 1,
	}

	if e.position != nil {
		atr, _ := e.base.LastATR()
		prev := e.position.CurrentStop
		eval.StopPrice = e.stops.Update(e.position, candle.Close, atr)
		if eval.StopPrice != prev {
			monitoring.RecordStopTightened(e.symbol)
			e.log.Debug().Float64("stop", eval.StopPrice).Float64("price", candle.Close).
				Msg("stop tightened")
		}
	}

	eval.Decision = e.signals.Evaluate(candle, e.base, eval.Regime, e.positionState())

	switch eval.Decision {
	case strategy.DecisionEnterLong:
		e.openPosition(strategy.Long, candle, &eval)
	case strategy.DecisionEnterShort:
		e.openPosition(strategy.Short, candle, &eval)
	case strategy.DecisionExitLong, strategy.DecisionExitShort:
		e.log.Info().Stringer("decision", eval.Decision).Float64("price", candle.Close).
			Msg("position closed by signal")
		e.position = nil
	}

	if eval.Decision != strategy.DecisionNone {
		monitoring.RecordDecision(e.symbol, eval.Decision.String())
	}
	return eval, nil
}

// Position returns the open position context, or nil when flat. The
// context is owned by the engine; callers must treat it as read-only.
func (e *Engine) Position() *strategy.TradeContext {
	return e.position
}

// Symbol returns the instrument this engine evaluates.
func (e *Engine) Symbol() string {
	return e.symbol
}

func (e *Engine) positionState() strategy.PositionState {
	if e.position == nil {
		return strategy.PositionFlat
	}
	if e.position.Direction == strategy.Long {
		return strategy.PositionLong
	}
	return strategy.PositionShort
}

func (e *Engine) openPosition(dir strategy.Direction, candle types.OHLCV, eval *Evaluation) {
	atr, _ := e.base.LastATR()
	atrPct, atrOK := e.base.LastATRPct()

	e.position = e.stops.Open(dir, candle.Close, atr)
	eval.StopPrice = e.position.CurrentStop
	eval.Leverage = e.sizer.Leverage(atrPct, atrOK)

	monitoring.RecordEntryLeverage(e.symbol, eval.Leverage)
	e.log.Info().Stringer("direction", dir).
		Float64("entry", candle.Close).
		Float64("stop", eval.StopPrice).
		Float64("leverage", eval.Leverage).
		Msg("position opened by signal")
}
