package strategy

// Regime is the coarse higher-timeframe trend classification gating
// which entry directions are permitted on the base timeframe.
type Regime int

const (
	// RegimeUnknown means the higher-timeframe indicators are still
	// inside warm-up; the instrument is ineligible for entries.
	RegimeUnknown Regime = iota
	RegimeBullish
	RegimeBearish
	RegimeNeutral
)

func (r Regime) String() string {
	switch r {
	case RegimeBullish:
		return "BULLISH"
	case RegimeBearish:
		return "BEARISH"
	case RegimeNeutral:
		return "NEUTRAL"
	default:
		return "UNKNOWN"
	}
}

// RegimeClassifier derives the trend regime from the higher-timeframe
// indicator frame. The directional spread between MA and EMA relative
// to price must clear a neutral band before the regime turns
// directional; inside the band the regime is Neutral.
//
// The classifier is recomputed only on higher-timeframe candle close
// and latches its last value between closes.
type RegimeClassifier struct {
	bandPct float64
	current Regime
}

// NewRegimeClassifier creates a classifier with the given neutral
// band, expressed in percent of close.
func NewRegimeClassifier(bandPct float64) *RegimeClassifier {
	return &RegimeClassifier{
		bandPct: bandPct,
		current: RegimeUnknown,
	}
}

// Update recomputes the regime from the latest higher-timeframe
// values and returns the new state. While the frame is undefined the
// regime stays RegimeUnknown.
func (rc *RegimeClassifier) Update(frame Frame) Regime {
	n := frame.Len()
	if n == 0 {
		return rc.current
	}

	i := n - 1
	ma, maOK := frame.MA(i)
	ema, emaOK := frame.EMA(i)
	close := frame.Close(i)
	if !maOK || !emaOK || close <= 0 {
		rc.current = RegimeUnknown
		return rc.current
	}

	// EMA below MA is the bullish configuration, mirroring the entry
	// crossover convention.
	spread := (ma - ema) / close * 100
	switch {
	case spread > rc.bandPct:
		rc.current = RegimeBullish
	case spread < -rc.bandPct:
		rc.current = RegimeBearish
	default:
		rc.current = RegimeNeutral
	}
	return rc.current
}

// Current returns the latched regime state.
func (rc *RegimeClassifier) Current() Regime {
	return rc.current
}
