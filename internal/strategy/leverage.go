package strategy

// LeverageParams holds the volatility-to-leverage mapping bounds.
type LeverageParams struct {
	HardCap        float64 // upper leverage bound
	ATRFloorPct    float64 // ATR% at or below which leverage saturates at the cap
	FallbackATRPct float64 // ATR% assumed when volatility is undefined at entry
}

// DefaultLeverageParams matches the reference curve: cap*floor/atrPct
// with a 10x cap and a 0.4% floor is exactly 4/atrPct, saturating at
// 10x for quiet markets.
func DefaultLeverageParams() LeverageParams {
	return LeverageParams{
		HardCap:        10.0,
		ATRFloorPct:    0.4,
		FallbackATRPct: 0.5,
	}
}

// LeverageSizer maps current volatility to the permitted leverage for
// a new position. The mapping is monotonic non-increasing in ATR% and
// bounded to [1, HardCap]: below the floor it saturates at the cap,
// above it leverage decays as cap*floor/atrPct. Leverage is computed
// once at entry and never recomputed mid-trade.
type LeverageSizer struct {
	params LeverageParams
}

// NewLeverageSizer creates a sizer with the given bounds.
func NewLeverageSizer(params LeverageParams) *LeverageSizer {
	return &LeverageSizer{params: params}
}

// Leverage returns the permitted leverage for the given ATR%. ok=false
// means volatility is undefined at entry; the fallback reading is used
// then.
func (s *LeverageSizer) Leverage(atrPct float64, ok bool) float64 {
	if !ok || atrPct <= 0 {
		atrPct = s.params.FallbackATRPct
	}

	lev := s.params.HardCap
	if atrPct > s.params.ATRFloorPct {
		lev = s.params.HardCap * s.params.ATRFloorPct / atrPct
	}

	if lev > s.params.HardCap {
		lev = s.params.HardCap
	}
	if lev < 1 {
		lev = 1
	}
	return lev
}
