package reporting

import "time"

// DecisionEvent is one non-neutral engine decision from a replay run.
type DecisionEvent struct {
	Index     int
	Timestamp time.Time
	Decision  string
	Regime    string
	Price     float64
	Stop      float64
	Leverage  float64
}

// ReplayResult summarizes one replay run of the decision engine.
type ReplayResult struct {
	Symbol      string
	DataFile    string
	Candles     int
	SkippedRows int
	BadCandles  int
	Events      []DecisionEvent
}

// Entries counts the entry decisions in the run.
func (r *ReplayResult) Entries() int {
	n := 0
	for _, e := range r.Events {
		if e.Decision == "ENTER_LONG" || e.Decision == "ENTER_SHORT" {
			n++
		}
	}
	return n
}

// Exits counts the exit decisions in the run.
func (r *ReplayResult) Exits() int {
	n := 0
	for _, e := range r.Events {
		if e.Decision == "EXIT_LONG" || e.Decision == "EXIT_SHORT" {
			n++
		}
	}
	return n
}
