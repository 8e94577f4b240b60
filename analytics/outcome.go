// Package analytics turns a trade collection into performance statistics.
//
// Every function is pure: it reads the slice it is handed, never mutates
// it, and returns freshly allocated results. Nothing is cached between
// calls, so callers recompute whenever the collection or filter changes.
package analytics

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rustyeddy/tradejournal/journal"
)

// Epsilon is the half width of the break-even band around zero R.
const Epsilon = 0.0001

// Outcome classifies a single trade result.
type Outcome int

const (
	BreakEven Outcome = iota
	Win
	Loss
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "Win"
	case Loss:
		return "Loss"
	default:
		return "BE"
	}
}

// Classify maps an R result to Win, Loss or BreakEven.
func Classify(r float64) Outcome {
	switch {
	case r > Epsilon:
		return Win
	case r < -Epsilon:
		return Loss
	default:
		return BreakEven
	}
}

// R returns the trade's realised R with NaN and infinities coerced to 0.
func R(t journal.Trade) float64 {
	r := t.RealisedR
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Factor is a ratio that may be unbounded, such as a profit factor with no
// losing trades. JSON has no infinity literal, so the unbounded value
// travels as the string "Infinity".
type Factor float64

// Unbounded is the +Inf factor.
func Unbounded() Factor { return Factor(math.Inf(1)) }

func (f Factor) IsUnbounded() bool { return math.IsInf(float64(f), 1) }

func (f Factor) Float64() float64 { return float64(f) }

func (f Factor) String() string {
	if f.IsUnbounded() {
		return "∞"
	}
	return fmt.Sprintf("%.2f", float64(f))
}

func (f Factor) MarshalJSON() ([]byte, error) {
	if f.IsUnbounded() {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(float64(f))
}

func (f *Factor) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "Infinity" {
			return fmt.Errorf("factor: unexpected %q", s)
		}
		*f = Unbounded()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Factor(v)
	return nil
}
