package derivatives

import (
	"fmt"
	"log/slog"
)

// Strategy selects how the per-sample score is computed.
type Strategy int

const (
	// StrategyManual uses the distribution's closed-form NLL gradient and
	// falls back to the tape when a distribution has none.
	StrategyManual Strategy = iota

	// StrategyAutograd always differentiates the recorded NLL on a tape.
	StrategyAutograd
)

// String returns "manual" or "autograd".
func (s Strategy) String() string {
	switch s {
	case StrategyManual:
		return "manual"
	case StrategyAutograd:
		return "autograd"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses "manual" or "autograd".
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "manual", "":
		return StrategyManual, nil
	case "autograd":
		return StrategyAutograd, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q (want manual or autograd)", s)
	}
}

// Config configures an Engine.
type Config struct {
	// Strategy selects closed-form or tape-based scores.
	Strategy Strategy

	// MCSamples is the number of Monte-Carlo samples used when a Request
	// leaves it at zero.
	MCSamples int

	// Seed for reproducibility. -1 = random.
	Seed int64

	// Logger receives debug records. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used by NewEngine callers that do
// not care: closed-form scores, one sample, random seed.
func DefaultConfig() Config {
	return Config{
		Strategy:  StrategyManual,
		MCSamples: 1,
		Seed:      -1,
	}
}
