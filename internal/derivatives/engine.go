// Package derivatives computes Hessian square roots of negative
// log-likelihood losses w.r.t. their raw input.
//
// For a loss ℓ(x, y) = -log p(y | x), the expected outer product of the
// score ∇ₓ[-log p(ŷ | x)] over samples ŷ ~ p(· | x) equals the Hessian
// ∇²ₓℓ. The Engine draws such samples from the distribution an Adapter
// builds, turns each into a score and scales the result by the loss's
// reduction, so that for every example the outer-product sum of its rows of
// the returned factors estimates that example's Hessian block without ever
// forming it.
//
// Usage:
//
//	engine, err := derivatives.NewEngineFor(loss, derivatives.DefaultConfig())
//	snap, err := nn.NewSnapshot(loss, logits, labels)
//	est, err := engine.Compute(snap, derivatives.Request{MCSamples: 16})
package derivatives

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/born-ml/secondorder/internal/autodiff"
	"github.com/born-ml/secondorder/internal/nn"
	"github.com/born-ml/secondorder/internal/tensor"
	"golang.org/x/exp/rand"
)

// Request describes one derivative request.
type Request struct {
	// Subsampling selects batch entries (dimension 0) in order; repeats are
	// allowed. Nil uses the full batch.
	Subsampling []int

	// MCSamples is the number of Monte-Carlo samples. Zero uses the
	// engine's configured default.
	MCSamples int

	// Exact requests the adapter's closed-form factorization instead of
	// sampling.
	Exact bool
}

// Engine is the distribution-sampling engine. It is stateless between
// requests and safe for concurrent use as long as each request brings its
// own random source.
type Engine struct {
	adapter Adapter
	cfg     Config
	log     *slog.Logger
}

// NewEngine creates an engine around adapter.
func NewEngine(adapter Adapter, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Engine{
		adapter: adapter,
		cfg:     cfg,
		log:     logger,
	}
}

// NewEngineFor dispatches on m's loss family and creates an engine for it.
func NewEngineFor(m nn.Module, cfg Config) (*Engine, error) {
	adapter, err := AdapterFor(m)
	if err != nil {
		return nil, err
	}
	return NewEngine(adapter, cfg), nil
}

// Adapter returns the engine's adapter.
func (e *Engine) Adapter() Adapter {
	return e.adapter
}

// Compute serves a request with the configured strategy and seed.
// With Config.Seed >= 0 repeated calls return bit-identical estimates.
func (e *Engine) Compute(snap *nn.Snapshot, req Request) (*Estimate, error) {
	if req.Exact {
		return e.SqrtHessian(snap, req.Subsampling)
	}
	samples := req.MCSamples
	if samples == 0 {
		samples = e.cfg.MCSamples
	}
	return e.SqrtHessianSampled(snap, req.Subsampling, samples, e.newSource())
}

func (e *Engine) newSource() rand.Source {
	if e.cfg.Seed >= 0 {
		return rand.NewSource(uint64(e.cfg.Seed))
	}
	return rand.NewSource(rand.Uint64())
}

// SqrtHessianSampled returns mcSamples factors whose per-example
// outer-product sums estimate the Hessian blocks of the reduced loss w.r.t.
// the subsampled input. See Estimate for the factor convention.
//
// Support is verified before the first draw from src. The snapshot is only
// read.
func (e *Engine) SqrtHessianSampled(snap *nn.Snapshot, subsampling []int, mcSamples int, src rand.Source) (*Estimate, error) {
	if mcSamples < 1 {
		return nil, precondition("mcSamples must be >= 1, got %d", mcSamples)
	}
	if src == nil {
		return nil, precondition("nil random source")
	}
	input, scale, err := e.prepare(snap, subsampling)
	if err != nil {
		return nil, err
	}

	dist := e.adapter.MakeDistribution(input)
	scoreFn, closedForm := dist.(ScoreFunction)
	if e.cfg.Strategy == StrategyManual && !closedForm {
		e.log.Debug("no closed-form score, differentiating the NLL on a tape",
			"loss", snap.Module().Name())
	}
	useTape := e.cfg.Strategy == StrategyAutograd || !closedForm
	var rec *autodiff.Recorder
	if useTape {
		rec = autodiff.New()
	}

	factors := make([]*tensor.Dense, mcSamples)
	for m := range factors {
		sample := dist.Sample(src)
		if useTape {
			factors[m], err = tapeScore(rec, dist, input, sample)
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", m, err)
			}
			continue
		}
		factors[m] = scoreFn.NLLGrad(sample)
	}

	scale /= math.Sqrt(float64(mcSamples))
	for _, f := range factors {
		tensor.ScaleInPlace(f, scale)
	}

	e.log.Debug("sampled Hessian square root",
		"loss", snap.Module().Name(),
		"samples", mcSamples,
		"strategy", e.cfg.Strategy.String(),
		"examples", input.Shape()[0])

	return &Estimate{Factors: factors}, nil
}

// SqrtHessian returns the adapter's exact factorization, normalized like
// SqrtHessianSampled. Adapters without one yield ErrNoExactForm.
func (e *Engine) SqrtHessian(snap *nn.Snapshot, subsampling []int) (*Estimate, error) {
	exact, ok := e.adapter.(ExactSqrtHessian)
	if !ok {
		return nil, ErrNoExactForm
	}
	input, scale, err := e.prepare(snap, subsampling)
	if err != nil {
		return nil, err
	}

	factors := exact.ExactFactors(input)
	for _, f := range factors {
		tensor.ScaleInPlace(f, scale)
	}
	return &Estimate{Factors: factors}, nil
}

// prepare validates the request and returns the subsampled input together
// with the reduction's factor 1/sqrt(divisor).
func (e *Engine) prepare(snap *nn.Snapshot, subsampling []int) (*tensor.Dense, float64, error) {
	if err := snap.Validate(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	if err := e.adapter.VerifySupport(snap); err != nil {
		var uerr *UnsupportedError
		if errors.As(err, &uerr) {
			e.log.Debug("loss configuration rejected",
				"loss", uerr.Loss,
				"constraint", uerr.Constraint.String())
		}
		return nil, 0, err
	}

	scale, err := e.normalization(snap)
	if err != nil {
		return nil, 0, err
	}

	input, err := snap.Input().IndexSelect(subsampling)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	return input, scale, nil
}

func (e *Engine) normalization(snap *nn.Snapshot) (float64, error) {
	switch r := snap.Module().ReductionMode(); r {
	case nn.ReductionSum:
		return 1, nil
	case nn.ReductionMean:
		divisor := e.adapter.MeanNormalization(snap.Input())
		e.log.Debug("mean normalization", "loss", snap.Module().Name(), "divisor", divisor)
		return 1 / math.Sqrt(float64(divisor)), nil
	default:
		return 0, unsupported(snap.Module(), ConstraintReduction, "reduction %q is not supported", r)
	}
}

// tapeScore differentiates -log p(sample | input) w.r.t. a fresh copy of
// input. The tape of rec is reset, so one recorder serves every sample.
func tapeScore(rec *autodiff.Recorder, dist Distribution, input, sample *tensor.Dense) (*tensor.Dense, error) {
	tape := rec.Tape()
	tape.Clear()
	tape.StartRecording()

	x := input.Clone()
	nll := dist.RecordNLL(rec, x, sample)
	tape.StopRecording()
	return tape.Gradient(nll, x)
}
