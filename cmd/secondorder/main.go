// Package main provides the secondorder CLI.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/secondorder/internal/derivatives"
	"github.com/born-ml/secondorder/internal/nn"
	"github.com/born-ml/secondorder/internal/tensor"
)

const version = "v0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stdout)
		return 0
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "secondorder %s\n", version)
		return 0
	case "sqrt-hessian":
		if err := sqrtHessian(args[1:], stdin, stdout, stderr); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			fmt.Fprintf(stderr, "Error: %v\n", err)
			if errors.Is(err, derivatives.ErrUnsupported) {
				return 3
			}
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "secondorder - sampled Hessian square roots of NLL losses")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version         Show version")
	fmt.Fprintln(w, "  sqrt-hessian    Compute a Hessian square root from a JSON snapshot")
}

// snapshotFile is the JSON form of one loss evaluation.
type snapshotFile struct {
	Loss      string          `json:"loss"`
	Reduction string          `json:"reduction"`
	Input     [][]float64     `json:"input"`
	Target    json.RawMessage `json:"target"`
}

type result struct {
	Loss     string        `json:"loss"`
	Method   string        `json:"method"`
	Shape    []int         `json:"shape"`
	Factors  [][][]float64 `json:"factors,omitempty"`
	Diagonal [][]float64   `json:"diagonal,omitempty"`
}

func sqrtHessian(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sqrt-hessian", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "-", "snapshot JSON file (- for stdin)")
	samples := fs.Int("samples", 1, "Monte-Carlo samples")
	seed := fs.Int64("seed", -1, "random seed (-1 = random)")
	strategy := fs.String("strategy", "manual", "score computation: manual or autograd")
	exact := fs.Bool("exact", false, "use the closed-form factorization instead of sampling")
	indices := fs.String("indices", "", "comma-separated batch indices (default: full batch)")
	diagonal := fs.Bool("diagonal", false, "print the Hessian diagonal instead of the factors")
	verbose := fs.Bool("v", false, "debug logging to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := derivatives.DefaultConfig()
	cfg.Seed = *seed
	cfg.MCSamples = *samples
	s, err := derivatives.ParseStrategy(*strategy)
	if err != nil {
		return err
	}
	cfg.Strategy = s
	if *verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	subsampling, err := parseIndices(*indices)
	if err != nil {
		return err
	}

	r := stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return fmt.Errorf("open snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}
	snap, err := readSnapshot(r)
	if err != nil {
		return err
	}

	engine, err := derivatives.NewEngineFor(snap.Module(), cfg)
	if err != nil {
		return err
	}
	est, err := engine.Compute(snap, derivatives.Request{
		Subsampling: subsampling,
		MCSamples:   *samples,
		Exact:       *exact,
	})
	if err != nil {
		return err
	}

	out := result{
		Loss:   snap.Module().Name(),
		Method: s.String(),
		Shape:  est.Shape(),
	}
	if *exact {
		out.Method = "exact"
	}
	if *diagonal {
		out.Diagonal = toRows(est.Diagonal())
	} else {
		out.Factors = make([][][]float64, est.Len())
		for i, f := range est.Factors {
			out.Factors[i] = toRows(f)
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readSnapshot(r io.Reader) (*nn.Snapshot, error) {
	var sf snapshotFile
	if err := json.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	reduction, err := nn.ParseReduction(sf.Reduction)
	if err != nil {
		return nil, err
	}
	var loss nn.Loss
	switch strings.ToLower(sf.Loss) {
	case "bce", "bcewithlogits":
		loss = &nn.BCEWithLogitsLoss{Reduction: reduction}
	case "mse":
		loss = &nn.MSELoss{Reduction: reduction}
	case "ce", "crossentropy":
		loss = &nn.CrossEntropyLoss{Reduction: reduction}
	default:
		return nil, fmt.Errorf("unknown loss %q (want bce, mse or ce)", sf.Loss)
	}

	input, err := tensor.FromRows(sf.Input)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	target, err := decodeTarget(sf.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	return nn.NewSnapshot(loss, input, target)
}

// decodeTarget accepts a matrix or, for class indices, a vector.
func decodeTarget(raw json.RawMessage) (*tensor.Dense, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var matrix [][]float64
	if err := json.Unmarshal(raw, &matrix); err == nil {
		return tensor.FromRows(matrix)
	}
	var vector []float64
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, fmt.Errorf("want a matrix or a vector: %w", err)
	}
	return tensor.FromSlice(vector, tensor.Shape{len(vector)})
}

func parseIndices(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid index %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func toRows(d *tensor.Dense) [][]float64 {
	rows := d.Shape()[0]
	out := make([][]float64, rows)
	for i := range out {
		out[i] = append([]float64(nil), d.Row(i)...)
	}
	return out
}
