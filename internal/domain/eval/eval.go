// Package eval scores classifier predictions against ground-truth labels.
//
// Conventions:
// - Capability checks happen once, at evaluator construction, not per call.
// - All metric values lie in [0,1].
// - All blocking operations accept context.Context as the first parameter.
package eval

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/sitebench/pkg/metrics"
)

// positiveClass is the label treated as the positive class when reading
// probability columns and computing average precision.
const positiveClass = 1

// Classifier emits hard class labels for feature rows.
type Classifier interface {
	Predict(ctx context.Context, X [][]float64) ([]int, error)
}

// ProbabilityEstimator emits per-class probabilities, one row per sample.
// The positive-class probability is the last column of each row.
type ProbabilityEstimator interface {
	PredictProba(ctx context.Context, X [][]float64) ([][]float64, error)
}

// MarginScorer emits raw decision-function scores, one per sample.
type MarginScorer interface {
	DecisionFunction(ctx context.Context, X [][]float64) ([]float64, error)
}

// Result holds the metrics computed for one evaluation.
type Result struct {
	Accuracy         float64
	WeightedF1       float64
	AveragePrecision float64
}

// scoreSource abstracts where ranking scores come from.
type scoreSource interface {
	scores(ctx context.Context, X [][]float64) ([]float64, error)
}

type probabilitySource struct {
	estimator ProbabilityEstimator
}

func (s probabilitySource) scores(ctx context.Context, X [][]float64) ([]float64, error) {
	rows, err := s.estimator.PredictProba(ctx, X)
	if err != nil {
		return nil, fmt.Errorf("predict_proba failed: %w", err)
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("%w: empty probability row at index %d", ErrPrediction, i)
		}
		out[i] = row[len(row)-1]
	}
	return out, nil
}

type marginSource struct {
	scorer MarginScorer
}

func (s marginSource) scores(ctx context.Context, X [][]float64) ([]float64, error) {
	out, err := s.scorer.DecisionFunction(ctx, X)
	if err != nil {
		return nil, fmt.Errorf("decision_function failed: %w", err)
	}
	return out, nil
}

// Evaluator scores a single model. The score source (probabilities or
// decision margins) is selected once when the evaluator is built.
type Evaluator struct {
	predictor Classifier
	source    scoreSource
}

// NewEvaluator inspects the model's capabilities and builds an evaluator.
// The model must provide hard predictions plus either probabilities or
// decision scores; anything less fails here, not during Evaluate.
func NewEvaluator(model any) (*Evaluator, error) {
	predictor, ok := model.(Classifier)
	if !ok {
		return nil, fmt.Errorf("%w: model does not provide hard predictions", ErrPrediction)
	}

	var source scoreSource
	switch m := model.(type) {
	case ProbabilityEstimator:
		source = probabilitySource{estimator: m}
	case MarginScorer:
		source = marginSource{scorer: m}
	default:
		return nil, fmt.Errorf("%w: model provides neither probabilities nor decision scores", ErrPrediction)
	}

	return &Evaluator{predictor: predictor, source: source}, nil
}

// Evaluate computes accuracy, weighted F1 and average precision for the
// model's predictions on X against yTrue.
func (e *Evaluator) Evaluate(ctx context.Context, X [][]float64, yTrue []int) (Result, error) {
	if len(X) == 0 {
		return Result{}, fmt.Errorf("%w: empty feature matrix", ErrInput)
	}
	if len(X) != len(yTrue) {
		return Result{}, fmt.Errorf("%w: %d feature rows but %d labels", ErrInput, len(X), len(yTrue))
	}

	start := time.Now()

	scores, err := e.source.scores(ctx, X)
	if err != nil {
		metrics.RecordEvaluationError()
		return Result{}, err
	}
	if len(scores) != len(yTrue) {
		metrics.RecordEvaluationError()
		return Result{}, fmt.Errorf("%w: %d scores for %d samples", ErrPrediction, len(scores), len(yTrue))
	}

	predictions, err := e.predictor.Predict(ctx, X)
	if err != nil {
		metrics.RecordEvaluationError()
		return Result{}, fmt.Errorf("predict failed: %w", err)
	}
	if len(predictions) != len(yTrue) {
		metrics.RecordEvaluationError()
		return Result{}, fmt.Errorf("%w: %d predictions for %d samples", ErrPrediction, len(predictions), len(yTrue))
	}

	result := Result{
		Accuracy:         accuracy(predictions, yTrue),
		WeightedF1:       weightedF1(predictions, yTrue),
		AveragePrecision: averagePrecision(scores, yTrue),
	}

	metrics.RecordEvaluation()
	metrics.ObserveEvaluationLatency(float64(time.Since(start).Microseconds()) / 1e3)

	return result, nil
}

// accuracy is the fraction of exact matches between predictions and truth.
func accuracy(predictions, yTrue []int) float64 {
	var hits int
	for i, p := range predictions {
		if p == yTrue[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue))
}

// weightedF1 computes per-class F1 and averages it weighted by class support.
func weightedF1(predictions, yTrue []int) float64 {
	classes := make(map[int]struct{}, 2)
	for _, y := range yTrue {
		classes[y] = struct{}{}
	}
	for _, p := range predictions {
		classes[p] = struct{}{}
	}

	var weighted float64
	total := float64(len(yTrue))
	for c := range classes {
		var tp, fp, fn, support float64
		for i, p := range predictions {
			truth := yTrue[i]
			if truth == c {
				support++
			}
			switch {
			case p == c && truth == c:
				tp++
			case p == c && truth != c:
				fp++
			case p != c && truth == c:
				fn++
			}
		}
		if support == 0 {
			continue
		}
		var precision, recall float64
		if tp+fp > 0 {
			precision = tp / (tp + fp)
		}
		if tp+fn > 0 {
			recall = tp / (tp + fn)
		}
		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		weighted += f1 * support / total
	}
	return weighted
}

// averagePrecision ranks samples by descending score and averages precision
// at each positive hit. Returns 0 when no positives exist.
func averagePrecision(scores []float64, yTrue []int) float64 {
	// Argsort ascending on negated scores gives a descending score order.
	negated := make([]float64, len(scores))
	for i, s := range scores {
		negated[i] = -s
	}
	order := make([]int, len(scores))
	floats.Argsort(negated, order)

	var hits float64
	precisions := make([]float64, 0, len(order))
	for rank, idx := range order {
		if yTrue[idx] == positiveClass {
			hits++
			precisions = append(precisions, hits/float64(rank+1))
		}
	}
	if len(precisions) == 0 {
		return 0
	}
	return stat.Mean(precisions, nil)
}
