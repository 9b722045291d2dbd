package eval

import (
	"context"
	"fmt"
	"math"
)

// LogisticClassifier is a linear model with sigmoid probabilities. It covers
// the probability-emitting capability variant.
type LogisticClassifier struct {
	Weights   []float64
	Bias      float64
	Threshold float64 // decision threshold on the positive-class probability
}

// NewLogisticClassifier builds a logistic classifier with a 0.5 threshold.
func NewLogisticClassifier(weights []float64, bias float64) *LogisticClassifier {
	return &LogisticClassifier{Weights: weights, Bias: bias, Threshold: 0.5}
}

func (c *LogisticClassifier) raw(x []float64) (float64, error) {
	if len(x) != len(c.Weights) {
		return 0, fmt.Errorf("%w: feature length %d, want %d", ErrInput, len(x), len(c.Weights))
	}
	z := c.Bias
	for i, v := range x {
		z += c.Weights[i] * v
	}
	return z, nil
}

// PredictProba returns [P(negative), P(positive)] per sample.
func (c *LogisticClassifier) PredictProba(_ context.Context, X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, x := range X {
		z, err := c.raw(x)
		if err != nil {
			return nil, err
		}
		p := 1 / (1 + math.Exp(-z))
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}

// Predict thresholds the positive-class probability.
func (c *LogisticClassifier) Predict(ctx context.Context, X [][]float64) ([]int, error) {
	probs, err := c.PredictProba(ctx, X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(probs))
	for i, row := range probs {
		if row[1] >= c.Threshold {
			out[i] = 1
		}
	}
	return out, nil
}

// PerceptronClassifier is a linear model exposing raw decision margins. It
// covers the score-emitting capability variant.
type PerceptronClassifier struct {
	Weights []float64
	Bias    float64
}

// NewPerceptronClassifier builds a margin-based classifier.
func NewPerceptronClassifier(weights []float64, bias float64) *PerceptronClassifier {
	return &PerceptronClassifier{Weights: weights, Bias: bias}
}

// DecisionFunction returns the raw margin per sample.
func (c *PerceptronClassifier) DecisionFunction(_ context.Context, X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, x := range X {
		if len(x) != len(c.Weights) {
			return nil, fmt.Errorf("%w: feature length %d, want %d", ErrInput, len(x), len(c.Weights))
		}
		z := c.Bias
		for j, v := range x {
			z += c.Weights[j] * v
		}
		out[i] = z
	}
	return out, nil
}

// Predict labels samples by the sign of the margin.
func (c *PerceptronClassifier) Predict(ctx context.Context, X [][]float64) ([]int, error) {
	margins, err := c.DecisionFunction(ctx, X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(margins))
	for i, m := range margins {
		if m > 0 {
			out[i] = 1
		}
	}
	return out, nil
}
