package registry

import (
	"fmt"

	"github.com/okian/sitebench/internal/domain/eval"
)

// Built-in builder names referenced by registry files.
const (
	BuilderLogistic   = "logistic"
	BuilderPerceptron = "perceptron"
)

// Register built-in builders.
func init() { //nolint:gochecknoinits // intentional init for built-in builder registration
	RegisterBuilder(BuilderLogistic, buildLogistic)
	RegisterBuilder(BuilderPerceptron, buildPerceptron)
}

// weightsFromParams collects consecutive w0..wN parameters into a vector.
func weightsFromParams(params map[string]float64) ([]float64, error) {
	weights := make([]float64, 0, len(params))
	for {
		w, ok := params[fmt.Sprintf("w%d", len(weights))]
		if !ok {
			break
		}
		weights = append(weights, w)
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no w0..wN weight parameters", ErrInvalidConfig)
	}
	return weights, nil
}

func buildLogistic(params map[string]float64) (any, error) {
	weights, err := weightsFromParams(params)
	if err != nil {
		return nil, err
	}
	model := eval.NewLogisticClassifier(weights, params["bias"])
	if t, ok := params["threshold"]; ok {
		model.Threshold = t
	}
	return model, nil
}

func buildPerceptron(params map[string]float64) (any, error) {
	weights, err := weightsFromParams(params)
	if err != nil {
		return nil, err
	}
	return eval.NewPerceptronClassifier(weights, params["bias"]), nil
}
