package svm

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ConfigVersion is the current classifier config schema version.
const ConfigVersion = 1

// Loss selects the loss function minimized by the solver.
type Loss string

const (
	// LossHinge is the standard hinge loss (L1-loss SVC).
	LossHinge Loss = "hinge"
	// LossSquaredHinge is the squared hinge loss (L2-loss SVC).
	LossSquaredHinge Loss = "squared_hinge"
)

// Config holds LinearSVC hyperparameters.
// Zero values are filled from the default tags by the config loader.
type Config struct {
	Version          int     `yaml:"version" default:"1" validate:"eq=1"`
	Loss             Loss    `yaml:"loss" default:"squared_hinge" validate:"oneof=hinge squared_hinge"`
	Penalty          string  `yaml:"penalty" default:"l2" validate:"eq=l2"`
	C                float64 `yaml:"c" default:"1.0" validate:"gt=0"`
	Tol              float64 `yaml:"tol" default:"0.0001" validate:"gt=0"`
	MaxIter          int     `yaml:"max_iter" default:"1000" validate:"min=1"`
	FitIntercept     bool    `yaml:"fit_intercept" default:"true"`
	InterceptScaling float64 `yaml:"intercept_scaling" default:"1.0" validate:"gt=0"`
	MultiClass       string  `yaml:"multi_class" default:"ovr" validate:"eq=ovr"`
	Seed             int64   `yaml:"seed"`
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		Version:          ConfigVersion,
		Loss:             LossSquaredHinge,
		Penalty:          "l2",
		C:                1.0,
		Tol:              1e-4,
		MaxIter:          1000,
		FitIntercept:     true,
		InterceptScaling: 1.0,
		MultiClass:       "ovr",
		Seed:             0,
	}
}

var validate = validator.New()

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid svm config: %w", err)
	}
	return nil
}
