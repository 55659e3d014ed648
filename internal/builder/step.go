package builder

import (
	"errors"
	"fmt"
)

// ErrInvalidStep reports an unrecognized build step name.
var ErrInvalidStep = errors.New("invalid step")

// Step is a named build phase.
type Step int

const (
	// StepAll materializes the configuration, then builds everything.
	StepAll Step = iota
	// StepInit only materializes the configuration.
	StepInit
	// StepMain builds everything, assuming the configuration has already
	// been materialized.
	StepMain
)

// ParseStep parses a step name as accepted on the command line.
func ParseStep(s string) (Step, error) {
	switch s {
	case "all":
		return StepAll, nil
	case "init":
		return StepInit, nil
	case "main":
		return StepMain, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStep, s)
}

func (s Step) String() string {
	switch s {
	case StepAll:
		return "all"
	case StepInit:
		return "init"
	case StepMain:
		return "main"
	}
	return "unknown"
}

// targets returns the build tool targets for the step. The defconfig
// target can not be batched with all, so multi-target steps run one
// invocation per target.
func (s Step) targets() []string {
	switch s {
	case StepInit:
		return []string{"defconfig"}
	case StepAll:
		return []string{"defconfig", "all"}
	case StepMain:
		return []string{"all"}
	}
	return nil
}
