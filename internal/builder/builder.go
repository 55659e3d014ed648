// Package builder drives the Buildroot build tool for a resolved
// defconfig, translating abstract build steps into make invocations.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/embedtools/br2kit/internal/ctxlog"
)

// ErrBuildFailed reports a build tool invocation that exited non-zero.
var ErrBuildFailed = errors.New("build failed")

// Builder carries everything needed to invoke the build tool for one
// defconfig: the resolved defconfig path, the output directory, the main
// tree and any external trees. The JSON field names are the persisted
// build-definition record shape.
type Builder struct {
	Defconfig string   `json:"defconfigPath"`
	Output    string   `json:"outputPath"`
	Main      string   `json:"mainTreePath"`
	Externals []string `json:"externalTreePaths"`
}

// RunStep runs every invocation of a build step in order, stopping at the
// first failure.
func (b *Builder) RunStep(ctx context.Context, r Runner, step Step) error {
	targets := step.targets()
	if targets == nil {
		return fmt.Errorf("%w: %d", ErrInvalidStep, int(step))
	}
	for _, target := range targets {
		if err := b.BuildTargets(ctx, r, target); err != nil {
			return err
		}
	}
	return nil
}

// BuildTargets invokes the build tool once for the given targets.
func (b *Builder) BuildTargets(ctx context.Context, r Runner, targets ...string) error {
	args := make([]string, 0, len(targets)+5)
	if external := strings.Join(b.Externals, ":"); external != "" {
		args = append(args, "BR2_EXTERNAL="+external)
	}
	args = append(args,
		"-C", b.Main,
		"O="+b.Output,
		"BR2_DEFCONFIG="+b.Defconfig,
	)
	args = append(args, targets...)
	ctxlog.FromContext(ctx).Debug("invoking build tool", "args", args)
	if err := r.Run(ctx, "make", args...); err != nil {
		return fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	return nil
}
