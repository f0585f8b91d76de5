// Package bootstrap defines the sequential pipeline the stages run in
// and the explicit run context threaded through them. The context
// replaces the ambient process state (cwd, inherited environment,
// shell functions) a bootstrap script would otherwise lean on.
package bootstrap

import (
	"context"

	"github.com/arthur-debert/dotstrap/pkg/config"
	"github.com/arthur-debert/dotstrap/pkg/execx"
	"github.com/arthur-debert/dotstrap/pkg/logging"
	"github.com/arthur-debert/dotstrap/pkg/paths"
	"github.com/arthur-debert/dotstrap/pkg/prompt"
)

// RunContext carries everything a stage needs for one run of the tool.
type RunContext struct {
	Config   *config.Config
	Paths    *paths.Paths
	Runner   execx.Runner
	Prompter *prompt.Prompter

	// DryRun makes stages log planned mutations without executing them.
	DryRun bool

	// SkipPreflight suppresses the toolchain probe. Set by the
	// relocation step so the continued run does not re-check, and by
	// the DOTSTRAP_SKIP_PREFLIGHT environment flag when the tool was
	// relaunched from a fresh checkout.
	SkipPreflight bool
}

// Stage is one step of the bootstrap pipeline.
type Stage interface {
	Name() string
	Run(ctx context.Context, rc *RunContext) error
}

// StageFunc adapts a function to the Stage interface.
type StageFunc struct {
	StageName string
	Fn        func(ctx context.Context, rc *RunContext) error
}

func (s StageFunc) Name() string { return s.StageName }

func (s StageFunc) Run(ctx context.Context, rc *RunContext) error {
	return s.Fn(ctx, rc)
}

// Pipeline runs stages strictly in order, aborting on the first failure.
// There is no rollback: completed stages stay applied, which is safe
// because every stage is idempotent and rerunning the tool is the retry
// mechanism.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline over the given stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes the pipeline.
func (p *Pipeline) Run(ctx context.Context, rc *RunContext) error {
	logger := logging.GetLogger("bootstrap")

	for _, stage := range p.stages {
		logger.Info().Str("stage", stage.Name()).Msg("Stage starting")
		if err := stage.Run(ctx, rc); err != nil {
			logger.Error().Err(err).Str("stage", stage.Name()).Msg("Stage failed")
			return err
		}
		logger.Info().Str("stage", stage.Name()).Msg("Stage completed")
	}
	return nil
}
