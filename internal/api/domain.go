package api

import (
	"github.com/JaimeStill/quill/internal/capability"
	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/internal/engine"
	"github.com/JaimeStill/quill/internal/render"
	"github.com/JaimeStill/quill/internal/runs"
	"github.com/JaimeStill/quill/internal/templates"
	"github.com/JaimeStill/quill/internal/voice"
	"github.com/JaimeStill/quill/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Runs      runs.System
	Templates *templates.Handler
}

// NewDomain creates all domain systems from the API runtime. The
// workflow engine assembles here: agent-backed research and drafting,
// the deterministic brief builder, and storage-backed rendering.
func NewDomain(runtime *Runtime, engineCfg *config.EngineConfig) (*Domain, error) {
	caps := capability.NewRegistry()
	caps.Register(capability.Research, capability.NewResearcher(runtime.Agent, runtime.Logger))
	caps.Register(capability.Brief, capability.NewBriefBuilder())
	caps.Register(capability.Draft, capability.NewDrafter(runtime.Agent, runtime.Logger))
	caps.Register(capability.Render, render.NewCapability(
		render.NewWriters(),
		runtime.Storage,
		runtime.Logger,
	))

	exec, err := engine.New(engine.Options{
		Capabilities: caps,
		Gates:        gateConfig(engineCfg),
		Logger:       runtime.Logger,
		RetryBudget:  engineCfg.RetryBudget,
		StepTimeout:  engineCfg.StepTimeoutDuration(),
	})
	if err != nil {
		return nil, err
	}

	runsSystem := runs.New(
		runtime.Database.Connection(),
		exec,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Runs:      runsSystem,
		Templates: templates.NewHandler(runtime.Logger),
	}, nil
}

func gateConfig(cfg *config.EngineConfig) engine.GateConfig {
	gates := engine.DefaultGateConfig()
	gates.ResearchMinSources = cfg.ResearchMinSources
	gates.ResearchMinCredibility = cfg.ResearchMinCredibility
	gates.BrandThreshold = cfg.BrandThreshold
	gates.Guidelines = voice.DefaultGuidelines()

	if len(cfg.GateModes) > 0 && gates.Modes == nil {
		gates.Modes = make(map[string]workflow.GateMode)
	}
	for gate, mode := range cfg.GateModes {
		gates.Modes[gate] = workflow.GateMode(mode)
	}

	return gates
}
