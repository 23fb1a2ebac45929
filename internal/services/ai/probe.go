// File: internal/services/ai/probe.go
package ai

import (
	"context"
	"strings"
)

// ProbeState is the outcome of a health probe run: the resolved service mode
// plus the descriptor set the gateway reads on every request. Descriptors are
// written only here; after the probe they are read-only.
type ProbeState struct {
	Mode        Mode
	Descriptors []ProviderDescriptor
}

// Prober tests reachability and credentials of the configured providers at
// startup. It never returns errors to the caller: outcomes are recorded in
// the descriptor availability flags and the resolved mode.
type Prober struct {
	config *Config
	cloud  Pinger      // nil when no cloud provider is configured
	local  ModelLister // nil when no local provider is configured
	logger Logger
}

func NewProber(config *Config, cloud Pinger, local ModelLister, logger Logger) *Prober {
	return &Prober{config: config, cloud: cloud, local: local, logger: logger}
}

// Run probes each configured provider once. A single attempt per provider:
// this runs at boot and must not block startup indefinitely.
func (p *Prober) Run(ctx context.Context) *ProbeState {
	state := &ProbeState{Mode: ModeProbing}

	cloudOK := p.probeCloud(ctx, state)
	localOK := p.probeLocal(ctx, state)

	state.Mode = p.resolveMode(cloudOK, localOK)

	p.logger.Info("provider probe complete",
		"mode", string(state.Mode),
		"cloud_available", cloudOK,
		"local_available", localOK,
	)
	return state
}

func (p *Prober) probeCloud(ctx context.Context, state *ProbeState) bool {
	text := ProviderDescriptor{Kind: KindCloudText, Model: p.config.CloudTextModel, Priority: 1}
	vision := ProviderDescriptor{Kind: KindCloudMultimodal, Model: p.config.CloudVisionModel, Priority: 1}

	if p.cloud == nil || p.config.CloudKey == "" {
		text.Detail = "cloud provider not configured"
		vision.Detail = text.Detail
		state.Descriptors = append(state.Descriptors, text, vision)
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.config.ProbeTimeout)
	defer cancel()

	if err := p.cloud.Ping(probeCtx); err != nil {
		// Network, auth or quota failure all land here; the reason is kept
		// for diagnostics and the provider is marked unavailable.
		p.logger.Warn("cloud provider probe failed", "error", err)
		text.Detail = err.Error()
		vision.Detail = err.Error()
		state.Descriptors = append(state.Descriptors, text, vision)
		return false
	}

	text.Available = true
	vision.Available = true
	state.Descriptors = append(state.Descriptors, text, vision)
	return true
}

func (p *Prober) probeLocal(ctx context.Context, state *ProbeState) bool {
	text := ProviderDescriptor{Kind: KindLocalText, Model: p.config.LocalTextModel, Priority: 2}
	vision := ProviderDescriptor{Kind: KindLocalVision, Model: p.config.LocalVisionModel, Priority: 2}

	if p.local == nil {
		text.Detail = "local provider not configured"
		vision.Detail = text.Detail
		state.Descriptors = append(state.Descriptors, text, vision)
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.config.ProbeTimeout)
	defer cancel()

	installed, err := p.local.ListModels(probeCtx)
	if err != nil {
		p.logger.Warn("local provider probe failed", "error", err)
		text.Detail = err.Error()
		vision.Detail = err.Error()
		state.Descriptors = append(state.Descriptors, text, vision)
		return false
	}

	// Local registries version-suffix model names (llama3:8b-instruct), so
	// matching is a loose substring check. Known approximation: it can match
	// an unrelated model sharing a prefix; the matched name is logged so a
	// wrong match is visible.
	if matched, ok := matchModel(installed, p.config.LocalTextModel); ok {
		text.Available = true
		text.Model = matched
	} else {
		// Missing text model is a hard failure for this provider.
		text.Detail = "text model not installed"
		p.logger.Warn("local text model missing", "want", p.config.LocalTextModel, "installed", strings.Join(installed, ","))
	}

	if matched, ok := matchModel(installed, p.config.LocalVisionModel); ok {
		vision.Available = true
		vision.Model = matched
	} else {
		// Missing vision model is a soft warning: text-only mode remains.
		vision.Detail = "vision model not installed; local provider is text-only"
		p.logger.Warn("local vision model missing", "want", p.config.LocalVisionModel)
	}

	state.Descriptors = append(state.Descriptors, text, vision)
	return text.Available
}

// resolveMode applies the selection policy: the configured preference decides
// the order, but is always re-validated against probed availability, so a
// preference for an unavailable provider degrades transparently.
func (p *Prober) resolveMode(cloudOK, localOK bool) Mode {
	if p.config.PreferCloud {
		switch {
		case cloudOK:
			return ModeCloud
		case localOK:
			return ModeLocal
		}
		return ModeUnavailable
	}
	switch {
	case localOK:
		return ModeLocal
	case cloudOK:
		return ModeCloud
	}
	return ModeUnavailable
}

func matchModel(installed []string, want string) (string, bool) {
	if want == "" {
		return "", false
	}
	for _, name := range installed {
		if strings.Contains(strings.ToLower(name), strings.ToLower(want)) {
			return name, true
		}
	}
	return "", false
}
