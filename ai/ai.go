// Package ai selects a content-generation provider — local runtime, remote
// API, or deterministic offline templates — and returns a uniform result.
// Callers never need to know which branch served a request.
package ai

import (
	"context"
	"errors"
)

// Kind tags what a generation request is for.
type Kind string

const (
	KindMealPlan     Kind = "meal_plan"
	KindWellnessPlan Kind = "wellness_plan"
	KindChat         Kind = "chat"
	KindAnalysis     Kind = "analysis"
)

var (
	// ErrUnavailable means a provider cannot serve requests right now
	// (unreachable, not configured, model missing). Expected, non-fatal.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrProvider means a provider answered but the response was unusable.
	ErrProvider = errors.New("provider failure")
	// ErrAuth means the provider rejected the configured credentials. The
	// verbatim message is worth surfacing on explicit connection tests.
	ErrAuth = errors.New("provider authentication failed")
)

// Request is a provider-agnostic generation request. When Validate is set,
// the resolver runs it on the raw output and treats failure as a provider
// failure, falling through to the next provider in the chain.
type Request struct {
	Kind        Kind
	System      string
	Prompt      string
	Temperature float64
	JSONMode    bool
	Validate    func(raw string) error
}

// Result is what every branch returns.
type Result struct {
	Text   string
	Source string
}

// Provider is one strategy in the resolution chain.
type Provider interface {
	Name() string
	// Available is a cheap health probe; the resolver caches its outcome.
	Available(ctx context.Context) error
	Generate(ctx context.Context, req Request) (string, error)
}

// Profile carries the biometrics a generator may personalize with.
type Profile struct {
	Age      int
	Gender   string
	WeightKg float64
	HeightCm float64
	Goal     string
}

// ChainOptions maps user settings to a provider chain.
type ChainOptions struct {
	PreferLocal  bool
	LocalBaseURL string
	LocalModel   string
	RemoteAPIKey string
	RemoteModel  string
}

// Chain builds the ordered provider list: local runtime when preferred,
// then the remote API when a key is configured, then the offline generator.
// The offline generator is always last, so a chain never comes back empty-handed.
func Chain(opts ChainOptions, profile Profile) []Provider {
	var providers []Provider
	if opts.PreferLocal {
		providers = append(providers, NewLocal(opts.LocalBaseURL, opts.LocalModel))
	}
	if opts.RemoteAPIKey != "" {
		providers = append(providers, NewRemote(opts.RemoteAPIKey, opts.RemoteModel))
	}
	providers = append(providers, NewOffline(profile))
	return providers
}
