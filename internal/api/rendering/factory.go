package rendering

import "context"

// FeatureDistributedRendering switches ticket rendering between the in-process
// renderer and the renderer worker.
const FeatureDistributedRendering = "distributed-ticket-rendering"

// FeatureSource answers runtime feature-flag lookups. Implementations must be
// safe for concurrent use; the factory consults the source on every call so a
// flag flip takes effect without a restart.
type FeatureSource interface {
	Enabled(ctx context.Context, feature string) bool
}

// StaticFeatureSource is a FeatureSource fixed at construction, backed by
// configuration.
type StaticFeatureSource map[string]bool

func (s StaticFeatureSource) Enabled(_ context.Context, feature string) bool {
	return s[feature]
}

// Factory picks the rendering service variant per call based on the
// distributed-rendering feature flag.
type Factory struct {
	features    FeatureSource
	distributed Service
	local       Service
}

func NewFactory(features FeatureSource, distributed, local Service) *Factory {
	return &Factory{features: features, distributed: distributed, local: local}
}

// Service returns the variant selected by the current flag value.
func (f *Factory) Service(ctx context.Context) Service {
	if f.features.Enabled(ctx, FeatureDistributedRendering) {
		return f.distributed
	}
	return f.local
}
