package render

import "log/slog"

// Option configures a Pipeline at creation.
type Option func(*options)

type options struct {
	depthMode    DepthMode
	vertexCache  bool
	mipCacheSize int
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		depthMode:    DepthZ,
		vertexCache:  true,
		mipCacheSize: DefaultMipCacheSize,
	}
}

// WithDepthMode selects what the depth buffer stores.
func WithDepthMode(m DepthMode) Option {
	return func(o *options) {
		o.depthMode = m
	}
}

// WithVertexCache enables or disables reuse of transformed vertices across
// primitives. Disabling it changes only how often vertices are transformed,
// never the pixels produced.
func WithVertexCache(on bool) Option {
	return func(o *options) {
		o.vertexCache = on
	}
}

// WithMipCacheSize sets how many textures keep their mip chains.
func WithMipCacheSize(n int) Option {
	return func(o *options) {
		o.mipCacheSize = n
	}
}

// WithLogger sets a logger for this pipeline instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
