package ink

// Option configures an Annotator during creation.
// Use functional options to customize Annotator behavior.
//
// Example:
//
//	// Default: one blank page, 1x scale, events discarded
//	a := ink.New()
//
//	// HiDPI surface with an event sink
//	a := ink.New(ink.WithScale(2), ink.WithSink(sink))
type Option func(*annotatorOptions)

// annotatorOptions holds optional configuration for Annotator creation.
type annotatorOptions struct {
	scale      float64
	defaultW   int
	defaultH   int
	sink       Sink
	maxHistory int
}

// defaultAnnotatorOptions returns the default annotator options.
func defaultAnnotatorOptions() annotatorOptions {
	return annotatorOptions{
		scale:    1,
		defaultW: 794, // A4 at 96 DPI
		defaultH: 1123,
		sink:     NopSink{},
	}
}

// WithScale sets the device pixel scale factor applied to page buffers.
// Pointer coordinates stay in page units; buffers are allocated at
// page size multiplied by this factor. Values <= 0 are ignored.
//
// Example:
//
//	// Retina display
//	a := ink.New(ink.WithScale(2))
func WithScale(scale float64) Option {
	return func(o *annotatorOptions) {
		if scale > 0 {
			o.scale = scale
		}
	}
}

// WithDefaultPageSize sets the page size in page units used when the
// workspace has no backgrounds (a blank canvas). Non-positive values
// are ignored.
func WithDefaultPageSize(width, height int) Option {
	return func(o *annotatorOptions) {
		if width > 0 && height > 0 {
			o.defaultW = width
			o.defaultH = height
		}
	}
}

// WithSink registers a sink that receives snapshot, note, and history
// events. Pass nil to discard events (the default).
func WithSink(s Sink) Option {
	return func(o *annotatorOptions) {
		if s != nil {
			o.sink = s
		}
	}
}

// WithMaxHistory bounds the number of snapshots kept per page. Once the
// bound is exceeded the oldest entries are dropped, so very old states
// become unreachable by undo. Zero (the default) keeps history unbounded.
func WithMaxHistory(n int) Option {
	return func(o *annotatorOptions) {
		if n >= 0 {
			o.maxHistory = n
		}
	}
}
