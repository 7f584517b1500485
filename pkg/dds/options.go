package dds

type options struct {
	flip bool
}

// Option configures Load and Save.
type Option func(*options)

// WithFlip controls the vertical flip applied on load and save. It is
// enabled by default.
func WithFlip(flip bool) Option {
	return func(o *options) {
		o.flip = flip
	}
}

func newOptions(opts []Option) options {
	o := options{flip: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
