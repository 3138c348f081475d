package attributor

type options struct {
	model    *Model
	version  string
	modelDir string
}

// Option configures an Attributor.
type Option func(*options)

// WithModel supplies a trained model and the database version string it
// was trained under, e.g. the pair returned by Train.
func WithModel(m *Model, version string) Option {
	return func(o *options) {
		o.model = m
		o.version = version
	}
}

// WithModelDir loads the model artifact and its metadata from a
// directory previously written by a training run. The version recorded
// in the metadata is used.
func WithModelDir(dir string) Option {
	return func(o *options) {
		o.modelDir = dir
	}
}

// WithVersion overrides the database version echoed on predictions.
// Useful with WithModel when the caller tracks versions externally.
func WithVersion(version string) Option {
	return func(o *options) {
		o.version = version
	}
}

func defaultOptions() options {
	return options{}
}
