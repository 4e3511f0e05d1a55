package cascade

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

// Option configures an Emitter.
type Option func(*Emitter)

// PanicHandler is called when a handler panics during an emission.
// Receives the emitted name, the handler's pattern and the recovered value.
// The panic is still reported to the emitter's caller as a *PanicError.
type PanicHandler func(event, pattern string, recovered any)

// WithWildcards enables "*" inside pattern segments.
func WithWildcards() Option {
	return func(em *Emitter) {
		em.wildcards = true
	}
}

// WithListOptions enables list segments such as "{get,set}".
func WithListOptions() Option {
	return func(em *Emitter) {
		em.listOptions = true
	}
}

// WithLifecycles enables lifecycles with the given phase order. Un-prefixed
// registrations are only accepted if one of the phases is "default".
// Passing no names disables lifecycles.
func WithLifecycles(names ...string) Option {
	return func(em *Emitter) {
		em.lifecycles = append([]string(nil), names...)
	}
}

// WithDefaultLifecycles enables the early, before, default, after, late phases.
func WithDefaultLifecycles() Option {
	return WithLifecycles(DefaultLifecycles()...)
}

// WithLogger sets the logger used for registry and emission events.
// Default is a disabled logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(em *Emitter) {
		em.logger = logger
	}
}

// WithTracerProvider sets the provider used to trace emissions.
// Default is a no-op provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(em *Emitter) {
		if tp != nil {
			em.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithPanicHandler sets a callback invoked when a handler panics.
func WithPanicHandler(handler PanicHandler) Option {
	return func(em *Emitter) {
		em.panicHandler = handler
	}
}

// WithResolveCacheSize sets how many emitted names keep their resolved
// pattern keys memoized. Zero disables the cache. Default is 256.
// Has no effect in exact mode, which never scans.
func WithResolveCacheSize(size int) Option {
	return func(em *Emitter) {
		if size >= 0 {
			em.cacheSize = size
		}
	}
}

// Config is the file form of an emitter's options.
//
//	wildcards: true
//	listOptions: true
//	lifecycles: [setup, default, teardown]  # or true / false
//	cacheSize: 512
type Config struct {
	Wildcards   bool       `yaml:"wildcards"`
	ListOptions bool       `yaml:"listOptions"`
	Lifecycles  Lifecycles `yaml:"lifecycles"`
	CacheSize   *int       `yaml:"cacheSize,omitempty"`
}

// Lifecycles is either a boolean or an explicit phase list in YAML.
// true selects DefaultLifecycles.
type Lifecycles struct {
	Enabled bool
	Names   []string
}

// UnmarshalYAML accepts a boolean or a sequence of phase names.
func (l *Lifecycles) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return errors.Wrap(err, "lifecycles must be a boolean or a list of names")
		}
		*l = Lifecycles{Enabled: enabled}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return errors.Wrap(err, "lifecycles must be a boolean or a list of names")
		}
		if len(names) == 0 {
			*l = Lifecycles{}
			return nil
		}
		*l = Lifecycles{Enabled: true, Names: names}
		return nil
	default:
		return errors.Errorf("lifecycles must be a boolean or a list of names, got line %d", node.Line)
	}
}

// MarshalYAML writes the list form when names are set, the boolean otherwise.
func (l Lifecycles) MarshalYAML() (any, error) {
	if len(l.Names) > 0 {
		return l.Names, nil
	}
	return l.Enabled, nil
}

// Phases returns the configured phase order, nil when disabled.
func (l Lifecycles) Phases() []string {
	switch {
	case !l.Enabled:
		return nil
	case len(l.Names) > 0:
		return append([]string(nil), l.Names...)
	default:
		return DefaultLifecycles()
	}
}

// Options translates the config into emitter options.
func (c Config) Options() []Option {
	var opts []Option
	if c.Wildcards {
		opts = append(opts, WithWildcards())
	}
	if c.ListOptions {
		opts = append(opts, WithListOptions())
	}
	if phases := c.Lifecycles.Phases(); len(phases) > 0 {
		opts = append(opts, WithLifecycles(phases...))
	}
	if c.CacheSize != nil {
		opts = append(opts, WithResolveCacheSize(*c.CacheSize))
	}
	return opts
}

// Filter returns the matcher an emitter built from c would use.
func (c Config) Filter() Filter {
	return filterFor(c.Wildcards, c.ListOptions)
}

// ParseConfig decodes a YAML config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse emitter config")
	}
	return cfg, nil
}

// LoadConfig reads and decodes a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read emitter config %s", path)
	}
	return ParseConfig(data)
}
