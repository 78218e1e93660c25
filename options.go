package backing

// StoreOption configures an InMemoryStore.
type StoreOption func(*storeConfig)

type storeConfig struct {
	logger                  Logger
	initializationCompleted bool
	returnOnlyChanged       bool
	snapshots               bool
}

func defaultStoreConfig() storeConfig {
	return storeConfig{
		logger:                  noopLogger{},
		initializationCompleted: true,
		snapshots:               true,
	}
}

func applyStoreOptions(opts []StoreOption) storeConfig {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger attaches a logger to the store. A nil logger disables logging.
func WithLogger(logger Logger) StoreOption {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithInitializationCompleted sets the initial baseline flag. Stores start
// with initialization completed so that values assigned by callers on a fresh
// model are reported as changes; deserializers flip it off while loading.
func WithInitializationCompleted(completed bool) StoreOption {
	return func(cfg *storeConfig) {
		cfg.initializationCompleted = completed
	}
}

// WithReturnOnlyChangedValues sets the initial Enumerate filtering mode.
func WithReturnOnlyChangedValues(only bool) StoreOption {
	return func(cfg *storeConfig) {
		cfg.returnOnlyChanged = only
	}
}

// WithSnapshots toggles baseline snapshots of collections, maps and other
// plain data. When disabled, in-place edits of plain data are only reported
// once the property is set again.
func WithSnapshots(enabled bool) StoreOption {
	return func(cfg *storeConfig) {
		cfg.snapshots = enabled
	}
}
