package providers

import (
	"fmt"

	"nicks/internal/store"
	"nicks/internal/structures"
)

// NewStoreProvider opens the configured backend. The returned cleanup
// closes it.
func NewStoreProvider(conf *structures.Config, logger Logger) (store.Backend, func(), error) {
	var (
		backend store.Backend
		err     error
	)
	switch conf.Store.Backend {
	case "memory":
		backend = store.NewMemoryStore()
	case "bolt":
		backend, err = store.OpenBoltStore(conf.Store.FilePath, conf.Store.OpenTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("open store %s: %w", conf.Store.FilePath, err)
		}
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", conf.Store.Backend)
	}

	version, err := backend.OnchainVersion()
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	logger.Infof(TypeStore, "Opened %s store at storage version %d", conf.Store.Backend, version)

	cleanup := func() {
		if err := backend.Close(); err != nil {
			logger.Errorf(TypeStore, "Close store: %s", err)
		}
	}
	return backend, cleanup, nil
}
