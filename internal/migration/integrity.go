package migration

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"nicks/internal/models"
	"nicks/internal/providers"
	"nicks/internal/store"
	"nicks/internal/structures"
)

const (
	InvariantVersion    = "version"
	InvariantDecodable  = "decodable"
	InvariantCount      = "count"
	InvariantStatus     = "status"
	InvariantCheckpoint = "checkpoint"
)

// CheckError names the invariant a verification run found broken.
type CheckError struct {
	Invariant string
	Err       error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("integrity check failed (%s): %v", e.Invariant, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// Checkpoint is captured before a step and handed back after it. It is
// carried as opaque JSON.
type Checkpoint struct {
	Step      string               `json:"step"`
	From      models.SchemaVersion `json:"from"`
	To        models.SchemaVersion `json:"to"`
	Count     uint64               `json:"count"`
	Decodable uint64               `json:"decodable"`
	// Upgraded counts decodable values already in the shape of To.
	Upgraded uint64 `json:"upgraded"`
}

type IntegrityCheckerInterface interface {
	PreUpgrade(step Step, onchain, target models.SchemaVersion) ([]byte, error)
	PostUpgrade(step Step, checkpoint []byte) error
}

type IntegrityChecker struct {
	names     store.Backend
	logger    providers.Logger
	maxLength int
}

// NewIntegrityChecker returns a no-op checker unless migration.verify is set.
func NewIntegrityChecker(names store.Backend, logger providers.Logger, conf *structures.Config) IntegrityCheckerInterface {
	if !conf.Migration.Verify {
		return &noopChecker{}
	}
	return NewStoreChecker(names, logger, conf)
}

// NewStoreChecker always verifies, regardless of configuration.
func NewStoreChecker(names store.Backend, logger providers.Logger, conf *structures.Config) *IntegrityChecker {
	return &IntegrityChecker{names: names, logger: logger, maxLength: conf.Migration.MaxLength}
}

func (c *IntegrityChecker) PreUpgrade(step Step, onchain, target models.SchemaVersion) ([]byte, error) {
	if onchain != step.From || target != step.To {
		return nil, &CheckError{InvariantVersion, fmt.Errorf("%w: %s expects %d -> %d, got onchain %d target %d",
			ErrVersionMismatch, step.Name, step.From, step.To, onchain, target)}
	}

	var cp = Checkpoint{Step: step.Name, From: step.From, To: step.To}
	var firstErr error
	err := c.names.Iterate(func(key models.AccountID, value []byte) error {
		cp.Count++
		_, upgraded, err := decodeStaged(step, value, c.maxLength)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s: %w", ErrUndecodable, key, err)
			}
			return nil
		}
		cp.Decodable++
		if upgraded {
			cp.Upgraded++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pre-upgrade scan: %w", err)
	}

	c.logger.Infof(providers.TypeMigration, "Pre-upgrade %s: %d keys, %d decodable values, %d already upgraded",
		step.Name, cp.Count, cp.Decodable, cp.Upgraded)
	if firstErr != nil {
		return nil, &CheckError{InvariantDecodable, firstErr}
	}

	return json.Marshal(cp)
}

func (c *IntegrityChecker) PostUpgrade(step Step, checkpoint []byte) error {
	var cp Checkpoint
	if err := json.Unmarshal(checkpoint, &cp); err != nil {
		return &CheckError{InvariantCheckpoint, err}
	}
	if cp.Step != step.Name {
		return &CheckError{InvariantCheckpoint, fmt.Errorf("checkpoint is for %s, not %s", cp.Step, step.Name)}
	}

	onchain, err := c.names.OnchainVersion()
	if err != nil {
		return fmt.Errorf("post-upgrade version: %w", err)
	}
	if onchain != step.To {
		return &CheckError{InvariantVersion, fmt.Errorf("%w: onchain %d, expected %d", ErrVersionMismatch, onchain, step.To)}
	}

	count, err := c.names.Count()
	if err != nil {
		return fmt.Errorf("post-upgrade count: %w", err)
	}
	if count != cp.Count {
		return &CheckError{InvariantCount, fmt.Errorf("%w: %d before, %d after", ErrCountMismatch, cp.Count, count)}
	}

	err = c.names.Iterate(func(key models.AccountID, value []byte) error {
		if err := step.PostCheck(value, c.maxLength); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStatusViolation) {
			return &CheckError{InvariantStatus, err}
		}
		if errors.Is(err, ErrUndecodable) {
			return &CheckError{InvariantDecodable, err}
		}
		return fmt.Errorf("post-upgrade scan: %w", err)
	}

	c.logger.Infof(providers.TypeMigration, "Post-upgrade %s: %d records verified at version %d", step.Name, count, onchain)
	return nil
}

type noopChecker struct{}

func (n *noopChecker) PreUpgrade(_ Step, _, _ models.SchemaVersion) ([]byte, error) { return nil, nil }
func (n *noopChecker) PostUpgrade(_ Step, _ []byte) error                           { return nil }
