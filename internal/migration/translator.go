package migration

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"nicks/internal/models"
	"nicks/internal/providers"
	"nicks/internal/store"
	"nicks/internal/structures"
)

type FailurePolicy string

const (
	// FailureDrop removes an entry whose value does not decode.
	FailureDrop FailurePolicy = "drop"
	// FailureRetain leaves the undecodable value under its key.
	FailureRetain FailurePolicy = "retain"
)

type TranslateResult struct {
	Visited  uint64
	Migrated uint64
	// AlreadyMigrated counts entries a previous interrupted run of the
	// step had rewritten. They are left untouched.
	AlreadyMigrated uint64
	Failed          uint64
	Dropped         uint64
	FailedKeys      []models.AccountID
}

type TranslatorInterface interface {
	TranslateAll(step Step) (TranslateResult, error)
}

// Translator rewrites every entry of the store from one schema to the next.
// Keys are collected first and entries are then rewritten by key, so the
// store is never mutated under an open iterator.
type Translator struct {
	names     store.Store
	logger    providers.Logger
	maxLength int
	policy    FailurePolicy
}

func NewTranslator(names store.Store, logger providers.Logger, conf *structures.Config) TranslatorInterface {
	return &Translator{
		names:     names,
		logger:    logger,
		maxLength: conf.Migration.MaxLength,
		policy:    FailurePolicy(conf.Migration.DecodeFailure),
	}
}

func (t *Translator) TranslateAll(step Step) (TranslateResult, error) {
	var res TranslateResult

	keys, err := t.stage()
	if err != nil {
		return res, err
	}

	upgraded := roaring.New()
	failed := roaring.New()

	for i, key := range keys {
		pos := uint32(i)

		raw, err := t.names.Get(key)
		if err != nil {
			return res, fmt.Errorf("read %s: %w", key, err)
		}

		value, done, err := t.translate(step, raw)
		if err != nil {
			failed.Add(pos)
			t.logger.Errorf(providers.TypeMigration, "Failed to decode nickname of %s: %s", key, err)
			if t.policy == FailureRetain {
				continue
			}
			if err := t.names.Delete(key); err != nil {
				return res, fmt.Errorf("drop %s: %w", key, err)
			}
			res.Dropped++
			continue
		}
		if done {
			upgraded.Add(pos)
			t.logger.Debugf(providers.TypeMigration, "Nickname of %s already at version %d", key, step.To)
			continue
		}

		if err := t.names.Put(key, value); err != nil {
			return res, fmt.Errorf("write %s: %w", key, err)
		}
		res.Migrated++
		t.logger.Debugf(providers.TypeMigration, "Migrated nickname of %s", key)
	}

	res.Visited = uint64(len(keys))
	res.AlreadyMigrated = upgraded.GetCardinality()
	res.Failed = failed.GetCardinality()
	failed.Iterate(func(pos uint32) bool {
		res.FailedKeys = append(res.FailedKeys, keys[pos])
		return true
	})
	return res, nil
}

// stage collects the key index before anything is written. A key listed
// twice would be translated twice, so the index is rejected.
func (t *Translator) stage() ([]models.AccountID, error) {
	keys, err := t.names.Keys()
	if err != nil {
		return nil, fmt.Errorf("collect keys: %w", err)
	}
	if uint64(len(keys)) > math.MaxUint32 {
		return nil, fmt.Errorf("too many entries to index: %d", len(keys))
	}

	seen := make(map[models.AccountID]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
		seen[key] = struct{}{}
	}
	return keys, nil
}

func (t *Translator) translate(step Step, raw []byte) ([]byte, bool, error) {
	rec, upgraded, err := decodeStaged(step, raw, t.maxLength)
	if err != nil {
		return nil, false, err
	}
	if upgraded {
		return raw, true, nil
	}
	next, err := Upgrade(rec)
	if err != nil {
		return nil, false, err
	}
	if next.Schema() != step.To {
		return nil, false, fmt.Errorf("%w: %s produced schema %d", ErrUnknownStep, step.Name, next.Schema())
	}
	value, err := models.EncodeRecord(next)
	return value, false, err
}
