package services

import (
	"sync"

	json "github.com/goccy/go-json"

	"nicks/internal/migration"
	"nicks/internal/models"
	"nicks/internal/providers"
	"nicks/internal/store"
	"nicks/internal/structures"
)

// Status is the state of the store relative to the version this build
// expects.
type Status struct {
	Onchain     models.SchemaVersion   `json:"onchain"`
	Target      models.SchemaVersion   `json:"target"`
	Records     uint64                 `json:"records"`
	Pending     []string               `json:"pending"`
	LastReports []migration.CostReport `json:"lastReports"`
	LastWeight  migration.Weight       `json:"lastWeight"`
}

type MigrationServiceInterface interface {
	Upgrade() ([]migration.CostReport, error)
	Check() (*migration.Checkpoint, error)
	Status() (*Status, error)
}

type MigrationService struct {
	names   store.Backend
	runner  migration.RunnerInterface
	checker *migration.IntegrityChecker
	cache   providers.CacheProviderInterface
	logger  providers.Logger
	target  models.SchemaVersion

	mu   sync.RWMutex
	last []migration.CostReport
}

func NewMigrationService(names store.Backend, runner migration.RunnerInterface, cache providers.CacheProviderInterface, logger providers.Logger, conf *structures.Config) MigrationServiceInterface {
	return &MigrationService{
		names:   names,
		runner:  runner,
		checker: migration.NewStoreChecker(names, logger, conf),
		cache:   cache,
		logger:  logger,
		target:  models.SchemaVersion(conf.Migration.TargetVersion),
	}
}

// Upgrade brings the store to the configured target version. Cached
// lookups are dropped once any step has rewritten the store.
func (ms *MigrationService) Upgrade() ([]migration.CostReport, error) {
	reports, err := ms.runner.UpgradeTo(ms.target)

	for _, rep := range reports {
		if rep.Decision == migration.Run {
			ms.cache.Purge()
			break
		}
	}

	ms.mu.Lock()
	ms.last = reports
	ms.mu.Unlock()

	if err != nil {
		return reports, err
	}
	ms.logger.Infof(providers.TypeApp, "Upgrade to version %d finished, total weight %d", ms.target, migration.TotalWeight(reports))
	return reports, nil
}

// Check runs the pre-upgrade verification of the next pending step without
// touching the store. It returns nil when the store is current.
func (ms *MigrationService) Check() (*migration.Checkpoint, error) {
	onchain, err := ms.names.OnchainVersion()
	if err != nil {
		return nil, err
	}
	if migration.Decide(onchain, ms.target) == migration.Skip {
		return nil, nil
	}
	step, ok := migration.StepFrom(onchain)
	if !ok {
		return nil, migration.ErrUnknownStep
	}

	raw, err := ms.checker.PreUpgrade(step, onchain, step.To)
	if err != nil {
		return nil, err
	}
	var cp migration.Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (ms *MigrationService) Status() (*Status, error) {
	onchain, err := ms.names.OnchainVersion()
	if err != nil {
		return nil, err
	}
	count, err := ms.names.Count()
	if err != nil {
		return nil, err
	}

	st := &Status{Onchain: onchain, Target: ms.target, Records: count, Pending: []string{}}
	for _, step := range migration.Steps {
		if step.From >= onchain && step.To <= ms.target {
			st.Pending = append(st.Pending, step.Name)
		}
	}

	ms.mu.RLock()
	st.LastReports = ms.last
	ms.mu.RUnlock()
	st.LastWeight = migration.TotalWeight(st.LastReports)
	return st, nil
}
