package migration

import (
	"fmt"
	"time"

	"nicks/internal/models"
	"nicks/internal/providers"
	"nicks/internal/store"
	"nicks/internal/structures"
)

const (
	OutcomeExecuted = "executed"
	OutcomeSkipped  = "skipped"
	OutcomeInvalid  = "invalid"
)

// CostReport describes one gated step: what the gate decided, what the
// translator did and the weight charged for it.
type CostReport struct {
	Step            string               `json:"step"`
	Decision        Decision             `json:"decision"`
	OnchainBefore   models.SchemaVersion `json:"onchainBefore"`
	OnchainAfter    models.SchemaVersion `json:"onchainAfter"`
	Target          models.SchemaVersion `json:"target"`
	Expected        uint64               `json:"expected"`
	Visited         uint64               `json:"visited"`
	Migrated        uint64               `json:"migrated"`
	AlreadyMigrated uint64               `json:"alreadyMigrated"`
	DecodeFailures  uint64               `json:"decodeFailures"`
	Dropped         uint64               `json:"dropped"`
	FailedKeys      []models.AccountID   `json:"failedKeys,omitempty"`
	Reads           uint64               `json:"reads"`
	Writes          uint64               `json:"writes"`
	Weight          Weight               `json:"weight"`
	Duration        time.Duration        `json:"duration"`
}

type RunnerInterface interface {
	Run(onchain, target models.SchemaVersion) (CostReport, error)
	UpgradeTo(target models.SchemaVersion) ([]CostReport, error)
}

type Runner struct {
	names      store.Backend
	translator TranslatorInterface
	checker    IntegrityCheckerInterface
	weights    CostAccountant
	metrics    providers.MetricsProviderInterface
	logger     providers.Logger
}

func NewRunner(names store.Backend, translator TranslatorInterface, checker IntegrityCheckerInterface, weights CostAccountant, metrics providers.MetricsProviderInterface, logger providers.Logger) RunnerInterface {
	return &Runner{
		names:      names,
		translator: translator,
		checker:    checker,
		weights:    weights,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run executes the step ending at target against a store at onchain. The
// resulting on-chain version is returned in the report. Skipped and invalid
// steps never touch the store. An error is returned only when the store
// itself fails or a verification check does not hold.
func (r *Runner) Run(onchain, target models.SchemaVersion) (CostReport, error) {
	report := CostReport{
		Decision:      Decide(onchain, target),
		OnchainBefore: onchain,
		OnchainAfter:  onchain,
		Target:        target,
	}
	step, ok := StepTo(target)
	if ok {
		report.Step = step.Name
	} else {
		report.Step = fmt.Sprintf("to_v%d", target)
	}

	r.logger.Infof(providers.TypeMigration, "Running migration with current storage version %d / onchain %d", target, onchain)

	switch report.Decision {
	case Skip:
		report.Reads = 1
		report.Weight = r.weights.Reads(1)
		r.logger.Infof(providers.TypeMigration, "Migration did not execute: storage already at version %d", onchain)
		r.metrics.IncMigrations(report.Step, OutcomeSkipped)
		return report, nil
	case Invalid:
		return r.invalid(report, fmt.Sprintf("onchain %d is more than one version behind %d", onchain, target)), nil
	}

	if !ok {
		return r.invalid(report, fmt.Sprintf("%s: nothing migrates to version %d", ErrUnknownStep, target)), nil
	}

	return r.execute(step, report)
}

func (r *Runner) invalid(report CostReport, reason string) CostReport {
	report.Decision = Invalid
	report.Reads = 1
	report.Weight = r.weights.Reads(1)
	r.logger.Warnf(providers.TypeMigration, "Version mismatch, migration %s not applied: %s", report.Step, reason)
	r.metrics.IncMigrations(report.Step, OutcomeInvalid)
	return report
}

func (r *Runner) execute(step Step, report CostReport) (CostReport, error) {
	start := time.Now()

	checkpoint, err := r.checker.PreUpgrade(step, report.OnchainBefore, report.Target)
	if err != nil {
		return report, err
	}

	expected, err := r.names.Count()
	if err != nil {
		return report, fmt.Errorf("count before %s: %w", step.Name, err)
	}
	report.Expected = expected
	r.logger.Infof(providers.TypeMigration, "Migrating %d nicknames", expected)

	res, err := r.translator.TranslateAll(step)
	if err != nil {
		return report, fmt.Errorf("translate %s: %w", step.Name, err)
	}

	// The version is written only once every entry has been visited.
	if err := r.names.PutOnchainVersion(step.To); err != nil {
		return report, fmt.Errorf("persist version %d: %w", step.To, err)
	}

	report.OnchainAfter = step.To
	report.Visited = res.Visited
	report.Migrated = res.Migrated
	report.AlreadyMigrated = res.AlreadyMigrated
	report.DecodeFailures = res.Failed
	report.Dropped = res.Dropped
	report.FailedKeys = res.FailedKeys
	report.Reads = res.Visited + 1
	report.Writes = res.Visited + 1
	report.Weight = r.weights.ReadsWrites(report.Reads, report.Writes)
	report.Duration = time.Since(start)

	if res.Failed > 0 {
		r.logger.Errorf(providers.TypeMigration, "%d of %d nicknames failed to decode during %s, %d dropped",
			res.Failed, res.Visited, step.Name, res.Dropped)
	}
	if res.AlreadyMigrated > 0 {
		r.logger.Warnf(providers.TypeMigration, "%d nicknames were already at version %d, resuming an interrupted %s",
			res.AlreadyMigrated, step.To, step.Name)
	}
	r.logger.Infof(providers.TypeMigration, "Upgraded %d names from %d initial names, storage to version %d",
		res.Migrated, expected, step.To)

	r.metrics.IncMigrations(step.Name, OutcomeExecuted)
	r.metrics.AddRecordsMigrated(step.Name, res.Migrated)
	r.metrics.AddDecodeFailures(step.Name, res.Failed)
	r.metrics.ObserveMigrationDuration(step.Name, report.Duration)
	r.metrics.SetOnchainVersion(uint16(step.To))

	if err := r.checker.PostUpgrade(step, checkpoint); err != nil {
		return report, err
	}
	return report, nil
}

// UpgradeTo applies every step up to target in order, each one gated on the
// version the previous step left behind.
func (r *Runner) UpgradeTo(target models.SchemaVersion) ([]CostReport, error) {
	onchain, err := r.names.OnchainVersion()
	if err != nil {
		return nil, fmt.Errorf("read onchain version: %w", err)
	}
	r.metrics.SetOnchainVersion(uint16(onchain))

	var reports []CostReport
	for _, step := range Steps {
		if step.To > target {
			break
		}
		report, err := r.Run(onchain, step.To)
		reports = append(reports, report)
		if err != nil {
			return reports, err
		}
		onchain = report.OnchainAfter
	}
	return reports, nil
}

// TotalWeight sums the weight charged across reports.
func TotalWeight(reports []CostReport) Weight {
	var total uint64
	for _, rep := range reports {
		total = saturatingAdd(total, uint64(rep.Weight))
	}
	return Weight(total)
}

// NewRunnerFromConfig wires a runner with the default translator, checker
// and weights.
func NewRunnerFromConfig(names store.Backend, metrics providers.MetricsProviderInterface, logger providers.Logger, conf *structures.Config) RunnerInterface {
	return NewRunner(
		names,
		NewTranslator(names, logger, conf),
		NewIntegrityChecker(names, logger, conf),
		NewDbWeight(conf),
		metrics,
		logger,
	)
}
