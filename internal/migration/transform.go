package migration

import (
	"fmt"

	"nicks/internal/models"
)

// UpgradeV0 splits the raw nickname at its last space. The deposit is kept.
func UpgradeV0(r models.RecordV0) models.RecordV1 {
	first, last := models.SplitNick(r.Nick)
	return models.RecordV1{First: first, Last: last, Deposit: r.Deposit}
}

// UpgradeV1 copies both segments and marks the account active. Active is
// the only status a migration ever assigns.
func UpgradeV1(r models.RecordV1) models.RecordV2 {
	return models.RecordV2{
		First:   r.First,
		Last:    r.Last,
		Status:  models.StatusActive,
		Deposit: r.Deposit,
	}
}

// Upgrade lifts a record one schema version.
func Upgrade(rec models.Record) (models.Record, error) {
	switch r := rec.(type) {
	case models.RecordV0:
		return UpgradeV0(r), nil
	case models.RecordV1:
		return UpgradeV1(r), nil
	case models.RecordV2:
		return nil, fmt.Errorf("%w: schema %d is the latest", ErrUnknownStep, r.Schema())
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownStep, rec)
	}
}
