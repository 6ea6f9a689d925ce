package migration

import "nicks/internal/models"

// Decision is the outcome of comparing the on-chain version with a target.
type Decision int

const (
	Run Decision = iota
	Skip
	Invalid
)

func (d Decision) String() string {
	switch d {
	case Run:
		return "run"
	case Skip:
		return "skip"
	default:
		return "invalid"
	}
}

func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Decide reports whether the step ending at target runs against a store
// currently at onchain. Steps run strictly one version at a time: a store
// already at or past target is skipped, a store more than one version
// behind is invalid.
func Decide(onchain, target models.SchemaVersion) Decision {
	switch {
	case onchain >= target:
		return Skip
	case onchain+1 == target:
		return Run
	default:
		return Invalid
	}
}
