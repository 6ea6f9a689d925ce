package migration

import (
	"errors"
	"fmt"

	"nicks/internal/models"
)

var (
	ErrVersionMismatch = errors.New("storage version mismatch")
	ErrUndecodable     = errors.New("value is not decodable")
	ErrCountMismatch   = errors.New("record count changed")
	ErrStatusViolation = errors.New("record status is not active")
	ErrUnknownStep     = errors.New("no migration step")
	ErrDuplicateKey    = errors.New("key staged twice")
)

type DecodeFunc func(data []byte, maxLength int) (models.Record, error)

// Step is the single definition of one schema transition.
type Step struct {
	From models.SchemaVersion
	To   models.SchemaVersion
	Name string
	// Decode reads a value written under From.
	Decode DecodeFunc
	// PostCheck validates a value after the step has rewritten it.
	PostCheck func(data []byte, maxLength int) error
}

var Steps = []Step{
	{
		From:      models.SchemaRawNick,
		To:        models.SchemaSplitNick,
		Name:      "v0_to_v1",
		Decode:    decodeRawNick,
		PostCheck: checkSplitNick,
	},
	{
		From:      models.SchemaSplitNick,
		To:        models.SchemaStatusNick,
		Name:      "v1_to_v2",
		Decode:    decodeSplitNick,
		PostCheck: checkStatusNick,
	},
}

// StepTo returns the step that ends at target.
func StepTo(target models.SchemaVersion) (Step, bool) {
	for _, s := range Steps {
		if s.To == target {
			return s, true
		}
	}
	return Step{}, false
}

// StepFrom returns the step that leaves from.
func StepFrom(from models.SchemaVersion) (Step, bool) {
	for _, s := range Steps {
		if s.From == from {
			return s, true
		}
	}
	return Step{}, false
}

func checkSplitNick(data []byte, maxLength int) error {
	if _, err := models.DecodeV1(data, maxLength); err != nil {
		return fmt.Errorf("%w: %w", ErrUndecodable, err)
	}
	return nil
}

func checkStatusNick(data []byte, maxLength int) error {
	rec, err := models.DecodeV2(data, maxLength)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUndecodable, err)
	}
	if rec.Status != models.StatusActive {
		return fmt.Errorf("%w: got %s", ErrStatusViolation, rec.Status)
	}
	return nil
}
