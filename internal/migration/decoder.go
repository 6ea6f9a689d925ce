package migration

import (
	"fmt"

	"nicks/internal/models"
)

// decodeRawNick decodes a schema 0 value for the 0->1 step. The nickname
// must split into segments that fit the schema 1 bound.
func decodeRawNick(data []byte, maxLength int) (models.Record, error) {
	rec, err := models.DecodeV0(data)
	if err != nil {
		return nil, err
	}
	first, last := models.SplitNick(rec.Nick)
	if maxLength > 0 && (len(first) > maxLength || len(last.Value) > maxLength) {
		return nil, fmt.Errorf("%w: nickname %q does not split within %d bytes", models.ErrNameTooLong, rec.Nick, maxLength)
	}
	return rec, nil
}

// decodeSplitNick decodes a schema 1 value for the 1->2 step.
func decodeSplitNick(data []byte, maxLength int) (models.Record, error) {
	rec, err := models.DecodeV1(data, maxLength)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// decodeStaged decodes a value the way step reads it. A value that already
// has the shape of step.To was rewritten by an earlier, interrupted run of
// the same step; it is returned with upgraded set and must be left alone.
func decodeStaged(step Step, data []byte, maxLength int) (rec models.Record, upgraded bool, err error) {
	rec, err = step.Decode(data, maxLength)
	if err == nil {
		return rec, false, nil
	}
	if next, nextErr := models.DecodeRecord(step.To, data, maxLength); nextErr == nil {
		return next, true, nil
	}
	return nil, false, err
}
