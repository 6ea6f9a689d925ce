package providers

import (
	"errors"
	"fmt"

	"github.com/gookit/validate"

	"nicks/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	if c.conf.Store.Backend == "bolt" && c.conf.Store.FilePath == "" {
		return errors.New("invalid config: store.filePath is required for the bolt backend")
	}
	return nil
}
