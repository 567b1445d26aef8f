package providers

import (
	"strings"

	"github.com/gookit/validate"

	"mixd/internal/structures"
)

func init() {
	validate.AddValidator("unixPath", func(val interface{}) bool {
		s, ok := val.(string)
		if !ok || s == "" {
			return false
		}
		return !strings.ContainsAny(s, "\x00")
	})
}

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors.OneError()
	}
	return nil
}
