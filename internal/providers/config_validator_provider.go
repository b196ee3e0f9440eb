package providers

import (
	"errors"

	"acctrack/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}
	if cv.conf.Backup.Enabled {
		if cv.conf.Backup.FilePath == "" {
			return errors.New("backup.filePath is required when backup is enabled")
		}
		if cv.conf.Backup.Interval <= 0 {
			return errors.New("backup.interval must be positive when backup is enabled")
		}
	}
	if cv.conf.Cache.Enabled && cv.conf.Cache.Size <= 0 {
		return errors.New("cache.size must be positive when cache is enabled")
	}
	return nil
}
