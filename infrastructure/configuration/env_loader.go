package configuration

import (
	"errors"
	"io/fs"

	"ytcollector/infrastructure/logger"

	"github.com/subosito/gotenv"
)

// LoadEnvFromFile loads KEY=VALUE pairs from one or more dotenv files (e.g.
// config.env, .env). Missing files are skipped and variables already set in
// the process environment are not overridden.
func LoadEnvFromFile(paths ...string) {
	for _, p := range paths {
		if err := gotenv.Load(p); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.GetLogger().WithField("error", err).Warnf("failed loading %s", p)
			}
			continue
		}
		logger.GetLogger().WithField("file", p).Info("Loaded environment file")
	}
}
