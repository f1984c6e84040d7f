package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DotEnvFiles lists the dotenv files for env, highest priority first
func DotEnvFiles(env string) []string {
	var files []string
	if env != "" {
		files = append(files, ".env."+env+".local", ".env."+env)
	}
	return append(files, ".env.local", ".env")
}

// LoadDotEnv loads the dotenv files present in dir for the APP_ENV already
// set in the process. Variables set in the process win over every file, and
// earlier files in DotEnvFiles win over later ones. It returns the files it
// loaded; a malformed file is skipped and reported in the error.
func LoadDotEnv(dir string) ([]string, error) {
	var (
		loaded []string
		errs   []error
	)
	for _, name := range DotEnvFiles(os.Getenv("APP_ENV")) {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// godotenv.Load never overrides, so loading in priority order
		// leaves the first definition in place
		if err := godotenv.Load(path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		loaded = append(loaded, name)
	}
	return loaded, errors.Join(errs...)
}
