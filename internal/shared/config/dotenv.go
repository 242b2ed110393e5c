package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads KEY=VALUE pairs from the given files if they exist.
// Variables already present in the environment win.
func loadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
