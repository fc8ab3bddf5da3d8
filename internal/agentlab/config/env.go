package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/joho/godotenv"
)

// LoadEnv loads a key-value env file into the process environment.
// Returns agentlab.ErrConfigMissing when the file does not exist, so
// callers fail before any provider client is constructed.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", agentlab.ErrConfigMissing, path)
		}
		return fmt.Errorf("checking env file %s: %w", path, err)
	}

	if err := godotenv.Overload(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// LoadEnvIfPresent loads the env file when it exists and is a no-op
// otherwise. Used for the default ".env" lookup so exported variables
// keep working without one.
func LoadEnvIfPresent(path string) error {
	err := LoadEnv(path)
	if errors.Is(err, agentlab.ErrConfigMissing) {
		return nil
	}
	return err
}
