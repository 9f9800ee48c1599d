package persistence

import (
	"errors"
	"fmt"
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/ui"
	"os"
)

// ConfigStore loads and saves the device config at a fixed path of a Storage
type ConfigStore struct {
	storage Storage
	path    string
}

func NewConfigStore(storage Storage, path string) *ConfigStore {
	return &ConfigStore{
		storage: storage,
		path:    path,
	}
}

// Path returns the location of the config within the storage
func (s *ConfigStore) Path() string {
	return s.path
}

// Load reads the config from storage.
// If the file is missing, empty or unreadable the default config is returned.
// Invalid values are repaired while decoding, so the result is always valid.
func (s *ConfigStore) Load() *config.Config {
	data, err := s.storage.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ui.Info("No config found at %s, using defaults", s.path)
		} else {
			ui.Warning("Unable to read config %s, using defaults: %v", s.path, err)
		}
		return config.New()
	}
	if len(data) == 0 {
		ui.Info("Config at %s is empty, using defaults", s.path)
		return config.New()
	}

	c, err := config.Decode(data)
	if err != nil {
		ui.Warning("Config at %s was only partially loaded: %v", s.path, err)
	}
	return c
}

// Save encodes the config and writes it to storage. Invalid configs are refused.
func (s *ConfigStore) Save(c *config.Config) error {
	data, err := config.Encode(c)
	if err != nil {
		return err
	}
	if err := s.storage.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("%w: unable to write config %s: %v", ErrStorageUnavailable, s.path, err)
	}
	ui.Debug("Saved config to %s", s.path)
	return nil
}

// Reset replaces the persisted config with the default config
func (s *ConfigStore) Reset() (*config.Config, error) {
	c := config.New()
	return c, s.Save(c)
}
