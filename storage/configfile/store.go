// Package configfile persists the locally cached account state as a single
// JSON document at a fixed path.
package configfile

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/zhaoyk/iclass-cli/core/iclass"
)

type Store struct {
	path string
}

var _ iclass.ConfigStore = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the document, degrading to a default Config when the file is
// absent, empty or not valid JSON. The LoadResult tells the caller which
// case it got; only an actual read failure (permissions etc.) is an error.
func (s *Store) Load() (iclass.Config, iclass.LoadResult, error) {
	var cfg iclass.Config
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, iclass.ConfigDefaultedAbsent, nil
		}
		return cfg, iclass.ConfigDefaultedAbsent, errors.Wrapf(err, "reading %s", s.path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, iclass.ConfigDefaultedAbsent, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return iclass.Config{}, iclass.ConfigDefaultedCorrupt, nil
	}
	return cfg, iclass.ConfigLoaded, nil
}

// Save serializes the full document and overwrites the file in place. It is
// called exactly once, at normal process exit.
func (s *Store) Save(cfg iclass.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrapf(err, "writing %s", s.path)
	}
	return nil
}
