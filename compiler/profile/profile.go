// Package profile loads the build profile pinned in ovie.toml and
// checks compiled artifacts against it. The profile pins metadata
// only, it has no influence on verification.
package profile

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"tlog.app/go/errors"

	"github.com/southwarridev/ovie-sub003/compiler/mir"
)

// DefaultFile is the profile file name looked up next to the sources.
const DefaultFile = "ovie.toml"

// Profile pins the build configuration an artifact must have been
// produced under. Zero fields pin nothing.
type Profile struct {
	Compiler string `toml:"compiler,omitempty"`
	Target   string `toml:"target,omitempty"`
	OptLevel int    `toml:"opt-level"`
	Debug    *bool  `toml:"debug,omitempty"`
}

// Load reads a profile file. An absent opt-level pins nothing and
// loads as -1.
func Load(name string) (*Profile, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read profile")
	}

	p := &Profile{OptLevel: -1}

	err = toml.Unmarshal(data, p)
	if err != nil {
		return nil, errors.Wrap(err, "parse profile")
	}

	return p, nil
}

// Find looks for the profile file in dir, then in its parents.
// It returns the empty string when there is none.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		name := filepath.Join(dir, DefaultFile)

		_, err := os.Stat(name)
		if err == nil {
			return name
		}

		par := filepath.Dir(dir)
		if par == dir {
			return ""
		}

		dir = par
	}
}

// Check reports the first way m deviates from the pinned profile.
func (p *Profile) Check(m mir.Metadata) error {
	if p == nil {
		return nil
	}

	if p.Compiler != "" && m.Compiler != p.Compiler {
		return errors.New("artifact compiler %q, profile pins %q", m.Compiler, p.Compiler)
	}

	if p.Target != "" && m.Target != p.Target {
		return errors.New("artifact target %q, profile pins %q", m.Target, p.Target)
	}

	if p.OptLevel >= 0 && m.OptLevel != p.OptLevel {
		return errors.New("artifact opt level %v, profile pins %v", m.OptLevel, p.OptLevel)
	}

	if p.Debug != nil && m.Debug != *p.Debug {
		return errors.New("artifact debug %v, profile pins %v", m.Debug, *p.Debug)
	}

	return nil
}
