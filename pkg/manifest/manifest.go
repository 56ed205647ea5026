package manifest

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var ErrInvalidVersion = errors.New("invalid snapshot version")

// Snapshot represents one generated source tree recorded in the manifest.
type Snapshot struct {
	Name    string   `yaml:"name" json:"name"`
	Version string   `yaml:"version" json:"version"`
	Target  string   `yaml:"target" json:"target"`
	Dir     string   `yaml:"dir" json:"dir"`
	Files   []string `yaml:"files,omitempty" json:"files,omitempty"` // relative to Dir
}

// Manifest tracks the lifecycle of generated snapshots. Snapshots are kept in
// ascending semantic version order.
type Manifest struct {
	CurrentVersion  string     `yaml:"current_version" json:"current_version"`
	PreviousVersion string     `yaml:"previous_version" json:"previous_version"`
	Snapshots       []Snapshot `yaml:"snapshots" json:"snapshots"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(afs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(afs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshal manifest")
	}
	for _, s := range m.Snapshots {
		if _, err := ParseVersion(s.Version); err != nil {
			return nil, errors.Wrapf(err, "manifest %s", path)
		}
	}
	m.sort()

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(afs afero.Fs, path string) error {
	if err := afs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create manifest directory")
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}

	if err := afero.WriteFile(afs, path, data, 0o644); err != nil {
		return errors.Wrap(err, "write manifest")
	}

	return nil
}

// ParseVersion validates a snapshot version.
func ParseVersion(v string) (*semver.Version, error) {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%q", v), ErrInvalidVersion)
	}
	return sv, nil
}

// AddSnapshot records a snapshot, replacing an existing entry with an equal
// version ("1.0" and "1.0.0" are one version). Current and previous point at
// the two highest versions.
func (m *Manifest) AddSnapshot(s Snapshot) error {
	sv, err := ParseVersion(s.Version)
	if err != nil {
		return err
	}

	if i := m.index(sv); i >= 0 {
		m.Snapshots[i] = s
	} else {
		m.Snapshots = append(m.Snapshots, s)
	}
	m.sort()

	return nil
}

func (m *Manifest) index(v *semver.Version) int {
	for i := range m.Snapshots {
		if sv, err := semver.NewVersion(m.Snapshots[i].Version); err == nil && sv.Equal(v) {
			return i
		}
	}
	return -1
}

// Snapshot returns the entry recorded for a version equal to version, if
// present.
func (m *Manifest) Snapshot(version string) (Snapshot, bool) {
	sv, err := semver.NewVersion(version)
	if err != nil {
		return Snapshot{}, false
	}
	if i := m.index(sv); i >= 0 {
		return m.Snapshots[i], true
	}
	return Snapshot{}, false
}

// Select returns the snapshots whose versions satisfy constraint, e.g. ">= 1.2, < 2".
func (m *Manifest) Select(constraint string) ([]Snapshot, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid version constraint %q", constraint)
	}

	var out []Snapshot
	for _, s := range m.Snapshots {
		if c.Check(semver.MustParse(s.Version)) {
			out = append(out, s)
		}
	}
	return out, nil
}

// sort orders snapshots by version and resets the version pointers. Every
// version has been validated before sort is called.
func (m *Manifest) sort() {
	sort.SliceStable(m.Snapshots, func(i, j int) bool {
		return semver.MustParse(m.Snapshots[i].Version).LessThan(semver.MustParse(m.Snapshots[j].Version))
	})

	m.CurrentVersion, m.PreviousVersion = "", ""
	if n := len(m.Snapshots); n > 0 {
		m.CurrentVersion = m.Snapshots[n-1].Version
		if n > 1 {
			m.PreviousVersion = m.Snapshots[n-2].Version
		}
	}
}
