// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cute-engineering/cutekit/internal/platform"
	"github.com/cute-engineering/cutekit/pkg/cueutil"
)

// File names tried by Load, in order.
const (
	JSONFile = "project.json"
	CUEFile  = "project.cue"
)

//go:embed schema.cue
var schema []byte

type (
	// Manifest is a loaded project manifest.
	Manifest struct {
		// Path is the file the manifest was read from.
		Path        string
		ID          string
		Description string
		Components  []string
		Targets     []string
		// Externs are listed in declaration order.
		Externs []Extern
	}

	// Extern is a reference to an external dependency.
	Extern struct {
		// Key is unique within one manifest and names the install directory.
		Key string
		Git string
		Tag string
	}

	// Loader loads the manifest of a directory.
	Loader interface {
		Load(dir string) (*Manifest, error)
		Exists(dir string) bool
	}

	// Store is the filesystem Loader.
	Store struct{}

	projectFile struct {
		ID          string                `json:"id"`
		Description string                `json:"description"`
		Extern      map[string]externFile `json:"extern"`
		Components  []string              `json:"components"`
		Targets     []string              `json:"targets"`
	}

	externFile struct {
		Git string `json:"git"`
		Tag string `json:"tag"`
	}
)

// Load implements Loader.
func (Store) Load(dir string) (*Manifest, error) { return Load(dir) }

// Exists implements Loader.
func (Store) Exists(dir string) bool { return Exists(dir) }

// Exists reports whether dir holds a manifest file.
func Exists(dir string) bool {
	_, ok := find(dir)
	return ok
}

// find returns the manifest file of dir.
func find(dir string) (string, bool) {
	for _, name := range []string{JSONFile, CUEFile} {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// Load reads and validates the manifest of dir.
func Load(dir string) (*Manifest, error) {
	path, ok := find(dir)
	if !ok {
		return nil, &NotFoundError{Dir: dir}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Dir: dir}
		}
		return nil, &MalformedError{Path: path, Reason: err}
	}

	m, err := Parse(data, path)
	if err != nil {
		return nil, &MalformedError{Path: path, Reason: err}
	}
	return m, nil
}

// Parse decodes manifest data. name is used in error messages and recorded
// as the manifest path.
func Parse(data []byte, name string) (*Manifest, error) {
	res, err := cueutil.Decode[projectFile](schema, "#Project", data, cueutil.WithFilename(name))
	if err != nil {
		return nil, err
	}

	order, err := cueutil.FieldOrder(res.Data, "extern")
	if err != nil {
		return nil, err
	}

	pf := res.Value
	m := &Manifest{
		Path:        name,
		ID:          pf.ID,
		Description: pf.Description,
		Components:  pf.Components,
		Targets:     pf.Targets,
		Externs:     make([]Extern, 0, len(order)),
	}
	for _, key := range order {
		if err := ValidateKey(key); err != nil {
			return nil, err
		}
		ext, ok := pf.Extern[key]
		if !ok {
			return nil, fmt.Errorf("extern %q: missing after decode", key)
		}
		m.Externs = append(m.Externs, Extern{Key: key, Git: ext.Git, Tag: ext.Tag})
	}
	return m, nil
}

// ValidateKey checks that an extern key is a relative slash-separated path
// with no empty, "." or ".." segments.
func ValidateKey(key string) error {
	if key == "" {
		return errors.New("extern key is empty")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("extern key %q must be a relative slash-separated path", key)
	}
	for seg := range strings.SplitSeq(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("extern key %q has an invalid path segment %q", key, seg)
		}
		if why := platform.PortableSegment(seg); why != "" {
			return fmt.Errorf("extern key %q: segment %q %s", key, seg, why)
		}
	}
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return fmt.Errorf("extern key %q does not name a local path", key)
	}
	return nil
}

// ExternByKey returns the extern declared under key.
func (m *Manifest) ExternByKey(key string) (Extern, bool) {
	for _, e := range m.Externs {
		if e.Key == key {
			return e, true
		}
	}
	return Extern{}, false
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string { return filepath.Dir(m.Path) }
