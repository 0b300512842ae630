// Package project reads the project scripts that declare which upstream
// repository a fork picker works against.
//
// A projects directory holds one script per project. The project name is
// the file name without its extension; dotfiles are ignored. Metadata is
// declared anywhere in a script with lines such as
//
//	# fleeting-meta:repo = mozilla/openbadges
package project

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/fleetingdev/fleeting/pkg/errors"
	"github.com/fleetingdev/fleeting/pkg/integrations/github"
)

var metaLine = regexp.MustCompile(`fleeting-meta:([a-z0-9\-]+)\s*=(.*)`)

// Project is one parsed project script.
type Project struct {
	Name string
	Path string
	Meta map[string]string
}

// Map returns project name -> script path for every project in dir.
func Map(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read projects directory %s", dir)
	}
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || e.IsDir() {
			continue
		}
		m[strings.TrimSuffix(name, filepath.Ext(name))] = filepath.Join(dir, name)
	}
	return m, nil
}

// Names returns the sorted project names in dir.
func Names(dir string) ([]string, error) {
	m, err := Map(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Load reads and parses the named project.
func Load(dir, name string) (*Project, error) {
	m, err := Map(dir)
	if err != nil {
		return nil, err
	}
	path, ok := m[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeProjectNotFound, "no project named %q in %s", name, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Project{Name: name, Path: path, Meta: ParseMeta(data)}, nil
}

// ParseMeta extracts fleeting-meta declarations from a script. When a key
// is declared twice the last value wins.
func ParseMeta(script []byte) map[string]string {
	meta := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(script))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if m := metaLine.FindStringSubmatch(sc.Text()); m != nil {
			meta[m[1]] = strings.TrimSpace(m[2])
		}
	}
	return meta
}

// Repo returns the project's upstream repository as owner and name.
func (p *Project) Repo() (owner, name string, err error) {
	ref, ok := p.Meta["repo"]
	if !ok || ref == "" {
		return "", "", errors.New(errors.ErrCodeInvalidConfig, "project %q declares no fleeting-meta:repo", p.Name)
	}
	return github.ParseRepoRef(ref)
}
