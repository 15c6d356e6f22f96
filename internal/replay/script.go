// Package replay loads scripted storefront events and schedules them against
// a broadcaster.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/shoptoast/internal/core/notify"
	"github.com/hay-kot/shoptoast/internal/core/validate"
)

// Duration is a time.Duration written as a Go duration string ("1.5s") in
// both YAML and JSON scripts.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	if len(bytes.TrimSpace(text)) == 0 {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q", text)
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Step is one scripted notification, shown After the script starts.
type Step struct {
	After    Duration        `yaml:"after" json:"after"`
	Message  string          `yaml:"message" json:"message"`
	Category notify.Category `yaml:"category" json:"category"`
	// Duration overrides the display duration. Zero selects the default.
	Duration Duration `yaml:"duration,omitempty" json:"duration,omitempty"`
}

// Script is a named, ordered list of steps.
type Script struct {
	Name  string `yaml:"name" json:"name"`
	Steps []Step `yaml:"steps" json:"steps"`
	// Source is the file the script was read from, if any.
	Source string `yaml:"-" json:"-"`
}

// Span returns the offset of the last step.
func (s Script) Span() time.Duration {
	var span time.Duration
	for _, st := range s.Steps {
		span = max(span, st.After.Std())
	}
	return span
}

// Validate checks every step. Errors are criterio.FieldErrors keyed by
// step index.
func (s Script) Validate() error {
	var errs criterio.FieldErrorsBuilder
	for i, st := range s.Steps {
		prefix := fmt.Sprintf("steps[%d]", i)
		if err := validate.Message(st.Message); err != nil {
			errs = errs.Append(prefix+".message", err)
		}
		if err := validate.Category(string(st.Category)); err != nil {
			errs = errs.Append(prefix+".category", err)
		}
		if st.After < 0 {
			errs = errs.Append(prefix+".after", fmt.Errorf("must not be negative, got %s", st.After.Std()))
		}
		if st.Duration < 0 {
			errs = errs.Append(prefix+".duration", fmt.Errorf("must not be negative, got %s", st.Duration.Std()))
		}
	}
	return errs.ToError()
}

// Parse decodes a script from r. JSON input is accepted as a YAML subset.
func Parse(r io.Reader) (Script, error) {
	var s Script
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		return s, fmt.Errorf("decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// ParseFile reads and validates the script at path. A script without a name
// is named after its file.
func ParseFile(path string) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return Script{}, fmt.Errorf("open script: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := Parse(f)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	s.Source = path
	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	return s, nil
}

// Glob expands the doublestar patterns into a sorted list of unique files.
func Glob(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}

	slices.Sort(paths)
	return slices.Compact(paths), nil
}

// Load parses every file matched by patterns once, in lexical order.
func Load(patterns []string) ([]Script, error) {
	paths, err := Glob(patterns)
	if err != nil {
		return nil, err
	}

	scripts := make([]Script, 0, len(paths))
	for _, p := range paths {
		s, err := ParseFile(p)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// AppendStep adds step to the script at path, creating the file when it does
// not exist, and writes it back as YAML.
func AppendStep(path string, step Step) (Script, error) {
	var s Script
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Script{}, fmt.Errorf("decode script: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Script{}, fmt.Errorf("read script: %w", err)
	}

	s.Steps = append(s.Steps, step)
	if err := s.Validate(); err != nil {
		return Script{}, err
	}

	out, err := yaml.Marshal(s)
	if err != nil {
		return Script{}, fmt.Errorf("encode script: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Script{}, fmt.Errorf("create script dir: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return Script{}, fmt.Errorf("write script: %w", err)
	}

	s.Source = path
	return s, nil
}
