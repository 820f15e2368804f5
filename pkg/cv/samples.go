package cv

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed samples/*.yaml
var embeddedSamples embed.FS

// DefaultSampleID names the example used by "load example" flows.
const DefaultSampleID = "john-anderson"

var (
	samplesOnce sync.Once
	samples     map[string]Record
	samplesErr  error
)

// SamplesFS exposes the embedded example records.
func SamplesFS() fs.FS {
	sub, err := fs.Sub(embeddedSamples, "samples")
	if err != nil {
		return embeddedSamples
	}
	return sub
}

// LoadSamples walks fsys and decodes every YAML file into a Record keyed by
// the file name without extension.
func LoadSamples(fsys fs.FS) (map[string]Record, error) {
	out := make(map[string]Record)
	if fsys == nil {
		return out, nil
	}

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSampleFile(name) {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("cv: read sample %s: %w", name, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return fmt.Errorf("cv: sample %s is empty", name)
		}

		var record Record
		if err := yaml.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("cv: parse sample %s: %w", name, err)
		}
		record.EnsureRows()

		id := strings.TrimSuffix(path.Base(name), path.Ext(name))
		if _, exists := out[id]; exists {
			return fmt.Errorf("cv: duplicate sample %q (file %s)", id, name)
		}
		out[id] = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isSampleFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func embeddedSampleSet() (map[string]Record, error) {
	samplesOnce.Do(func() {
		samples, samplesErr = LoadSamples(SamplesFS())
	})
	return samples, samplesErr
}

// SampleIDs lists the embedded example identifiers in sorted order.
func SampleIDs() []string {
	set, err := embeddedSampleSet()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SampleByID returns a copy of the named embedded example.
func SampleByID(id string) (Record, bool) {
	set, err := embeddedSampleSet()
	if err != nil {
		return Record{}, false
	}
	record, ok := set[id]
	if !ok {
		return Record{}, false
	}
	return record.Clone(), true
}

// Sample returns the default example record. The embedded fixtures are part
// of the binary, so a decoding failure is a programming error.
func Sample() Record {
	record, ok := SampleByID(DefaultSampleID)
	if !ok {
		_, err := embeddedSampleSet()
		panic(fmt.Sprintf("cv: default sample %q unavailable: %v", DefaultSampleID, err))
	}
	return record
}
