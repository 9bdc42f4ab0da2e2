package preset

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

//go:embed presets.hcl
var builtinSource []byte

// File is the top-level shape of a standalone preset file
type File struct {
	Presets []Block `hcl:"preset,block"`
}

// Parse decodes every preset block in an HCL document
func Parse(src []byte, filename string) ([]Preset, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var f File
	if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	presets := make([]Preset, 0, len(f.Presets))
	for _, b := range f.Presets {
		p, err := b.Decode()
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, nil
}

var builtins = sync.OnceValues(func() ([]Preset, error) {
	return Parse(builtinSource, "presets.hcl")
})

// Builtin returns the presets shipped with the binary
func Builtin() []Preset {
	presets, err := builtins()
	if err != nil {
		panic(fmt.Sprintf("embedded presets: %v", err))
	}
	return slices.Clone(presets)
}

// Registry is a concurrency-safe set of presets keyed by name
type Registry struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// NewRegistry returns a registry holding the built-in presets
func NewRegistry() *Registry {
	r := &Registry{presets: make(map[string]Preset)}
	for _, p := range Builtin() {
		r.presets[p.Name] = p
	}
	return r
}

// Get looks up a preset by name
func (r *Registry) Get(name string) (Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// Add registers p, replacing any preset (built-in or not) with the same name
func (r *Registry) Add(p Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.presets[p.Name] = p
	r.mu.Unlock()
	return nil
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.presets))
}

// All returns every preset sorted by name
func (r *Registry) All() []Preset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Preset, 0, len(r.presets))
	for _, name := range slices.Sorted(maps.Keys(r.presets)) {
		out = append(out, r.presets[name])
	}
	return out
}
