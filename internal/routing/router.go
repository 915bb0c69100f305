package routing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conschat/conschat-go/internal/provider"
)

// Model describes a model and its provider weight.
type Model struct {
	Name   string `yaml:"name" json:"id"`
	Weight int    `yaml:"weight" json:"weight"`
}

type catalog struct {
	Models []Model `yaml:"models"`
}

// Router maps models to providers.
type Router struct {
	models    []Model
	providers map[string]provider.Provider
	defaultP  provider.Provider
}

func New() *Router {
	return &Router{
		providers: make(map[string]provider.Provider),
	}
}

// LoadModels reads a YAML model catalog of the form
//
//	models:
//	  - name: gpt-3.5-turbo
//	    weight: 1
func LoadModels(path string) ([]Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model catalog: %w", err)
	}
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}
	for i, m := range c.Models {
		if m.Name == "" {
			return nil, fmt.Errorf("model catalog entry %d has no name", i)
		}
		if m.Weight <= 0 {
			c.Models[i].Weight = 1
		}
	}
	return c.Models, nil
}

// Register associates a model with a provider implementation.
// The first registered provider becomes the default.
func (r *Router) Register(model string, p provider.Provider) {
	if _, ok := r.providers[model]; !ok {
		r.models = append(r.models, Model{Name: model, Weight: 1})
	}
	r.providers[model] = p
	if r.defaultP == nil {
		r.defaultP = p
	}
}

// RegisterModels associates every catalog entry with p.
func (r *Router) RegisterModels(models []Model, p provider.Provider) {
	for _, m := range models {
		r.Register(m.Name, p)
		r.models[r.indexOf(m.Name)].Weight = m.Weight
	}
}

func (r *Router) indexOf(name string) int {
	for i, m := range r.models {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// ProviderFor returns the provider for a model or the default provider.
func (r *Router) ProviderFor(model string) provider.Provider {
	if p, ok := r.providers[model]; ok {
		return p
	}
	return r.defaultP
}

// Select returns the registered model with the highest weight.
func (r *Router) Select() Model {
	if len(r.models) == 0 {
		return Model{}
	}
	best := r.models[0]
	for _, m := range r.models[1:] {
		if m.Weight > best.Weight {
			best = m
		}
	}
	return best
}

func (r *Router) Models() []Model {
	out := make([]Model, len(r.models))
	copy(out, r.models)
	return out
}
