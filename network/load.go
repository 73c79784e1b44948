// SPDX-License-Identifier: MIT

package network

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a network description. It mirrors the
// builder inputs one to one so a missing cost, capacity or demand is
// reported as such instead of silently defaulting to zero.
//
//	sources: [A, B]
//	sinks:
//	  - {name: C, demand: 1}
//	  - {name: D, demand: 1}
//	relay: {name: E, target_offset: 0, usage_cost: 0}
//	costs: {A: 2, B: 3}
//	capacities: {A: 1, B: 1}
type File struct {
	Sources    []string           `yaml:"sources" validate:"required,min=1,dive,required"`
	Sinks      []FileSink         `yaml:"sinks" validate:"required,min=1,dive"`
	Relay      Relay              `yaml:"relay"`
	Costs      map[string]float64 `yaml:"costs"`
	Capacities map[string]int     `yaml:"capacities"`
}

// FileSink is a sink as written on disk; Demand is a pointer so an absent
// key can be told apart from an explicit 0.
type FileSink struct {
	Name   string `yaml:"name" validate:"required"`
	Demand *int   `yaml:"demand" validate:"required,gte=0"`
}

var validate = validator.New()

// Parse decodes and validates a YAML network description.
func Parse(data []byte) (*Network, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("network: parse: %w", err)
	}
	return f.Network()
}

// LoadFile reads a YAML network description from path.
func LoadFile(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("network: read %s: %w", path, err)
	}
	return Parse(data)
}

// Network validates the file shape and converts it through New.
func (f *File) Network() (*Network, error) {
	for _, k := range f.Sinks {
		if k.Demand == nil {
			return nil, configErr(k.Name, "demand", "missing demand entry")
		}
	}
	if err := validate.Struct(f); err != nil {
		return nil, fromValidation(err)
	}
	sinks := make([]Sink, len(f.Sinks))
	for i, k := range f.Sinks {
		sinks[i] = Sink{Name: k.Name, Demand: *k.Demand}
	}
	return New(f.Sources, sinks, f.Relay, f.Costs, f.Capacities)
}

// Marshal renders n back into the file shape.
func Marshal(n *Network) ([]byte, error) {
	f := File{
		Sources:    make([]string, 0, len(n.Sources)),
		Sinks:      make([]FileSink, 0, len(n.Sinks)),
		Relay:      n.Relay,
		Costs:      make(map[string]float64, len(n.Sources)),
		Capacities: make(map[string]int, len(n.Sources)),
	}
	for _, k := range n.Sinks {
		d := k.Demand
		f.Sinks = append(f.Sinks, FileSink{Name: k.Name, Demand: &d})
	}
	for _, s := range n.Sources {
		f.Sources = append(f.Sources, s.Name)
		f.Costs[s.Name] = s.Cost
		f.Capacities[s.Name] = s.Capacity
	}
	return yaml.Marshal(&f)
}

// fromValidation converts validator output into a ConfigurationError so
// callers only ever branch on ErrConfiguration.
func fromValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return configErr("", "file", "%v", err)
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	return configErr("", field, "failed %q rule (%s)", fe.Tag(), fe.Namespace())
}
