package indel

import (
	"fmt"

	"github.com/inodb/vibe-indel/internal/vcf"
)

// Set is a named variant set, typically one sample.
type Set struct {
	Name     string
	Variants []*vcf.Variant
}

// Input is either a single unnamed variant set or an ordered collection of
// named sets. Use Single or Named to build one.
type Input struct {
	named bool
	sets  []Set
}

// Single wraps one variant set.
func Single(variants []*vcf.Variant) Input {
	return Input{sets: []Set{{Variants: variants}}}
}

// Named wraps named sets; output keeps their order.
func Named(sets ...Set) Input {
	return Input{named: true, sets: sets}
}

// IsNamed reports whether the input is a collection of named sets.
func (in Input) IsNamed() bool { return in.named }

// Sets returns the variant sets. A single input has one unnamed set.
func (in Input) Sets() []Set { return in.sets }

// Result is the classified output of one variant set.
type Result struct {
	Name     string
	Variants []*Classified
}

// Output mirrors the shape of the Input it was produced from.
type Output struct {
	named   bool
	Results []Result
}

// IsNamed reports whether the output holds named sets.
func (o Output) IsNamed() bool { return o.named }

// Len returns the total number of classified variants.
func (o Output) Len() int {
	n := 0
	for _, r := range o.Results {
		n += len(r.Variants)
	}
	return n
}

// ResultWriter defines the interface for writing classified variants.
type ResultWriter interface {
	WriteHeader() error
	Write(sample string, c *Classified) error
	Flush() error
}

// WriteOutput writes every result set in order, header first.
func WriteOutput(w ResultWriter, out Output) error {
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range out.Results {
		for _, c := range r.Variants {
			if err := w.Write(r.Name, c); err != nil {
				return fmt.Errorf("write classified variant: %w", err)
			}
		}
	}
	return w.Flush()
}
