package indel

import (
	"cmp"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vibe-indel/internal/genome"
	"github.com/inodb/vibe-indel/internal/vcf"
)

// Classifier assigns indel context categories using a reference genome.
// It holds no mutable state and may be shared between goroutines.
type Classifier struct {
	ref    genome.Provider
	logger *zap.Logger
}

// NewClassifier creates a classifier reading flanks from ref.
func NewClassifier(ref genome.Provider) *Classifier {
	return &Classifier{
		ref:    ref,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for debug and info messages.
func (c *Classifier) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Classify validates a variant set and returns its classified variants
// sorted by chromosome and position. A validation failure returns no
// partial results.
func (c *Classifier) Classify(set []*vcf.Variant) ([]*Classified, error) {
	if err := Validate(c.ref, set); err != nil {
		return nil, err
	}

	parts := Partition(set)
	var results [numClasses][]*Classified

	// Classes are independent; each issues its own batch of flank queries.
	var g errgroup.Group
	for class, vs := range parts {
		if len(vs) == 0 {
			continue
		}
		c.logger.Debug("classifying partition",
			zap.Stringer("class", Class(class)),
			zap.Int("variants", len(vs)))

		g.Go(func() error {
			out, err := c.classifyPartition(Class(class), vs)
			results[class] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]*Classified, 0, len(set))
	for _, r := range results {
		merged = append(merged, r...)
	}
	SortClassified(merged)
	return merged, nil
}

func (c *Classifier) classifyPartition(class Class, vs []*vcf.Variant) ([]*Classified, error) {
	switch class {
	case SingleBaseDeletion:
		return classifyHomopolymers(c.ref, vs, true)
	case SingleBaseInsertion:
		return classifyHomopolymers(c.ref, vs, false)
	case LargeDeletion:
		return classifyDeletions(c.ref, vs)
	default:
		return classifyInsertions(c.ref, vs)
	}
}

// SortClassified orders results by chromosome (natural order) and position.
// Records at the same position are ordered by alleles, then category, so
// the order never depends on input or processing order.
func SortClassified(cs []*Classified) {
	slices.SortStableFunc(cs, func(a, b *Classified) int {
		va, vb := a.Variant, b.Variant
		if c := genome.CompareChromosomes(va.Chrom, vb.Chrom); c != 0 {
			return c
		}
		return cmp.Or(
			cmp.Compare(va.Pos, vb.Pos),
			cmp.Compare(va.Ref, vb.Ref),
			cmp.Compare(va.Alt, vb.Alt),
			cmp.Compare(a.Category, b.Category),
		)
	})
}
