package indel

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// WorkItem holds a variant set ready for classification.
type WorkItem struct {
	Seq int
	Set Set
}

// WorkResult holds the classification output for a single set.
type WorkResult struct {
	Seq      int
	Name     string
	Variants []*Classified
	Err      error
}

// ParallelClassify classifies work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (c *Classifier) ParallelClassify(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				classified, err := c.Classify(item.Set.Variants)
				results <- WorkResult{
					Seq:      item.Seq,
					Name:     item.Set.Name,
					Variants: classified,
					Err:      err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// ClassifyInput runs Classify over every set of the input independently and
// returns an output of the same shape and order. Sets share nothing but the
// reference; the first failing set, in input order, fails the call.
func (c *Classifier) ClassifyInput(in Input, workers int) (Output, error) {
	sets := in.Sets()
	items := make(chan WorkItem, len(sets))
	for i, s := range sets {
		items <- WorkItem{Seq: i, Set: s}
	}
	close(items)

	out := Output{named: in.IsNamed(), Results: make([]Result, 0, len(sets))}
	err := OrderedCollect(c.ParallelClassify(items, workers), func(r WorkResult) error {
		if r.Err != nil {
			if in.IsNamed() {
				return fmt.Errorf("sample %q: %w", r.Name, r.Err)
			}
			return r.Err
		}
		c.logger.Info("classified variant set",
			zap.String("sample", r.Name),
			zap.Int("variants", len(r.Variants)))
		out.Results = append(out.Results, Result{Name: r.Name, Variants: r.Variants})
		return nil
	})
	if err != nil {
		return Output{}, err
	}
	return out, nil
}
