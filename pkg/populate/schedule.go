package populate

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/loamlang/loam/pkg/decl"
)

// PopulateAll populates every descriptor in the codebase, ancestors before
// descendants. Classes in the same topological level have no inheritance
// relationship and are populated in parallel, bounded by parallelism.
// Cyclic remainders (mutual require-extends and the like) are populated
// sequentially in name order as a best effort. Results come back sorted by
// class name so output is reproducible across runs.
func PopulateAll(ctx context.Context, cb *decl.Codebase, parallelism int) ([]*PopulationResult, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	levels, remainder := schedule(cb)
	slog.Debug("population scheduled", "levels", len(levels), "cyclic", len(remainder))

	var (
		mu      sync.Mutex
		results []*PopulationResult
	)
	for _, level := range levels {
		eg, _ := errgroup.WithContext(ctx)
		eg.SetLimit(parallelism)
		for _, name := range level {
			c, ok := cb.ClassLike(name)
			if !ok {
				continue
			}
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				r := Populate(c, cb)
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	for _, name := range remainder {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c, ok := cb.ClassLike(name); ok {
			slog.Debug("populating cyclic class", "class", name)
			results = append(results, Populate(c, cb))
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Class.Name < results[j].Class.Name
	})
	return results, nil
}

// schedule computes topological levels over the declared ancestor edges.
// Ancestors missing from the codebase count as satisfied; they surface as
// invalid dependencies during population instead. The second return lists
// classes stuck in dependency cycles, sorted by name.
func schedule(cb *decl.Codebase) (levels [][]string, remainder []string) {
	names := cb.Names()

	known := make(map[string]string, len(names)) // lowercased -> declared
	for _, name := range names {
		known[strings.ToLower(name)] = name
	}

	pending := make(map[string]map[string]bool, len(names)) // name -> unmet ancestors
	dependents := make(map[string][]string, len(names))
	for _, name := range names {
		c, _ := cb.ClassLike(name)
		unmet := map[string]bool{}
		for _, anc := range c.DirectAncestors() {
			key := strings.ToLower(anc)
			if _, ok := known[key]; !ok {
				continue
			}
			if key == strings.ToLower(name) {
				continue
			}
			if !unmet[key] {
				unmet[key] = true
				dependents[key] = append(dependents[key], name)
			}
		}
		pending[name] = unmet
	}

	ready := []string{}
	for _, name := range names {
		if len(pending[name]) == 0 {
			ready = append(ready, name)
		}
	}

	done := map[string]bool{}
	for len(ready) > 0 {
		sort.Strings(ready)
		levels = append(levels, ready)

		var next []string
		for _, name := range ready {
			done[name] = true
			for _, dep := range dependents[strings.ToLower(name)] {
				unmet := pending[dep]
				delete(unmet, strings.ToLower(name))
				if len(unmet) == 0 && !done[dep] {
					next = append(next, dep)
				}
			}
		}
		ready = next
	}

	for _, name := range names {
		if !done[name] {
			remainder = append(remainder, name)
		}
	}
	sort.Strings(remainder)
	return levels, remainder
}
