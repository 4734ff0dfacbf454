// Package search ranks pages against AND/OR/NOT term groups. Terms
// add and subtract points rather than filtering boolean-style: AND
// terms score and drop non-matches, OR terms only add points, NOT
// terms subtract and drop pages whose total falls to zero.
package search

import (
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"harrow/internal/models"
)

// Query holds the three term groups of one search. The query splitter
// only ever fills And and Not; Or stays part of the contract for
// callers that build queries themselves.
type Query struct {
	And []string
	Or  []string
	Not []string
}

// ParseQuery splits a raw query string on spaces (ASCII or
// ideographic) into term groups. A leading dash marks a NOT term.
func ParseQuery(raw string) Query {
	raw = strings.ReplaceAll(raw, "　", " ")

	var q Query
	for _, term := range strings.Split(raw, " ") {
		if term == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(term, "-"); ok {
			if rest != "" {
				q.Not = append(q.Not, rest)
			}
			continue
		}
		q.And = append(q.And, term)
	}
	return q
}

// Order selects how results are ranked by their final point total.
type Order int

const (
	// LowestFirst sorts ascending by points. This matches the
	// reference behavior, which ranks the weakest match first.
	LowestFirst Order = iota
	// HighestFirst sorts descending by points.
	HighestFirst
)

// Result is one ranked page with its final point total.
type Result struct {
	Page   models.Page
	Points int
}

// Engine scores pages concurrently. Workers bounds the number of
// pages scored at once per stage; zero or less means one per CPU.
type Engine struct {
	Workers int
	Order   Order
}

// Search ranks the given pages against the query. The three stages
// run in sequence since each works on the survivors and running
// totals of the one before; within a stage every page is scored
// independently.
func (e *Engine) Search(pages []models.Page, q Query) []Result {
	results := make([]Result, len(pages))
	for i, p := range pages {
		results[i] = Result{Page: p}
	}

	if len(q.And) > 0 {
		e.score(results, q.And, 1)
		results = keepPositive(results)
	}
	if len(q.Or) > 0 {
		e.score(results, q.Or, 1)
	}
	if len(q.Not) > 0 {
		e.score(results, q.Not, -1)
		results = keepPositive(results)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if e.Order == HighestFirst {
			return results[i].Points > results[j].Points
		}
		return results[i].Points < results[j].Points
	})
	return results
}

// score adds sign*points(page, terms) to every running total. Each
// element is written only by its own goroutine, so no locking is
// needed.
func (e *Engine) score(results []Result, terms []string, sign int) {
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range results {
		g.Go(func() error {
			results[i].Points += sign * points(results[i].Page, lowered)
			return nil
		})
	}
	g.Wait()
}

// points counts term occurrences, weighting title matches double.
func points(p models.Page, terms []string) int {
	title := strings.ToLower(p.Title)
	content := strings.ToLower(p.Content)

	var pts int
	for _, t := range terms {
		pts += strings.Count(title, t) * 2
		pts += strings.Count(content, t)
	}
	return pts
}

func keepPositive(results []Result) []Result {
	kept := results[:0]
	for _, r := range results {
		if r.Points > 0 {
			kept = append(kept, r)
		}
	}
	return kept
}
