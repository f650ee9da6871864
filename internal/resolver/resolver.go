// Package resolver turns a free-text token (player name or federation
// number) into exactly one confirmed player, or into a structured outcome the
// caller can act on: a candidate list needing selection, or a not-found
// result that still names the unusable records it saw.
//
// The resolver never blocks for input. Interactive front ends prompt with
// Result.Candidates and feed the answer to Select; services hand the
// candidates back to their own caller.
package resolver

import (
	"strconv"
	"strings"

	"github.com/bkoksal/tgf-handicap/internal/player"
)

// Result is the outcome of resolving one token. Exactly one of the three
// predicate methods is true.
type Result struct {
	Query string `json:"query"`

	// Player is the single confirmed match.
	Player *player.Record `json:"player,omitempty"`

	// Candidates are the active records when more than one could match.
	Candidates []player.Record `json:"candidates,omitempty"`

	// Excluded are records that matched the query but carry no usable
	// handicap (inactive or no index). They explain a not-found outcome.
	Excluded []player.Record `json:"excluded,omitempty"`
}

// Resolved reports whether exactly one player was confirmed.
func (r *Result) Resolved() bool { return r.Player != nil }

// NeedsSelection reports whether the caller must pick among candidates.
func (r *Result) NeedsSelection() bool { return r.Player == nil && len(r.Candidates) > 0 }

// NotFound reports whether no usable player matched. Excluded may still hold
// the unusable matches.
func (r *Result) NotFound() bool { return r.Player == nil && len(r.Candidates) == 0 }

// Resolver resolves tokens against a player directory.
type Resolver struct {
	Directory player.Directory

	// Cache, when set, short-circuits repeated same-day queries.
	Cache *player.QueryCache
}

// New creates a resolver without a cache.
func New(directory player.Directory) *Resolver {
	return &Resolver{Directory: directory}
}

// IsFedNo reports whether a token is a federation number: all digits,
// nothing else.
func IsFedNo(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Resolve looks up a token and classifies the outcome. It returns an error
// only when the search itself could not be performed; every in-band outcome,
// including "found players but none usable", lives in the Result.
func (r *Resolver) Resolve(token string) (*Result, error) {
	token = strings.TrimSpace(token)
	result := &Result{Query: token}

	records, err := r.lookup(token)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return result, nil
	}

	active, excluded := player.SplitActive(records)
	result.Excluded = excluded
	if len(active) == 0 {
		return result, nil
	}

	if !IsFedNo(token) {
		// A single exact full-name match wins outright, even with other
		// loosely matching records around. Zero or several exact matches
		// fall through to disambiguation over the whole active set.
		if exact := exactMatches(active, token); len(exact) == 1 {
			result.Player = &exact[0]
			return result, nil
		}
	}

	if len(active) == 1 {
		result.Player = &active[0]
		return result, nil
	}

	result.Candidates = active
	return result, nil
}

func (r *Resolver) lookup(token string) ([]player.Record, error) {
	if r.Cache != nil {
		if records, ok := r.Cache.Get(token); ok {
			return records, nil
		}
	}

	var records []player.Record
	var err error
	if IsFedNo(token) {
		records, err = r.Directory.SearchByFedNo(token)
	} else {
		records, err = r.Directory.SearchByName(token)
	}
	if err != nil {
		return nil, err
	}

	if r.Cache != nil && len(records) > 0 {
		r.Cache.Set(token, records)
	}
	return records, nil
}

func exactMatches(records []player.Record, name string) []player.Record {
	var exact []player.Record
	for _, rec := range records {
		if strings.EqualFold(strings.TrimSpace(rec.Name), name) {
			exact = append(exact, rec)
		}
	}
	return exact
}

// Select picks one candidate from a disambiguation list. It accepts a
// literal federation number or a 1-based list position and rejects anything
// else, leaving the caller to reprompt.
func Select(candidates []player.Record, input string) (*player.Record, bool) {
	input = strings.TrimSpace(input)

	for i := range candidates {
		if candidates[i].FedNo == input {
			return &candidates[i], true
		}
	}

	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(candidates) {
		return &candidates[n-1], true
	}
	return nil, false
}
