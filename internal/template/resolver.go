package template

import (
	"math/rand/v2"
	"strings"
)

// candidate derives one lookup string from the raw request.
// An empty result means "no candidate".
type candidate func(raw string) string

func identity(raw string) string { return raw }

func dashToUnderscore(raw string) string { return strings.ReplaceAll(raw, "-", "_") }

func underscoreToDash(raw string) string { return strings.ReplaceAll(raw, "_", "-") }

var separatorStripper = strings.NewReplacer("-", "", "_", "")

func condense(raw string) string { return separatorStripper.Replace(raw) }

func aliasOf(f candidate) candidate {
	return func(raw string) string { return Alias(f(raw)) }
}

func lowered(f candidate) candidate {
	return func(raw string) string { return strings.ToLower(f(raw)) }
}

// candidates is tested in order. Later entries such as condensed forms can
// collide with unrelated canonical ids, so the order is part of the contract.
var candidates = []candidate{
	identity,
	strings.ToLower,
	aliasOf(identity),
	aliasOf(strings.ToLower),
	dashToUnderscore,
	aliasOf(dashToUnderscore),
	underscoreToDash,
	aliasOf(underscoreToDash),
	condense,
	aliasOf(condense),

	// Mixed-case input with separators, e.g. "Success_Kid".
	lowered(dashToUnderscore),
	aliasOf(lowered(dashToUnderscore)),
	lowered(underscoreToDash),
	aliasOf(lowered(underscoreToDash)),
	lowered(condense),
	aliasOf(lowered(condense)),
}

// Resolver maps user template requests to canonical template ids.
type Resolver struct {
	intn func(n int) int
}

// NewResolver creates a Resolver that picks random templates with math/rand/v2.
func NewResolver() *Resolver {
	return &Resolver{intn: rand.IntN}
}

// NewResolverWithRand creates a Resolver with a custom random source.
// intn must return a value in [0, n).
func NewResolverWithRand(intn func(n int) int) *Resolver {
	return &Resolver{intn: intn}
}

// Resolve returns a member of catalog for request, or DefaultTemplate when
// nothing matches. It never fails.
func (r *Resolver) Resolve(request string, catalog Catalog) string {
	if request == RandomTemplate && catalog.Len() > 0 {
		return catalog.At(r.intn(catalog.Len()))
	}
	if request == "" {
		return DefaultTemplate
	}

	tried := make(map[string]struct{}, len(candidates))
	for _, derive := range candidates {
		c := derive(request)
		if c == "" {
			continue
		}
		if _, seen := tried[c]; seen {
			continue
		}
		tried[c] = struct{}{}

		if catalog.Contains(c) {
			return c
		}
	}
	return DefaultTemplate
}
