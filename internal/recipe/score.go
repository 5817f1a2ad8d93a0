package recipe

import (
	"sort"

	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/ingredient"
)

// ScoreCatalog ranks catalog recipes against the pantry. Staples are always
// counted as available. A recipe missing any required ingredient is left out;
// the rest score 10 plus one per optional ingredient on hand. Ties keep catalog
// order and at most CatalogLimit recipes are returned.
func ScoreCatalog(pantry []string, defs []Definition) []Ranked {
	available := pantrySet(pantry)
	for _, s := range staples {
		available[s] = struct{}{}
	}

	ranked := make([]Ranked, 0, len(defs))
	for _, d := range defs {
		if !hasAll(available, d.Required) {
			continue
		}
		ranked = append(ranked, Ranked{
			Title:        d.Title,
			Description:  d.Description,
			Instructions: d.Instructions,
			Required:     append([]string{}, d.Required...),
			Optional:     append([]string{}, d.Optional...),
			Score:        10 + countPresent(available, d.Optional),
		})
	}

	sortByScore(ranked)
	if len(ranked) > CatalogLimit {
		ranked = ranked[:CatalogLimit]
	}
	return ranked
}

// ScoreSuggested ranks stored suggestions by how many of their ingredients are
// in the pantry. Staples are not assumed, nothing is filtered out, ties keep
// source order and the list is not truncated.
func ScoreSuggested(pantry []string, recipes []Suggested) []Ranked {
	available := pantrySet(pantry)

	ranked := make([]Ranked, 0, len(recipes))
	for _, r := range recipes {
		ings := ingredient.NormalizeAll(r.Ingredients)
		ranked = append(ranked, Ranked{
			Title:        r.Title,
			Description:  r.Description,
			Instructions: ingredient.FormatInstructions(r.Steps),
			Required:     []string{},
			Optional:     ings,
			Score:        countPresent(available, ings),
			Minutes:      r.Minutes,
		})
	}

	sortByScore(ranked)
	return ranked
}

func pantrySet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = ingredient.Normalize(n); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func hasAll(set map[string]struct{}, names []string) bool {
	for _, n := range names {
		if _, ok := set[ingredient.Normalize(n)]; !ok {
			return false
		}
	}
	return true
}

func countPresent(set map[string]struct{}, names []string) int {
	n := 0
	for _, name := range names {
		if _, ok := set[ingredient.Normalize(name)]; ok {
			n++
		}
	}
	return n
}

func sortByScore(ranked []Ranked) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
}
