// Package recipe ranks recipes against the ingredients currently in the
// fridge. It knows two kinds of recipe: a fixed built-in catalog with hard
// ingredient prerequisites, and suggestions loaded from a SQL database that are
// ranked purely by overlap.
package recipe

// Definition is a built-in catalog recipe
type Definition struct {
	Title        string
	Required     []string // every one must be on hand
	Optional     []string // each one on hand adds a point
	Instructions string
	Description  string
}

// Suggested is a recipe row loaded from the suggestions table
type Suggested struct {
	SugID       int64
	RecipeID    int64
	Title       string
	Description string
	Ingredients []string
	Steps       []string
	Minutes     int
}

// Ranked is a scored recipe ready for presentation
type Ranked struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Instructions string   `json:"instructions"`
	Required     []string `json:"required"`
	Optional     []string `json:"optional"`
	Score        int      `json:"score"`
	Minutes      int      `json:"minutes,omitempty"`
}
