package recipe

// CatalogLimit is the maximum number of catalog recipes returned by ScoreCatalog.
const CatalogLimit = 8

// staples are assumed to be in every kitchen.
var staples = []string{"salt", "pepper", "olive oil", "oil", "water", "garlic", "onion"}

var catalog = []Definition{
	{
		Title:        "Classic Omelette",
		Required:     []string{"eggs"},
		Optional:     []string{"cheese", "onion", "spinach", "tomato"},
		Instructions: "Beat eggs, season, cook in pan with fillings until set.",
	},
	{
		Title:        "Chicken Stir-Fry",
		Required:     []string{"chicken"},
		Optional:     []string{"broccoli", "carrot", "bell pepper", "soy sauce", "garlic", "onion"},
		Instructions: "Stir-fry chicken, add veggies and sauce, cook until crisp-tender.",
	},
	{
		Title:        "Tomato Basil Pasta",
		Required:     []string{"pasta", "tomato"},
		Optional:     []string{"basil", "parmesan", "garlic"},
		Instructions: "Boil pasta, sauté tomatoes and garlic, toss with basil and cheese.",
	},
	{
		Title:        "Veggie Fried Rice",
		Required:     []string{"rice"},
		Optional:     []string{"egg", "peas", "carrot", "onion", "soy sauce"},
		Instructions: "Fry veggies, add rice and sauce, push aside, scramble egg, combine.",
	},
	{
		Title:        "Caprese Salad",
		Required:     []string{"tomato", "mozzarella"},
		Optional:     []string{"basil", "balsamic"},
		Instructions: "Layer tomato and mozzarella, top with basil, oil, and balsamic.",
	},
	{
		Title:        "Tuna Salad",
		Required:     []string{"tuna"},
		Optional:     []string{"mayonnaise", "celery", "onion", "pickle"},
		Instructions: "Mix tuna with mayo and chopped veg; season to taste.",
	},
	{
		Title:        "Avocado Toast",
		Required:     []string{"bread", "avocado"},
		Optional:     []string{"egg", "tomato", "feta"},
		Instructions: "Toast bread, mash avocado, season, top with extras.",
	},
	{
		Title:        "Greek Yogurt Parfait",
		Required:     []string{"yogurt"},
		Optional:     []string{"berries", "granola", "honey"},
		Instructions: "Layer yogurt with fruit and granola; drizzle honey.",
	},
	{
		Title:        "Garlic Butter Shrimp",
		Required:     []string{"shrimp"},
		Optional:     []string{"butter", "lemon", "parsley"},
		Instructions: "Sauté shrimp in butter and garlic; finish with lemon.",
	},
	{
		Title:        "Simple Salad",
		Required:     []string{"lettuce"},
		Optional:     []string{"cucumber", "tomato", "cheese"},
		Instructions: "Chop and toss greens with veggies and dressing.",
	},
}

// Catalog returns a copy of the built-in recipe catalog in its fixed order.
func Catalog() []Definition {
	defs := make([]Definition, len(catalog))
	for i, d := range catalog {
		defs[i] = d.clone()
	}
	return defs
}

// Staples returns the ingredients every catalog score assumes are on hand.
func Staples() []string {
	return append([]string(nil), staples...)
}

func (d Definition) clone() Definition {
	d.Required = append([]string(nil), d.Required...)
	d.Optional = append([]string(nil), d.Optional...)
	return d
}
