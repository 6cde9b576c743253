package services

import (
	"strings"
)

// CategoryOther is assigned when no keyword matches.
const CategoryOther = "other"

// Categorizer assigns a spending category to a normalized item name by
// keyword matching. Confidence is the ratio of matched words to total words;
// the category with the highest confidence wins.
type Categorizer struct {
	keywords map[string][]string
}

// CategoryMatch is the result of categorizing one item name.
type CategoryMatch struct {
	Category   string
	Confidence float64
}

// NewCategorizer creates a categorizer with the default keyword table.
func NewCategorizer() *Categorizer {
	return NewCategorizerWithKeywords(defaultCategories)
}

// NewCategorizerWithKeywords creates a categorizer with a custom
// category-to-keywords table.
func NewCategorizerWithKeywords(keywords map[string][]string) *Categorizer {
	return &Categorizer{keywords: keywords}
}

// Categorize returns the best category match for an item name.
func (c *Categorizer) Categorize(name string) CategoryMatch {
	words := strings.Fields(strings.ToLower(name))
	if len(words) == 0 {
		return CategoryMatch{Category: CategoryOther}
	}

	best := CategoryMatch{Category: CategoryOther}
	for category, keywords := range c.keywords {
		matched := 0
		for _, word := range words {
			for _, keyword := range keywords {
				if word == keyword {
					matched++
					break
				}
			}
		}
		confidence := float64(matched) / float64(len(words))
		if confidence > best.Confidence {
			best = CategoryMatch{Category: category, Confidence: confidence}
		}
	}

	return best
}

var defaultCategories = map[string][]string{
	"produce": {
		"apple", "apples", "banana", "bananas", "orange", "oranges",
		"grapes", "berries", "strawberry", "blueberry", "lettuce",
		"spinach", "kale", "tomato", "tomatoes", "potato", "potatoes",
		"onion", "onions", "carrot", "carrots", "celery", "pepper",
		"peppers", "broccoli", "avocado", "lemon", "lime", "cucumber",
		"mushroom", "mushrooms", "garlic", "fruit", "vegetable",
	},
	"dairy": {
		"milk", "cheese", "yogurt", "butter", "cream", "eggs", "egg",
		"cheddar", "mozzarella", "parmesan", "sour",
	},
	"meat": {
		"chicken", "beef", "pork", "turkey", "ham", "bacon", "sausage",
		"steak", "ground", "breast", "thigh", "fish", "salmon", "tuna",
		"shrimp",
	},
	"bakery": {
		"bread", "bagel", "bagels", "muffin", "muffins", "croissant",
		"roll", "rolls", "bun", "buns", "cake", "donut", "tortilla",
		"tortillas",
	},
	"pantry": {
		"rice", "pasta", "sauce", "cereal", "oats", "flour", "sugar",
		"salt", "oil", "vinegar", "beans", "soup", "canned", "peanut",
		"jelly", "honey", "spice", "seasoning",
	},
	"snacks": {
		"chips", "crackers", "cookies", "candy", "chocolate", "popcorn",
		"pretzels", "nuts", "granola", "bar", "bars",
	},
	"beverages": {
		"water", "soda", "juice", "coffee", "tea", "beer", "wine",
		"kombucha", "lemonade", "drink",
	},
	"frozen": {
		"frozen", "pizza", "icecream", "ice",
	},
	"household": {
		"paper", "towels", "toilet", "detergent", "soap", "cleaner",
		"sponge", "trash", "bags", "foil", "wrap",
	},
	"personal": {
		"shampoo", "conditioner", "toothpaste", "deodorant", "lotion",
		"razor", "vitamins",
	},
}
