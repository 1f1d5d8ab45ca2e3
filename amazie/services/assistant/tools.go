package assistant

import "google.golang.org/genai"

// Tool declarations exposed to the model. Argument names line up with the
// JSON tags of catalog.SearchParams and recipeArgs.

var searchProductsTool = &genai.FunctionDeclaration{
	Name: "searchProducts",
	Description: "Search the product database for items based on keywords, visual descriptions, or categories. " +
		"Use this when the user asks for recommendations or uploads an image seeking similar products.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"query": {
				Type:        genai.TypeString,
				Description: `Keywords to search for (e.g., "red dress", "noise cancelling headphones", "wooden lamp").`,
			},
			"category": {
				Type:        genai.TypeString,
				Description: `The category of the product (e.g., "Clothing", "Electronics", "Home", "Food").`,
			},
			"maxPrice": {
				Type:        genai.TypeNumber,
				Description: "Upper price bound in the store currency. Omit when the user gave no budget.",
			},
		},
		Required: []string{},
	},
}

var getRecipeTool = &genai.FunctionDeclaration{
	Name: "getRecipe",
	Description: "Get a food recipe and a list of available ingredients from the store. " +
		`Use this when a user asks how to cook a dish (e.g., "How do I make Green Curry?").`,
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"dishName": {
				Type:        genai.TypeString,
				Description: `The name of the dish (e.g., "Green Curry", "Pad Thai").`,
			},
		},
		Required: []string{"dishName"},
	},
}

func toolset() []*genai.Tool {
	return []*genai.Tool{
		{FunctionDeclarations: []*genai.FunctionDeclaration{searchProductsTool, getRecipeTool}},
	}
}
