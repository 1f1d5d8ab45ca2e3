package assistant

import (
	"fmt"
	"strings"

	"github.com/magiconair/properties"
	"go.uber.org/zap"

	"github.com/iamham/amazie/amazie/utils/logging"
)

// Persona is the assistant's identity and behavioral rules, loaded from a
// .properties file so the store can retune the voice without a rebuild.
type Persona struct {
	Name           string
	StoreName      string
	Languages      []string
	Currency       string
	Tone           string
	ExtraBehaviors []string
}

func DefaultPersona() *Persona {
	return &Persona{
		Name:      "Amazie",
		StoreName: "an e-commerce store",
		Languages: []string{"Thai", "English"},
		Currency:  "THB",
		Tone:      "polite, playful, helpful, and concise",
	}
}

func LoadPersona(path string) *Persona {
	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		if logging.AppLogger != nil {
			logging.AppLogger.Warn("persona file not loaded, using defaults",
				zap.String("path", path), zap.Error(err))
		}
		return DefaultPersona()
	}

	parseSlice := func(val string) []string {
		if val == "" {
			return nil
		}
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}

	def := DefaultPersona()
	p := &Persona{
		Name:           props.GetString("assistant_name", def.Name),
		StoreName:      props.GetString("store_name", def.StoreName),
		Languages:      parseSlice(props.GetString("languages", strings.Join(def.Languages, ","))),
		Currency:       props.GetString("currency", def.Currency),
		Tone:           props.GetString("tone", def.Tone),
		ExtraBehaviors: parseSlice(props.GetString("extra_behaviors", "")),
	}
	return p
}

// SystemInstruction renders the persona into the session's fixed system
// prompt: identity, tool capabilities, and the behavioral rules the
// shopping widget relies on.
func (p *Persona) SystemInstruction() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %q, an intelligent shopping assistant for %s.\n\n", p.Name, p.StoreName)
	b.WriteString("Capabilities:\n")
	b.WriteString("1. SEARCH: You can search the product database using the 'searchProducts' tool. If searching for multiple products, call one product at a time.\n")
	b.WriteString("2. VISION: You can analyze images uploaded by the user to find similar products.\n")
	b.WriteString("3. RECIPES: You can suggest recipes using 'getRecipe'. If a user asks about food or recipes, provide the cooking steps AND recommend ingredients available in our store.\n")
	fmt.Fprintf(&b, "4. BILINGUAL: You MUST reply in the language the user speaks (%s).\n", strings.Join(p.Languages, " or "))
	b.WriteString("\nBehavior:\n")
	b.WriteString("- When a user uploads an image without text, analyze the image visually (color, style, object type) and call 'searchProducts' with a description.\n")
	b.WriteString("- If a user asks for a recipe, call 'getRecipe'. If the specific recipe isn't in the tool response, use your general knowledge to provide a recipe, but still try to search for relevant 'Food' category products using 'searchProducts'.\n")
	fmt.Fprintf(&b, "- Always present prices in %s.\n", p.Currency)
	fmt.Fprintf(&b, "- Be %s.\n", p.Tone)
	for _, extra := range p.ExtraBehaviors {
		fmt.Fprintf(&b, "- %s\n", extra)
	}
	return b.String()
}
