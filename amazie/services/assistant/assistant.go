// Package assistant mediates the shopping conversation with Gemini:
// it owns the chat session, dispatches the model's tool calls against
// the local catalog and recipe book, and shapes each turn's result for
// the widget.
package assistant

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/iamham/amazie/amazie/catalog"
	"github.com/iamham/amazie/amazie/config"
	"github.com/iamham/amazie/amazie/recipes"
	"github.com/iamham/amazie/amazie/utils/jsonutils"
	"github.com/iamham/amazie/amazie/utils/logging"
)

const (
	defaultModel = "gemini-2.5-flash"

	// Prompt synthesized for image-only turns so the model always
	// receives something actionable.
	imageOnlyPrompt = "Find products in the database that look like this image."

	// Fallback when the tool round-trip yields no text.
	fallbackReplyText = "Here are some products I found."

	// Every masked runtime failure turns into this reply.
	apologyText = "Sorry, I encountered an error processing your request. Please check your API key or connection."

	// Full product records are not echoed back to the model; at most
	// this many compact entries go into the tool response.
	maxToolResults = 3
)

// TurnResult is what one full user turn produces: the assistant's reply
// and the products the search tool surfaced, if any.
type TurnResult struct {
	Text     string
	Products []catalog.Product
}

// chatSession is the slice of *genai.Chat the orchestrator needs. Turns
// are tested against a fake implementation.
type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Session is one conversation's server-held handle. It is created once
// per widget instance and threaded into every SendTurn call; the model
// keeps the conversational memory between turns.
type Session struct {
	chat chatSession
}

type Assistant struct {
	client  *genai.Client
	model   string
	persona *Persona
	catalog *catalog.Catalog
	recipes *recipes.Book
}

// New builds the assistant. A missing credential or a rejected client
// construction yields ErrNotConfigured; the caller decides how to
// surface that to the shopper.
func New(ctx context.Context, cfg config.Config, cat *catalog.Catalog, book *recipes.Book) (*Assistant, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	model := cfg.GeminiModel
	if model == "" {
		model = defaultModel
	}
	return &Assistant{
		client:  client,
		model:   model,
		persona: LoadPersona(cfg.PersonaPath),
		catalog: cat,
		recipes: book,
	}, nil
}

// StartSession opens a fresh conversation bound to the persona's system
// instruction and the declared toolset.
func (a *Assistant) StartSession(ctx context.Context) (*Session, error) {
	chatConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: a.persona.SystemInstruction()}},
		},
		Tools: toolset(),
	}
	chat, err := a.client.Chats.Create(ctx, a.model, chatConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	return &Session{chat: chat}, nil
}

// turnState drives the per-turn exchange. A turn either finishes on the
// first reply or detours through one tool round-trip.
type turnState int

const (
	awaitingFirstReply turnState = iota
	awaitingToolResults
	awaitingFinalReply
	turnDone
)

// SendTurn runs one full user turn: send the message, execute any tool
// calls the model requests, send the results back, and return the final
// reply with the matched products.
//
// Only sequencing mistakes return an error (ErrSessionNotInitialized,
// ErrEmptyMessage). Every runtime failure on the two network round-trips
// is logged and masked as a fixed apology reply; it never propagates.
func (a *Assistant) SendTurn(ctx context.Context, s *Session, text string, imageData []byte) (*TurnResult, error) {
	if s == nil || s.chat == nil {
		return nil, ErrSessionNotInitialized
	}
	if text == "" && len(imageData) == 0 {
		return nil, ErrEmptyMessage
	}
	defer logging.LogDuration(ctx, "assistant_send_turn")()

	parts := buildParts(text, imageData)

	resp, err := s.chat.SendMessage(ctx, parts...)
	if err != nil {
		logging.ErrorLogger.Error("chat round-trip failed", zap.Error(err))
		return apologyResult(), nil
	}

	var (
		state    = awaitingFirstReply
		result   *TurnResult
		products []catalog.Product
	)
	for state != turnDone {
		switch state {
		case awaitingFirstReply:
			if len(functionCalls(resp)) == 0 {
				result = &TurnResult{Text: responseText(resp)}
				state = turnDone
			} else {
				state = awaitingToolResults
			}

		case awaitingToolResults:
			replies, found := a.dispatchTools(functionCalls(resp))
			products = found
			resp, err = s.chat.SendMessage(ctx, replies...)
			if err != nil {
				logging.ErrorLogger.Error("tool result round-trip failed", zap.Error(err))
				return apologyResult(), nil
			}
			state = awaitingFinalReply

		case awaitingFinalReply:
			finalText := responseText(resp)
			if finalText == "" {
				finalText = fallbackReplyText
			}
			result = &TurnResult{Text: finalText, Products: products}
			state = turnDone
		}
	}
	return result, nil
}

func buildParts(text string, imageData []byte) []genai.Part {
	var parts []genai.Part
	if len(imageData) > 0 {
		parts = append(parts, genai.Part{InlineData: &genai.Blob{
			MIMEType: http.DetectContentType(imageData),
			Data:     imageData,
		}})
	}
	if text != "" {
		parts = append(parts, genai.Part{Text: text})
	} else {
		parts = append(parts, genai.Part{Text: imageOnlyPrompt})
	}
	return parts
}

// dispatchTools executes every requested tool call locally and collects
// the function responses for the single follow-up send. When the model
// issues several search calls in one turn, the last call's results
// become the turn's products, matching the widget's behavior.
func (a *Assistant) dispatchTools(calls []*genai.FunctionCall) ([]genai.Part, []catalog.Product) {
	var (
		replies  []genai.Part
		products []catalog.Product
	)
	for _, call := range calls {
		var payload map[string]any
		switch call.Name {
		case searchProductsTool.Name:
			var found []catalog.Product
			found, payload = a.runProductSearch(call.Args)
			if len(found) > 0 {
				products = found
			}
		case getRecipeTool.Name:
			payload = a.runRecipeLookup(call.Args)
		default:
			logging.AppLogger.Warn("model requested unknown tool", zap.String("tool", call.Name))
			payload = map[string]any{"error": "unknown tool"}
		}
		replies = append(replies, genai.Part{FunctionResponse: &genai.FunctionResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: payload,
		}})
	}
	return replies, products
}

// runProductSearch parses the call's arguments, searches the catalog and
// shapes the compact payload echoed back to the model. Malformed
// arguments count as zero results; the turn continues.
func (a *Assistant) runProductSearch(args map[string]any) ([]catalog.Product, map[string]any) {
	var params catalog.SearchParams
	if err := jsonutils.DecodeArgs(args, &params); err != nil {
		logging.ErrorLogger.Error("malformed searchProducts arguments",
			zap.Any("args", args), zap.Error(err))
		return nil, map[string]any{"results": []any{}}
	}

	results := a.catalog.Search(params)
	if len(results) > maxToolResults {
		results = results[:maxToolResults]
	}

	compact := make([]map[string]any, 0, len(results))
	for _, p := range results {
		compact = append(compact, map[string]any{
			"name":        p.Name,
			"sku":         p.SKU,
			"description": p.Description,
		})
	}
	return results, map[string]any{"results": compact}
}

type recipeArgs struct {
	DishName string `json:"dishName"`
}

func (a *Assistant) runRecipeLookup(args map[string]any) map[string]any {
	var params recipeArgs
	if err := jsonutils.DecodeArgs(args, &params); err != nil {
		logging.ErrorLogger.Error("malformed getRecipe arguments",
			zap.Any("args", args), zap.Error(err))
		return map[string]any{"found": false}
	}
	if a.recipes == nil {
		return map[string]any{"found": false}
	}
	recipe, ok := a.recipes.Lookup(params.DishName)
	if !ok {
		return map[string]any{"found": false, "dish": params.DishName}
	}
	return map[string]any{
		"found":       true,
		"dish":        recipe.Dish,
		"steps":       recipe.Steps,
		"ingredients": recipe.Ingredients,
	}
}

func apologyResult() *TurnResult {
	return &TurnResult{Text: apologyText}
}

func functionCalls(resp *genai.GenerateContentResponse) []*genai.FunctionCall {
	var calls []*genai.FunctionCall
	for _, part := range responseParts(resp) {
		if part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}

func responseText(resp *genai.GenerateContentResponse) string {
	text := ""
	for _, part := range responseParts(resp) {
		text += part.Text
	}
	return text
}

func responseParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return nil
	}
	return candidate.Content.Parts
}
