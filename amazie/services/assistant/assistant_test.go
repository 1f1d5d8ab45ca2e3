package assistant

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/iamham/amazie/amazie/catalog"
	"github.com/iamham/amazie/amazie/config"
	"github.com/iamham/amazie/amazie/recipes"
	"github.com/iamham/amazie/amazie/utils/logging"
)

// fakeChat plays the remote service: it hands out scripted responses and
// records every batch of parts it was sent.
type fakeChat struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	sent      [][]genai.Part
}

func (f *fakeChat) SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.sent = append(f.sent, parts)
	i := len(f.sent) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return nil, errors.New("fakeChat: no scripted response")
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func toolCallResponse(calls ...*genai.FunctionCall) *genai.GenerateContentResponse {
	var parts []*genai.Part
	for _, call := range calls {
		parts = append(parts, &genai.Part{FunctionCall: call})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: parts},
		}},
	}
}

func newTestAssistant(t *testing.T) *Assistant {
	t.Helper()
	logging.InitLogger() // ensures the package loggers aren't nil
	return &Assistant{
		model:   defaultModel,
		persona: DefaultPersona(),
		catalog: catalog.New([]catalog.Product{
			{SKU: 1, Name: "Crimson Wrap Dress", Description: "Flowy red midi dress", Price: 1290, Currency: "THB", Category: "Clothing", Tags: []string{"dress", "red"}},
			{SKU: 2, Name: "Scarlet Evening Gown", Description: "Long red dress for formal events", Price: 3290, Currency: "THB", Category: "Clothing", Tags: []string{"dress", "red"}},
			{SKU: 3, Name: "Red Canvas Sneakers", Description: "Bright red low-top sneakers", Price: 990, Currency: "THB", Category: "Clothing", Tags: []string{"shoes", "red"}},
			{SKU: 4, Name: "Ruby Silk Scarf", Description: "Deep red silk scarf", Price: 690, Currency: "THB", Category: "Accessories", Tags: []string{"scarf", "red"}},
			{SKU: 5, Name: "Teak Reading Lamp", Description: "Handmade wooden table lamp", Price: 2190, Currency: "THB", Category: "Home", Tags: []string{"lamp"}},
		}),
		recipes: recipes.New([]recipes.Recipe{{
			Dish:        "Green Curry",
			Steps:       []string{"fry the paste"},
			Ingredients: []recipes.Ingredient{{Name: "Green Curry Paste", SKU: 1010}},
		}}),
	}
}

func sessionWith(fake *fakeChat) *Session {
	return &Session{chat: fake}
}

func TestSendTurnEmptyMessage(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{}
	_, err := a.SendTurn(context.Background(), sessionWith(fake), "", nil)
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if len(fake.sent) != 0 {
		t.Error("empty message must not reach the remote service")
	}
}

func TestSendTurnNilSession(t *testing.T) {
	a := newTestAssistant(t)
	if _, err := a.SendTurn(context.Background(), nil, "hello", nil); !errors.Is(err, ErrSessionNotInitialized) {
		t.Fatalf("expected ErrSessionNotInitialized, got %v", err)
	}
	if _, err := a.SendTurn(context.Background(), &Session{}, "hello", nil); !errors.Is(err, ErrSessionNotInitialized) {
		t.Fatalf("expected ErrSessionNotInitialized for empty session, got %v", err)
	}
}

func TestSendTurnPlainTextReply(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{responses: []*genai.GenerateContentResponse{textResponse("Hi! How can I help?")}}

	result, err := a.SendTurn(context.Background(), sessionWith(fake), "hello", nil)
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	if result.Text != "Hi! How can I help?" {
		t.Errorf("unexpected text %q", result.Text)
	}
	if result.Products != nil {
		t.Errorf("plain text turn must not attach products, got %v", result.Products)
	}
	if len(fake.sent) != 1 {
		t.Errorf("expected a single round-trip, got %d", len(fake.sent))
	}
}

func TestSendTurnSearchToolCall(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{responses: []*genai.GenerateContentResponse{
		toolCallResponse(&genai.FunctionCall{
			ID:   "call-1",
			Name: "searchProducts",
			Args: map[string]any{"query": "red dress"},
		}),
		textResponse("I found some lovely red dresses!"),
	}}

	result, err := a.SendTurn(context.Background(), sessionWith(fake), "show me red dresses", nil)
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	if result.Text != "I found some lovely red dresses!" {
		t.Errorf("expected the second round's text, got %q", result.Text)
	}
	if len(result.Products) == 0 || len(result.Products) > 3 {
		t.Fatalf("expected 1..3 products, got %d", len(result.Products))
	}
	for _, p := range result.Products {
		if _, ok := a.catalog.Get(p.SKU); !ok {
			t.Errorf("product %d not from the catalog", p.SKU)
		}
	}

	if len(fake.sent) != 2 {
		t.Fatalf("expected two round-trips, got %d", len(fake.sent))
	}
	followUp := fake.sent[1]
	if len(followUp) != 1 {
		t.Fatalf("expected one function response part, got %d", len(followUp))
	}
	fr := followUp[0].FunctionResponse
	if fr == nil {
		t.Fatal("follow-up part is not a function response")
	}
	if fr.ID != "call-1" || fr.Name != "searchProducts" {
		t.Errorf("function response misattributed: id=%q name=%q", fr.ID, fr.Name)
	}
	compact, ok := fr.Response["results"].([]map[string]any)
	if !ok {
		t.Fatalf("unexpected results payload %T", fr.Response["results"])
	}
	if len(compact) != len(result.Products) {
		t.Errorf("compact payload has %d entries, products %d", len(compact), len(result.Products))
	}
	for _, entry := range compact {
		if len(entry) != 3 {
			t.Errorf("compact entry should carry only name/sku/description: %v", entry)
		}
	}
}

func TestSendTurnToolCallEmptyFinalText(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{responses: []*genai.GenerateContentResponse{
		toolCallResponse(&genai.FunctionCall{Name: "searchProducts", Args: map[string]any{"query": "red dress"}}),
		textResponse(""),
	}}

	result, err := a.SendTurn(context.Background(), sessionWith(fake), "red dress", nil)
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	if result.Text != fallbackReplyText {
		t.Errorf("expected fallback text, got %q", result.Text)
	}
}

func TestSendTurnFirstRoundTripFailure(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{errs: []error{errors.New("connection reset")}}

	result, err := a.SendTurn(context.Background(), sessionWith(fake), "hello", nil)
	if err != nil {
		t.Fatalf("network failure must not propagate, got %v", err)
	}
	if result.Text != apologyText {
		t.Errorf("expected apology text, got %q", result.Text)
	}
	if result.Products != nil {
		t.Error("apology result must not carry products")
	}
}

func TestSendTurnToolRoundTripFailure(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{
		responses: []*genai.GenerateContentResponse{
			toolCallResponse(&genai.FunctionCall{Name: "searchProducts", Args: map[string]any{"query": "lamp"}}),
		},
		errs: []error{nil, errors.New("503 overloaded")},
	}

	result, err := a.SendTurn(context.Background(), sessionWith(fake), "lamp", nil)
	if err != nil {
		t.Fatalf("network failure must not propagate, got %v", err)
	}
	if result.Text != apologyText {
		t.Errorf("expected apology text, got %q", result.Text)
	}
}

func TestSendTurnMalformedToolArguments(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{responses: []*genai.GenerateContentResponse{
		toolCallResponse(&genai.FunctionCall{Name: "searchProducts", Args: map[string]any{"query": 42}}),
		textResponse("Sorry, nothing matched."),
	}}

	result, err := a.SendTurn(context.Background(), sessionWith(fake), "???", nil)
	if err != nil {
		t.Fatalf("malformed arguments must not fail the turn: %v", err)
	}
	if result.Text != "Sorry, nothing matched." {
		t.Errorf("unexpected text %q", result.Text)
	}
	if result.Products != nil {
		t.Errorf("malformed call must yield zero products, got %v", result.Products)
	}
}

func TestSendTurnImageOnlyAddsDefaultPrompt(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{responses: []*genai.GenerateContentResponse{textResponse("Nice picture!")}}

	// A tiny JPEG header is enough for content-type sniffing.
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	if _, err := a.SendTurn(context.Background(), sessionWith(fake), "", image); err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}

	parts := fake.sent[0]
	if len(parts) != 2 {
		t.Fatalf("expected image part plus synthesized prompt, got %d parts", len(parts))
	}
	if parts[0].InlineData == nil {
		t.Fatal("first part must be the image")
	}
	if parts[0].InlineData.MIMEType != "image/jpeg" {
		t.Errorf("sniffed mime type %q", parts[0].InlineData.MIMEType)
	}
	if parts[1].Text != imageOnlyPrompt {
		t.Errorf("expected synthesized prompt, got %q", parts[1].Text)
	}
}

func TestSendTurnImageWithTextKeepsPartOrder(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{responses: []*genai.GenerateContentResponse{textResponse("ok")}}

	image := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	if _, err := a.SendTurn(context.Background(), sessionWith(fake), "similar to this", image); err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	parts := fake.sent[0]
	if len(parts) != 2 || parts[0].InlineData == nil || parts[1].Text != "similar to this" {
		t.Errorf("expected [image, text] parts, got %v", parts)
	}
}

func TestSendTurnRecipeToolCall(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{responses: []*genai.GenerateContentResponse{
		toolCallResponse(&genai.FunctionCall{ID: "call-9", Name: "getRecipe", Args: map[string]any{"dishName": "green curry"}}),
		textResponse("Here's how to cook it."),
	}}

	result, err := a.SendTurn(context.Background(), sessionWith(fake), "how do I make green curry?", nil)
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	if result.Text != "Here's how to cook it." {
		t.Errorf("unexpected text %q", result.Text)
	}
	if result.Products != nil {
		t.Error("recipe-only turn must not attach products")
	}

	fr := fake.sent[1][0].FunctionResponse
	if fr == nil || fr.Name != "getRecipe" {
		t.Fatalf("expected getRecipe function response, got %+v", fr)
	}
	if found, _ := fr.Response["found"].(bool); !found {
		t.Errorf("expected the recipe to be found: %v", fr.Response)
	}
}

func TestSendTurnUnknownRecipe(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{responses: []*genai.GenerateContentResponse{
		toolCallResponse(&genai.FunctionCall{Name: "getRecipe", Args: map[string]any{"dishName": "lasagna"}}),
		textResponse("Let me improvise a recipe."),
	}}

	result, err := a.SendTurn(context.Background(), sessionWith(fake), "lasagna?", nil)
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	fr := fake.sent[1][0].FunctionResponse
	if found, _ := fr.Response["found"].(bool); found {
		t.Errorf("expected found=false: %v", fr.Response)
	}
	if result.Text != "Let me improvise a recipe." {
		t.Errorf("unexpected text %q", result.Text)
	}
}

func TestSendTurnMultipleSearchCallsLastWins(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{responses: []*genai.GenerateContentResponse{
		toolCallResponse(
			&genai.FunctionCall{ID: "call-1", Name: "searchProducts", Args: map[string]any{"query": "red dress"}},
			&genai.FunctionCall{ID: "call-2", Name: "searchProducts", Args: map[string]any{"query": "lamp"}},
		),
		textResponse("Here you go."),
	}}

	result, err := a.SendTurn(context.Background(), sessionWith(fake), "dresses and lamps", nil)
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	// Both calls are answered in one follow-up...
	if len(fake.sent[1]) != 2 {
		t.Fatalf("expected both function responses in one send, got %d", len(fake.sent[1]))
	}
	// ...but the widget only shows the last call's products.
	if len(result.Products) != 1 || result.Products[0].SKU != 5 {
		t.Errorf("expected only the lamp from the last call, got %v", result.Products)
	}
}

func TestSendTurnUnknownTool(t *testing.T) {
	a := newTestAssistant(t)
	fake := &fakeChat{responses: []*genai.GenerateContentResponse{
		toolCallResponse(&genai.FunctionCall{Name: "launchRocket", Args: map[string]any{}}),
		textResponse("Never mind."),
	}}

	result, err := a.SendTurn(context.Background(), sessionWith(fake), "do something", nil)
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	fr := fake.sent[1][0].FunctionResponse
	if fr.Response["error"] != "unknown tool" {
		t.Errorf("expected an unknown-tool response, got %v", fr.Response)
	}
	if result.Text != "Never mind." {
		t.Errorf("unexpected text %q", result.Text)
	}
}

func TestNewWithoutCredential(t *testing.T) {
	logging.InitLogger()
	_, err := New(context.Background(), config.Config{}, catalog.New(nil), recipes.New(nil))
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
