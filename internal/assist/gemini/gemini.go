// Package gemini implements the assist ports against the Gemini API.
//
// Responses are requested as JSON with an explicit response schema, then
// decoded into the assist types. Any transport, service or decoding
// failure is returned as an error; callers collapse it to "no result".
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"splitsmart/internal/assist"
	"splitsmart/internal/core"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Client calls the Gemini generative API.
type Client struct {
	client *genai.Client
	model  string
}

// New builds a client with the given API key and model name.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// parsedExpense mirrors the JSON shape the model is asked to produce.
type parsedExpense struct {
	Description  string   `json:"description"`
	Amount       float64  `json:"amount"`
	Category     string   `json:"category"`
	Participants []string `json:"participants"`
}

// ParseExpense implements assist.Parser.
func (c *Client) ParseExpense(ctx context.Context, text string) (*assist.Draft, error) {
	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"description": {Type: genai.TypeString},
			"amount":      {Type: genai.TypeNumber},
			"category": {
				Type:        genai.TypeString,
				Description: "Must be one of: food, rent, travel, entertainment, other",
			},
			"participants": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Names of friends involved",
			},
		},
		Required: []string{"description", "amount", "category"},
	}

	prompt := fmt.Sprintf("Parse this expense description and extract details: %q", text)
	raw, err := c.generate(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	var parsed parsedExpense
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("decode parse response: %w", err)
	}

	category := core.CategoryFood
	if strings.TrimSpace(parsed.Category) != "" {
		if c := core.Category(strings.ToLower(strings.TrimSpace(parsed.Category))); c.IsValid() {
			category = c
		}
	}

	draft := &assist.Draft{
		Description:  parsed.Description,
		Amount:       core.Cents(int64(math.Round(parsed.Amount * 100))),
		Category:     category,
		Participants: parsed.Participants,
	}
	slog.DebugContext(ctx, "Parsed expense from text",
		"description", draft.Description,
		"amount_cents", draft.Amount.Cents,
		"category", draft.Category,
		"participant_names", len(draft.Participants))
	return draft, nil
}

// insightsResponse mirrors the JSON shape the model is asked to produce.
type insightsResponse struct {
	Insights []core.Insight `json:"insights"`
}

// Insights implements assist.Insighter.
func (c *Client) Insights(ctx context.Context, expenses []core.Expense, friends []core.Friend) ([]core.Insight, error) {
	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"insights": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":    {Type: genai.TypeString},
						"message":  {Type: genai.TypeString},
						"severity": {Type: genai.TypeString, Description: "info, warning, or success"},
					},
				},
			},
		},
	}

	summary, err := json.Marshal(struct {
		Expenses []core.Expense `json:"expenses"`
		Friends  []core.Friend  `json:"friends"`
	}{expenses, friends})
	if err != nil {
		return nil, fmt.Errorf("encode data summary: %w", err)
	}

	prompt := fmt.Sprintf("Analyze these expenses and give 3 short, helpful financial tips or insights for the user. Be friendly and encouraging.\nData: %s", summary)
	raw, err := c.generate(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	var resp insightsResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("decode insights response: %w", err)
	}
	for i := range resp.Insights {
		resp.Insights[i].Severity = normalizeSeverity(resp.Insights[i].Severity)
	}
	return resp.Insights, nil
}

// generate runs one prompt and returns the first text part of the reply.
func (c *Client) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type %T", resp.Candidates[0].Content.Parts[0])
	}
	return strings.TrimSpace(string(text)), nil
}

func normalizeSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warning":
		return "warning"
	case "success":
		return "success"
	default:
		return "info"
	}
}
