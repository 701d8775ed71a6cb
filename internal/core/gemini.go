package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Generator is the model invocation surface the services depend on. Tests
// substitute a fake; production wires GeminiService.
type Generator interface {
	// GenerateText runs a free-form prompt and returns the raw text response.
	GenerateText(ctx context.Context, model string, parts []Part) (string, error)

	// GenerateJSON runs a prompt constrained to the given response schema and
	// returns the raw JSON payload for the caller to decode.
	GenerateJSON(ctx context.Context, model string, parts []Part, schema *genai.Schema) (string, error)
}

// GeminiService calls the Gemini API. Every invocation is bounded by a
// single configurable timeout; a request that exceeds it surfaces as
// ErrGenerationTimeout and nothing downstream of it runs.
type GeminiService struct {
	client  *genai.Client
	timeout time.Duration
	log     *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey string, timeout time.Duration, log *zap.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiService{client: client, timeout: timeout, log: log}, nil
}

func (g *GeminiService) Close() error {
	return g.client.Close()
}

func (g *GeminiService) GenerateText(ctx context.Context, model string, parts []Part) (string, error) {
	return g.generate(ctx, model, parts, nil)
}

func (g *GeminiService) GenerateJSON(ctx context.Context, model string, parts []Part, schema *genai.Schema) (string, error) {
	return g.generate(ctx, model, parts, schema)
}

func (g *GeminiService) generate(ctx context.Context, model string, parts []Part, schema *genai.Schema) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	m := g.client.GenerativeModel(model)
	if schema != nil {
		m.ResponseMIMEType = "application/json"
		m.ResponseSchema = schema
	}

	genaiParts, err := toGenaiParts(parts)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := m.GenerateContent(ctx, genaiParts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: model %s after %s", ErrGenerationTimeout, model, g.timeout)
		}
		return "", fmt.Errorf("generation failed for model %s: %w", model, err)
	}
	g.log.Debug("generation complete",
		zap.String("model", model),
		zap.Int("parts", len(parts)),
		zap.Duration("elapsed", time.Since(start)))

	return responseText(resp)
}

func toGenaiParts(parts []Part) ([]genai.Part, error) {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Data == "" {
			out = append(out, genai.Text(p.Text))
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid inline data: %v", ErrValidation, err)
		}
		out = append(out, genai.Blob{MIMEType: p.MIMEType, Data: raw})
	}
	return out, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", ErrGenerationParse)
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: no text in response", ErrGenerationParse)
	}
	return b.String(), nil
}

// QuizSchema constrains output to an array of multiple-choice items. The
// requested size is advisory at the schema level; DecodeQuizItems enforces
// the upper bound after the fact.
func QuizSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {Type: genai.TypeString},
				"options": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"correct_answer": {Type: genai.TypeString},
				"explanation":    {Type: genai.TypeString},
			},
			Required: []string{"question", "options", "correct_answer", "explanation"},
		},
	}
}

func FlashcardSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question":    {Type: genai.TypeString},
				"answer":      {Type: genai.TypeString},
				"explanation": {Type: genai.TypeString},
			},
			Required: []string{"question", "answer"},
		},
	}
}

// StringListSchema constrains output to a flat list of strings, used for
// suggested questions, random facts and random questions.
func StringListSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

// MaterialSchema wraps long-form markdown output with a success flag so the
// model can signal that the requested material could not be produced.
func MaterialSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text":       {Type: genai.TypeString},
			"successful": {Type: genai.TypeBoolean},
		},
		Required: []string{"text", "successful"},
	}
}

// QuizItem is one decoded question from a schema-constrained quiz response.
type QuizItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// DecodeQuizItems parses the model's JSON payload. Output longer than size is
// clamped; shorter output is accepted as-is since the model saw the whole
// source and a padded quiz would be worse than a short one.
func DecodeQuizItems(raw string, size int) ([]QuizItem, error) {
	var items []QuizItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: decoding quiz items: %v", ErrGenerationParse, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: quiz response contained no questions", ErrGenerationParse)
	}
	if size > 0 && len(items) > size {
		items = items[:size]
	}
	return items, nil
}

type FlashcardItem struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// DecodeFlashcards parses the model's JSON payload, clamping oversized
// output to size the same way DecodeQuizItems does.
func DecodeFlashcards(raw string, size int) ([]FlashcardItem, error) {
	var items []FlashcardItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: decoding flashcards: %v", ErrGenerationParse, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: flashcard response contained no cards", ErrGenerationParse)
	}
	if size > 0 && len(items) > size {
		items = items[:size]
	}
	return items, nil
}

func DecodeStringList(raw string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: decoding string list: %v", ErrGenerationParse, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: response contained no entries", ErrGenerationParse)
	}
	return items, nil
}

// MaterialResult is the decoded long-form material payload.
type MaterialResult struct {
	Text       string `json:"text"`
	Successful bool   `json:"successful"`
}

func DecodeMaterial(raw string) (*MaterialResult, error) {
	var m MaterialResult
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%w: decoding material: %v", ErrGenerationParse, err)
	}
	return &m, nil
}
