package trivia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vovakirdan/cashrun/internal/config"
)

const prompt = `Generate a "High Stakes Trivia Question" for a game where players earn real money.
The question should be about General Knowledge, Tech, or Pop Culture.
Difficulty: Medium.`

// GeminiSource generates questions with the Gemini generateContent API.
type GeminiSource struct {
	endpoint  string
	model     string
	apiKey    string
	maxReward float64
	http      *http.Client
}

// NewGeminiSource creates a source from the trivia config.
func NewGeminiSource(cfg config.TriviaConfig) *GeminiSource {
	return &GeminiSource{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		maxReward: float64(cfg.MaxReward),
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMIMEType string         `json:"responseMimeType"`
		ResponseSchema   map[string]any `json:"responseSchema"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

var questionSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"question":      map[string]any{"type": "STRING"},
		"options":       map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
		"correctAnswer": map[string]any{"type": "STRING"},
		"reward":        map[string]any{"type": "NUMBER"},
	},
	"required": []string{"question", "options", "correctAnswer", "reward"},
}

// Generate asks the model for one question.
func (g *GeminiSource) Generate(ctx context.Context) (Question, error) {
	var q Question
	if g.apiKey == "" {
		return q, fmt.Errorf("%w: %s is not set", ErrGeneration, config.EnvGeminiKey)
	}

	var body geminiRequest
	body.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
	body.GenerationConfig.ResponseMIMEType = "application/json"
	body.GenerationConfig.ResponseSchema = questionSchema
	data, err := json.Marshal(body)
	if err != nil {
		return q, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.endpoint, url.PathEscape(g.model), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return q, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return q, fmt.Errorf("%w: %v", ErrGeneration, redact(err.Error(), g.apiKey))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return q, fmt.Errorf("%w: %s: %s", ErrGeneration, resp.Status, strings.TrimSpace(string(msg)))
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return q, fmt.Errorf("%w: decode response: %v", ErrGeneration, err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return q, fmt.Errorf("%w: empty response", ErrGeneration)
	}
	if err := json.Unmarshal([]byte(out.Candidates[0].Content.Parts[0].Text), &q); err != nil {
		return q, fmt.Errorf("%w: decode question: %v", ErrGeneration, err)
	}
	if err := q.Validate(); err != nil {
		return q, err
	}
	if g.maxReward > 0 && q.Reward > g.maxReward {
		q.Reward = g.maxReward
	}
	return q, nil
}

// redact hides the API key that net/http may echo in URL errors.
func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "REDACTED")
}
