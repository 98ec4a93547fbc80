package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jurema-br/nino/config"
)

// HuggingFaceEngine calls the Hugging Face text-generation inference API for
// models hosted on the hub, Jurema-7B being the default.
type HuggingFaceEngine struct {
	token       string
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

func NewHuggingFaceEngine(cfg config.LLMConfig) *HuggingFaceEngine {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/models"
	}
	return &HuggingFaceEngine{
		token:       cfg.APIKey,
		baseURL:     baseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

func (e *HuggingFaceEngine) Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	type parameters struct {
		MaxNewTokens   int     `json:"max_new_tokens"`
		Temperature    float64 `json:"temperature,omitempty"`
		ReturnFullText bool    `json:"return_full_text"`
		DoSample       bool    `json:"do_sample"`
	}
	body, err := json.Marshal(map[string]interface{}{
		"inputs": prompt,
		"parameters": parameters{
			MaxNewTokens:   maxNewTokens,
			Temperature:    e.temperature,
			ReturnFullText: false,
			DoSample:       true,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	endpoint := e.baseURL + "/" + url.PathEscape(e.model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference API status %d", resp.StatusCode)
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty generation result")
	}
	return strings.TrimSpace(out[0].GeneratedText), nil
}
