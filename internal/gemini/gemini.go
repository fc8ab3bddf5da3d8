package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/gkassa/agentlab/internal/agentlab"
)

const (
	ProviderName   = "gemini"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// ModelsAPIResponse represents the response from Gemini's models endpoint
type ModelsAPIResponse struct {
	Models []ModelData `json:"models"`
}

// ModelData represents a single model in the API response
type ModelData struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	Description                string   `json:"description"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// Request represents the request body for Gemini's generate content API
type Request struct {
	Contents          []Content          `json:"contents"`
	SystemInstruction *SystemInstruction `json:"system_instruction,omitempty"`
	GenerationConfig  *GenerationConfig  `json:"generationConfig,omitempty"`
}

// SystemInstruction represents system instruction for Gemini
type SystemInstruction struct {
	Parts []Part `json:"parts"`
}

// Content represents a content item in the Gemini request format
type Content struct {
	Role  string `json:"role,omitempty"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// Part represents a part of the content in the Gemini request format
type Part struct {
	Text string `json:"text"`
}

// GenerationConfig holds sampling parameters for a request
type GenerationConfig struct {
	Temperature *float64 `json:"temperature,omitempty"`
}

// Response represents the full response from Gemini API
type Response struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate represents a candidate response
type Candidate struct {
	Content ResponseContent `json:"content"`
}

// ResponseContent represents the content of a response
type ResponseContent struct {
	Parts []ResponsePart `json:"parts"`
}

// ResponsePart represents a part of the response content
type ResponsePart struct {
	Text string `json:"text"`
}

// EmbedRequest represents the request body for the batch embedding endpoint
type EmbedRequest struct {
	Requests []EmbedContentRequest `json:"requests"`
}

// EmbedContentRequest embeds a single text
type EmbedContentRequest struct {
	Model   string  `json:"model"`
	Content Content `json:"content"`
}

// EmbedResponse represents the response from the batch embedding endpoint
type EmbedResponse struct {
	Embeddings []Embedding `json:"embeddings"`
}

// Embedding is a single embedding vector
type Embedding struct {
	Values []float64 `json:"values"`
}

// Config defines the configuration interface for the Gemini provider
type Config interface {
	BaseURL(kind agentlab.ProviderKind) (string, error)
	Credential(kind agentlab.ProviderKind) (string, error)
}

// Provider implements the agentlab.Provider interface for Gemini
type Provider struct {
	config         Config
	model          string
	embeddingModel string
	debug          bool
}

// NewProvider creates a new Gemini provider instance for the given model
func NewProvider(config Config, model string) *Provider {
	return &Provider{
		config:         config,
		model:          model,
		embeddingModel: agentlab.DefaultEmbeddingModel,
		debug:          false,
	}
}

// SetDebug enables or disables debug mode
func (p *Provider) SetDebug(enabled bool) {
	p.debug = enabled
}

// SetEmbeddingModel overrides the embedding model used by Embed
func (p *Provider) SetEmbeddingModel(model string) {
	p.embeddingModel = model
}

// endpoint builds a full API URL with the key appended as a query parameter
func (p *Provider) endpoint(path string) (string, error) {
	token, err := p.config.Credential(agentlab.ProviderGemini)
	if err != nil {
		return "", err
	}

	baseURL, err := p.config.BaseURL(agentlab.ProviderGemini)
	if err != nil {
		return "", err
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return fmt.Sprintf("%s%s?key=%s", baseURL, path, token), nil
}

// ListModels returns the list of generation models from the API
func (p *Provider) ListModels() ([]agentlab.ModelInfo, error) {
	url, err := p.endpoint("/models")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		if p.debug {
			return nil, fmt.Errorf("failed to connect to API: %v", err)
		}
		return nil, fmt.Errorf("failed to connect to API. Use --verbose for details")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &agentlab.ProviderError{Provider: ProviderName, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result ModelsAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		if p.debug {
			return nil, fmt.Errorf("failed to parse API response: %v\nRaw response: %s", err, string(body))
		}
		return nil, fmt.Errorf("failed to parse API response. Use --verbose for details")
	}

	models := make([]agentlab.ModelInfo, 0)
	for _, model := range result.Models {
		// The API names models as "models/<id>".
		id := strings.TrimPrefix(model.Name, "models/")

		if !contains(model.SupportedGenerationMethods, "generateContent") {
			continue
		}

		description := model.Description
		if description == "" {
			description = model.DisplayName
		}

		models = append(models, agentlab.ModelInfo{
			ID:          id,
			Description: description,
			IsDefault:   id == agentlab.DefaultModel,
		})
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})

	return models, nil
}

// contains checks if a string slice contains a specific string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// Chat sends a single message to Gemini's API and returns the response
func (p *Provider) Chat(message string) (string, error) {
	return p.ChatWithHistory("", nil, message)
}

// ChatWithHistory sends a conversation history with a new message to Gemini's API
func (p *Provider) ChatWithHistory(systemPrompt string, messages []agentlab.Message, newMessage string) (string, error) {
	contents := make([]Content, 0, len(messages)+1)
	for _, msg := range messages {
		role := string(msg.Role)
		// Gemini uses "model" instead of "assistant".
		if msg.Role == agentlab.RoleAssistant {
			role = "model"
		}
		contents = append(contents, Content{
			Role:  role,
			Parts: []Part{{Text: msg.Content}},
		})
	}

	contents = append(contents, Content{
		Role:  "user",
		Parts: []Part{{Text: newMessage}},
	})

	temperature := 0.0
	reqBody := Request{
		Contents:         contents,
		GenerationConfig: &GenerationConfig{Temperature: &temperature},
	}

	if systemPrompt != "" {
		reqBody.SystemInstruction = &SystemInstruction{
			Parts: []Part{{Text: systemPrompt}},
		}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %v", err)
	}

	url, err := p.endpoint(fmt.Sprintf("/models/%s:generateContent", p.model))
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &agentlab.ProviderError{Provider: ProviderName, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if p.debug {
		fmt.Fprintf(os.Stderr, "Raw API response: %s\n", string(body))
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		if p.debug {
			return "", fmt.Errorf("error parsing response: %v\nRaw response: %s", err, string(body))
		}
		return "", fmt.Errorf("error parsing response: %v", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		if p.debug {
			return "", fmt.Errorf("no response from API\nRaw response: %s", string(body))
		}
		return "", fmt.Errorf("no response from API")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// Embed converts the given texts into embedding vectors using the batch
// embedding endpoint. Vectors are returned in input order.
func (p *Provider) Embed(texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}

	reqBody := EmbedRequest{
		Requests: make([]EmbedContentRequest, 0, len(texts)),
	}
	for _, text := range texts {
		reqBody.Requests = append(reqBody.Requests, EmbedContentRequest{
			Model:   "models/" + p.embeddingModel,
			Content: Content{Parts: []Part{{Text: text}}},
		})
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %v", err)
	}

	url, err := p.endpoint(fmt.Sprintf("/models/%s:batchEmbedContents", p.embeddingModel))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &agentlab.ProviderError{Provider: ProviderName, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result EmbedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		if p.debug {
			return nil, fmt.Errorf("error parsing response: %v\nRaw response: %s", err, string(body))
		}
		return nil, fmt.Errorf("error parsing response: %v", err)
	}

	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}

	vectors := make([][]float64, 0, len(result.Embeddings))
	for _, embedding := range result.Embeddings {
		vectors = append(vectors, embedding.Values)
	}
	return vectors, nil
}
