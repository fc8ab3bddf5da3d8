package groq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"

	"github.com/gkassa/agentlab/internal/agentlab"
)

const (
	ProviderName   = "groq"
	DefaultBaseURL = "https://api.groq.com/openai/v1"
)

// ChatRequest represents the request body for Groq's chat completions API.
// The API is OpenAI-compatible.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

// ChatMessage represents a message in the chat completions format
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse represents the response from the chat completions API
type ChatResponse struct {
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice represents a completion choice
type ChatChoice struct {
	Message ChatMessage `json:"message"`
}

// ModelsAPIResponse represents the response from Groq's models endpoint
type ModelsAPIResponse struct {
	Data []ModelData `json:"data"`
}

// ModelData represents a single model in the API response
type ModelData struct {
	ID      string `json:"id"`
	OwnedBy string `json:"owned_by"`
	Active  bool   `json:"active"`
}

// Config defines the configuration interface for the Groq provider
type Config interface {
	BaseURL(kind agentlab.ProviderKind) (string, error)
	Credential(kind agentlab.ProviderKind) (string, error)
}

// Provider implements the agentlab.Provider interface for Groq
type Provider struct {
	config Config
	model  string
	debug  bool
}

// NewProvider creates a new Groq provider instance for the given model
func NewProvider(config Config, model string) *Provider {
	return &Provider{
		config: config,
		model:  model,
		debug:  false,
	}
}

// SetDebug enables or disables debug mode
func (p *Provider) SetDebug(enabled bool) {
	p.debug = enabled
}

// Chat sends a single message to Groq's API and returns the response
func (p *Provider) Chat(message string) (string, error) {
	return p.ChatWithHistory("", nil, message)
}

// ChatWithHistory sends a conversation history with a new message to Groq's API
func (p *Provider) ChatWithHistory(systemPrompt string, messages []agentlab.Message, newMessage string) (string, error) {
	chatMessages := make([]ChatMessage, 0, len(messages)+2)
	if systemPrompt != "" {
		chatMessages = append(chatMessages, ChatMessage{Role: "system", Content: systemPrompt})
	}
	for _, msg := range messages {
		chatMessages = append(chatMessages, ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	chatMessages = append(chatMessages, ChatMessage{Role: "user", Content: newMessage})

	temperature := 0.0
	reqBody := ChatRequest{
		Model:       p.model,
		Messages:    chatMessages,
		Temperature: &temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %v", err)
	}

	baseURL, token, err := p.connection()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

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

	var result ChatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		if p.debug {
			return "", fmt.Errorf("error parsing response: %v\nRaw response: %s", err, string(body))
		}
		return "", fmt.Errorf("error parsing response: %v", err)
	}

	if len(result.Choices) == 0 {
		if p.debug {
			return "", fmt.Errorf("no response from API\nRaw response: %s", string(body))
		}
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}

// ListModels returns the list of models from the API
func (p *Provider) ListModels() ([]agentlab.ModelInfo, error) {
	baseURL, token, err := p.connection()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("GET", baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

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

	models := make([]agentlab.ModelInfo, 0, len(result.Data))
	for _, model := range result.Data {
		description := ""
		if model.OwnedBy != "" {
			description = "owned by " + model.OwnedBy
		}
		models = append(models, agentlab.ModelInfo{
			ID:          model.ID,
			Description: description,
			IsDefault:   model.ID == agentlab.DefaultModel,
		})
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})

	return models, nil
}

// connection resolves the base URL and credential for Groq
func (p *Provider) connection() (string, string, error) {
	token, err := p.config.Credential(agentlab.ProviderGroq)
	if err != nil {
		return "", "", err
	}

	baseURL, err := p.config.BaseURL(agentlab.ProviderGroq)
	if err != nil {
		return "", "", err
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return baseURL, token, nil
}
