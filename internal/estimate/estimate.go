// Package estimate calls a vision-capable chat model to identify a
// food photo and guess its calorie content.
package estimate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jet23058/caloriesnap/internal/errors"
)

const systemPrompt = `You are a nutrition assistant. The user sends one photo.
Respond with a single JSON object and nothing else:
{"foodItem": "<short name>", "isFoodItem": <true|false>, "calorieEstimate": <number>, "confidence": <0..1>}
If the photo does not show food or drink, set isFoodItem to false,
calorieEstimate to 0, and name what the photo shows instead.`

// Result is the model's reading of a single photo.
type Result struct {
	FoodItem        string  `json:"foodItem"`
	IsFoodItem      bool    `json:"isFoodItem"`
	CalorieEstimate float64 `json:"calorieEstimate"`
	Confidence      float64 `json:"confidence"`
}

type Client struct {
	client *openai.Client
	model  string
}

// NewClient builds an estimator for the given API key. An empty model
// falls back to gpt-4o.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = "gpt-4o"
	}
	return &Client{client: openai.NewClient(apiKey), model: model}
}

// Estimate sends the image to the model and parses its structured
// reply. imageDataURI must be a data: URI (base64 JPEG or PNG).
func (c *Client) Estimate(ctx context.Context, imageDataURI string) (*Result, error) {
	if imageDataURI == "" {
		return nil, errors.NewValidation("image", "must be a data URI")
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Identify this meal and estimate its calories.",
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageDataURI,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
		MaxTokens:   300,
		Temperature: 0.2,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, errors.NewExternalService("openai", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.NewExternalService("openai", fmt.Errorf("empty response"))
	}

	result, err := ParseResult(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ParseResult extracts the JSON object from a model reply. Models
// sometimes wrap the object in a markdown fence or prose, so it scans
// for the outermost braces rather than requiring a clean body.
func ParseResult(reply string) (*Result, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, errors.NewExternalService("openai", fmt.Errorf("reply contained no JSON object"))
	}

	var result Result
	if err := json.Unmarshal([]byte(reply[start:end+1]), &result); err != nil {
		return nil, errors.NewExternalService("openai", err)
	}

	result.FoodItem = strings.TrimSpace(result.FoodItem)
	if result.FoodItem == "" {
		result.FoodItem = "Unknown item"
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	if !result.IsFoodItem || result.CalorieEstimate < 0 {
		result.CalorieEstimate = 0
	}
	return &result, nil
}
