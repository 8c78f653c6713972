package triage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/propos/maintenance-engine/internal/domain"
)

// VisionClassifier analyzes maintenance photos with a vision model and
// returns a structured severity verdict.
type VisionClassifier struct {
	client *openai.Client
	model  shared.ChatModel
}

// NewVisionClassifier creates the classifier. An empty apiKey returns nil,
// which disables the image path.
func NewVisionClassifier(apiKey, model string) *VisionClassifier {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = shared.ChatModelGPT4oMini
	}
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return &VisionClassifier{client: &c, model: model}
}

type visionVerdict struct {
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Analyze implements ImageClassifier. A 429 from the API maps to
// ErrRateLimited so the caller can apply its single retry.
func (v *VisionClassifier) Analyze(ctx context.Context, imagePath string) (*ImageVerdict, error) {
	img, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	b64 := base64.StdEncoding.EncodeToString(img)

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"priority":    map[string]any{"type": "string", "enum": []string{"LOW", "MEDIUM", "HIGH", "EMERGENCY"}},
			"title":       map[string]string{"type": "string"},
			"description": map[string]string{"type": "string"},
		},
		"required":             []string{"priority", "title", "description"},
		"additionalProperties": false,
	}

	fn := shared.FunctionDefinitionParam{
		Name:        "report_maintenance_verdict",
		Description: openai.String("Return the severity verdict for the maintenance issue photo."),
		Strict:      openai.Bool(true),
		Parameters:  schema,
	}

	req := openai.ChatCompletionNewParams{
		Model: v.model,
		Messages: []openai.ChatCompletionMessageParamUnion{{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.TextContentPart(`You are an expert property manager. Analyze this photo of a reported maintenance issue.

Call report_maintenance_verdict with:
1. priority - LOW, MEDIUM, HIGH or EMERGENCY based on the visible damage.
2. title - a short professional summary.
3. description - a technical description and suggested repair.`),
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL:    "data:image/jpeg;base64," + b64,
							Detail: "low",
						}),
					},
				},
			},
		}},
		Tools: []openai.ChatCompletionToolParam{{
			Function: fn,
		}},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{
					Name: "report_maintenance_verdict",
				},
			},
		},
	}

	resp, err := v.client.Chat.Completions.New(ctx, req)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("vision: %w", err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, errors.New("vision: no function call returned")
	}

	var raw visionVerdict
	args := resp.Choices[0].Message.ToolCalls[0].Function.Arguments
	if err := json.Unmarshal([]byte(args), &raw); err != nil {
		return nil, fmt.Errorf("vision: decode verdict: %w", err)
	}

	verdict := &ImageVerdict{
		Priority:    domain.TicketPriority(strings.ToUpper(strings.TrimSpace(raw.Priority))),
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
	}
	if !domain.ValidPriority(verdict.Priority) {
		verdict.Priority = domain.TicketPriorityMedium
	}
	return verdict, nil
}
