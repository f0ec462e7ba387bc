package data

import (
	"context"
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// imageRepo implements the image generation collaborator: a chat model
// designs the scenario, the images endpoint renders it.
type imageRepo struct {
	client         *openai.Client
	model          string
	imageModel     string
	scenarioPrompt string
}

// NewImageRepo creates a new image repository. imageModel defaults to
// DALL-E 3 when empty.
func NewImageRepo(client *openai.Client, model, imageModel, scenarioPrompt string) repo.ImageRepo {
	if imageModel == "" {
		imageModel = openai.CreateImageModelDallE3
	}
	return &imageRepo{
		client:         client,
		model:          model,
		imageModel:     imageModel,
		scenarioPrompt: scenarioPrompt,
	}
}

func (r *imageRepo) GenerateScenario(ctx context.Context, summary string, keywords []string) (*domain.ImageScenario, error) {
	user := summary
	if len(keywords) > 0 {
		user += "\n\nKeywords: " + strings.Join(keywords, ", ")
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0.8,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: r.scenarioPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return nil, &domain.ImageGenerationError{Stage: "scenario", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.ImageGenerationError{Stage: "scenario", Err: errNoChoices}
	}

	var scenario domain.ImageScenario
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &scenario); err != nil {
		return nil, &domain.ImageGenerationError{Stage: "scenario", Err: err}
	}
	if scenario.Prompt == "" {
		scenario.Prompt = scenario.Description
	}
	if len(scenario.RelevantKeywords) == 0 {
		scenario.RelevantKeywords = keywords
	}
	return &scenario, nil
}

func (r *imageRepo) GenerateImage(ctx context.Context, scenario *domain.ImageScenario) (*domain.Image, error) {
	resp, err := r.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         scenario.Prompt,
		Model:          r.imageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, &domain.ImageGenerationError{Stage: "image", Err: err}
	}
	if len(resp.Data) == 0 {
		return nil, &domain.ImageGenerationError{Stage: "image", Err: errNoChoices}
	}

	return &domain.Image{
		URL:     resp.Data[0].URL,
		Alt:     scenario.Description,
		Caption: scenario.Description,
	}, nil
}
