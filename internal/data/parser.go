package data

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// parserRepo implements the command interpreter on an OpenAI chat model
// constrained to a schema-validated array of commands.
type parserRepo struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

// NewParserRepo creates a new command parser repository.
func NewParserRepo(client *openai.Client, model, systemPrompt string) repo.ParserRepo {
	return &parserRepo{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
	}
}

// commandEnvelope is the expected model output shape.
type commandEnvelope struct {
	Commands []domain.ParsedCommand `json:"commands"`
}

// Parse asks the model for the full set of actions in the reply. Any
// schema violation rejects the whole reply with an InterpretationError;
// the caller treats that as zero commands. No partial or best-effort
// parse is ever returned.
func (p *parserRepo) Parse(ctx context.Context, rawBody string) ([]domain.ParsedCommand, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: rawBody},
		},
	})
	if err != nil {
		return nil, &domain.InterpretationError{Reason: "model call failed", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.InterpretationError{Reason: "no response choices"}
	}

	return decodeCommands(resp.Choices[0].Message.Content)
}

func decodeCommands(content string) ([]domain.ParsedCommand, error) {
	content = strings.TrimSpace(content)

	var commands []domain.ParsedCommand
	if strings.HasPrefix(content, "[") {
		// Some models return a bare array despite the envelope request.
		if err := json.Unmarshal([]byte(content), &commands); err != nil {
			return nil, &domain.InterpretationError{Reason: "invalid command array", Err: err}
		}
	} else {
		var envelope commandEnvelope
		if err := json.Unmarshal([]byte(content), &envelope); err != nil {
			return nil, &domain.InterpretationError{Reason: "invalid command object", Err: err}
		}
		commands = envelope.Commands
	}

	if len(commands) == 0 {
		return nil, &domain.InterpretationError{Reason: "no commands in reply"}
	}

	for i, cmd := range commands {
		if err := validateCommand(cmd); err != nil {
			return nil, &domain.InterpretationError{
				Reason: fmt.Sprintf("command %d failed validation", i),
				Err:    err,
			}
		}
	}
	return commands, nil
}

func validateCommand(cmd domain.ParsedCommand) error {
	if !cmd.Type.Valid() {
		return fmt.Errorf("unknown command type %q", cmd.Type)
	}
	if cmd.Context != nil {
		if cmd.Context.Urgency != "" && !cmd.Context.Urgency.Valid() {
			return fmt.Errorf("unknown urgency %q", cmd.Context.Urgency)
		}
		if cmd.Context.Count < 0 {
			return fmt.Errorf("negative count %d", cmd.Context.Count)
		}
	}
	return nil
}
