package data

import (
	"errors"
	"testing"

	"github.com/beastputty/beastblogger/internal/biz/domain"
)

func TestDecodeCommandsEnvelope(t *testing.T) {
	content := `{"commands": [
		{"type": "UPLOAD_TO_PUBLISH", "feedback": "ship it"},
		{"type": "CHANGE_IMAGE", "additionalContext": {"specificRequests": ["darker"], "urgency": "high"}}
	]}`

	commands, err := decodeCommands(content)
	if err != nil {
		t.Fatalf("decodeCommands error: %v", err)
	}
	if len(commands) != 2 {
		t.Fatalf("commands = %d, want 2", len(commands))
	}
	if commands[0].Type != domain.CommandUploadToPublish || commands[0].Feedback != "ship it" {
		t.Errorf("commands[0] = %+v", commands[0])
	}
	if commands[1].Context == nil || commands[1].Context.Urgency != domain.UrgencyHigh {
		t.Errorf("commands[1] = %+v", commands[1])
	}
}

func TestDecodeCommandsBareArray(t *testing.T) {
	content := `[{"type": "REJECT", "feedback": "not yet"}]`

	commands, err := decodeCommands(content)
	if err != nil {
		t.Fatalf("decodeCommands error: %v", err)
	}
	if len(commands) != 1 || commands[0].Type != domain.CommandReject {
		t.Errorf("commands = %+v", commands)
	}
}

func TestDecodeCommandsRejectsWholeReply(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `this is not json`},
		{"empty envelope", `{"commands": []}`},
		{"empty array", `[]`},
		{"unknown type", `{"commands": [{"type": "UPLOAD_TO_PUBLISH"}, {"type": "DO_THE_THING"}]}`},
		{"bad urgency", `{"commands": [{"type": "REJECT", "additionalContext": {"urgency": "critical"}}]}`},
		{"negative count", `{"commands": [{"type": "GENERATE_POSTS", "additionalContext": {"count": -1}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commands, err := decodeCommands(tt.content)
			if err == nil {
				t.Fatalf("expected error, got %+v", commands)
			}
			var interpErr *domain.InterpretationError
			if !errors.As(err, &interpErr) {
				t.Errorf("err = %v, want InterpretationError", err)
			}
			// All-or-nothing: never a partial command list
			if commands != nil {
				t.Errorf("commands = %+v, want nil", commands)
			}
		})
	}
}

func TestValidateCommandContextOptional(t *testing.T) {
	cmd := domain.ParsedCommand{Type: domain.CommandListPosts}
	if err := validateCommand(cmd); err != nil {
		t.Errorf("validateCommand error: %v", err)
	}
}
