package domain

import (
	"fmt"
	"strings"
)

// DeliveryError reports a mail transport failure (send or poll).
type DeliveryError struct {
	Op  string // "send" or "poll"
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mail %s failed: %v", e.Op, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// InterpretationError reports that a reply body could not be parsed
// into any valid command. It is absorbed at the interpreter boundary:
// the reply yields zero commands and nothing is escalated.
type InterpretationError struct {
	Reason string
	Err    error
}

func (e *InterpretationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not interpret reply: %s: %v", e.Reason, e.Err)
	}
	return "could not interpret reply: " + e.Reason
}

func (e *InterpretationError) Unwrap() error { return e.Err }

// ContentNotFoundError reports a command that references an unknown
// content identifier.
type ContentNotFoundError struct {
	ContentID string
}

func (e *ContentNotFoundError) Error() string {
	return fmt.Sprintf("content not found: %q", e.ContentID)
}

// GenerationError reports a content generation collaborator failure,
// including drafts that violate the body tag allow-list.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("content generation failed: %s: %v", e.Reason, e.Err)
	}
	return "content generation failed: " + e.Reason
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ImageGenerationError reports an image collaborator failure.
type ImageGenerationError struct {
	Stage string // "scenario" or "image"
	Err   error
}

func (e *ImageGenerationError) Error() string {
	return fmt.Sprintf("image %s generation failed: %v", e.Stage, e.Err)
}

func (e *ImageGenerationError) Unwrap() error { return e.Err }

// PublishError reports a publishing collaborator failure, carrying any
// field-level validation messages returned by the platform.
type PublishError struct {
	Fields []string
	Err    error
}

func (e *PublishError) Error() string {
	if len(e.Fields) > 0 {
		return "publish rejected: " + strings.Join(e.Fields, "; ")
	}
	return fmt.Sprintf("publish failed: %v", e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// PersistenceError reports a snapshot load or save failure.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("snapshot %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
