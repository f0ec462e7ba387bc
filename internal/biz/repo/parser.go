package repo

import (
	"context"

	"github.com/beastputty/beastblogger/internal/biz/domain"
)

// ParserRepo turns a raw reply body into typed commands.
//
// The implementation is a language model constrained to a fixed schema.
// Output that fails schema validation is an InterpretationError; the
// caller must treat the reply as zero commands rather than guess.
// Determinism is not guaranteed, so tests stub this interface.
type ParserRepo interface {
	Parse(ctx context.Context, rawBody string) ([]domain.ParsedCommand, error)
}
