package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	openai "github.com/sashabaranov/go-openai"
	"github.com/yuin/goldmark"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// generatorRepo implements the content generation collaborator. The
// model writes Markdown; the repo renders it to HTML and enforces the
// tag allow-list before a draft leaves this boundary.
type generatorRepo struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

// NewGeneratorRepo creates a new content generator repository.
func NewGeneratorRepo(client *openai.Client, model, systemPrompt string) repo.GeneratorRepo {
	return &generatorRepo{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
	}
}

// draftPayload is the expected model output shape.
type draftPayload struct {
	Title    string        `json:"title"`
	Excerpt  string        `json:"excerpt"`
	Body     string        `json:"body"` // Markdown
	Keywords []string      `json:"keywords"`
	Links    []domain.Link `json:"links"`
}

func (g *generatorRepo) Generate(ctx context.Context, instruction string, keywords []string) (*domain.Draft, error) {
	user := instruction
	if len(keywords) > 0 {
		user += "\n\nKeywords: " + strings.Join(keywords, ", ")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return nil, &domain.GenerationError{Reason: "model call failed", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.GenerationError{Reason: "no response choices"}
	}

	var payload draftPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, &domain.GenerationError{Reason: "invalid draft payload", Err: err}
	}
	if payload.Title == "" || payload.Body == "" {
		return nil, &domain.GenerationError{Reason: "draft missing title or body"}
	}
	if len(payload.Excerpt) > domain.MaxExcerptLen {
		return nil, &domain.GenerationError{
			Reason: fmt.Sprintf("excerpt exceeds %d characters", domain.MaxExcerptLen),
		}
	}

	bodyHTML, err := RenderBody(payload.Body)
	if err != nil {
		return nil, err
	}

	draftKeywords := payload.Keywords
	if len(draftKeywords) == 0 {
		draftKeywords = keywords
	}

	return &domain.Draft{
		Title:    payload.Title,
		Excerpt:  payload.Excerpt,
		BodyHTML: bodyHTML,
		Keywords: draftKeywords,
		Links:    payload.Links,
	}, nil
}

// RenderBody converts generator Markdown into the restricted HTML the
// rest of the system works with. A rendering that falls outside the
// allow-listed tag set is a GenerationError: the workflow never repairs
// generator output.
func RenderBody(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", &domain.GenerationError{Reason: "markdown rendering failed", Err: err}
	}

	html := buf.String()
	// Goldmark emits <strong>/<em>; the allow-list wants <b>/<i>.
	html = strings.NewReplacer(
		"<strong>", "<b>", "</strong>", "</b>",
		"<em>", "<i>", "</em>", "</i>",
	).Replace(html)
	html = strings.TrimSpace(html)

	if err := ValidateBodyHTML(html); err != nil {
		return "", err
	}
	return html, nil
}

// ValidateBodyHTML checks html against the allow-listed tag set.
func ValidateBodyHTML(html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return &domain.GenerationError{Reason: "unparseable body HTML", Err: err}
	}

	var violation string
	doc.Find("body *").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		tag := goquery.NodeName(s)
		if !domain.AllowedBodyTags[tag] {
			violation = tag
			return false
		}
		return true
	})
	if violation != "" {
		return &domain.GenerationError{
			Reason: fmt.Sprintf("disallowed tag <%s> in body", violation),
		}
	}
	return nil
}
