package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PromptsConfig contains all prompt configurations loaded from YAML
type PromptsConfig struct {
	Parser    ParserPrompts    `yaml:"parser"`
	Generator GeneratorPrompts `yaml:"generator"`
	Image     ImagePrompts     `yaml:"image"`
	Preview   PreviewPrompts   `yaml:"preview"`
}

// ParserPrompts contains command interpreter prompts
type ParserPrompts struct {
	SystemPrompt string `yaml:"system_prompt"`
}

// GeneratorPrompts contains content generator prompts
type GeneratorPrompts struct {
	SystemPrompt string `yaml:"system_prompt"`
}

// ImagePrompts contains image scenario prompts
type ImagePrompts struct {
	ScenarioPrompt string `yaml:"scenario_prompt"`
}

// PreviewPrompts contains the review email template pieces
type PreviewPrompts struct {
	FooterHTML string `yaml:"footer_html"`
}

// LoadPromptsConfig loads prompts configuration from YAML file
func LoadPromptsConfig(configPath string) (*PromptsConfig, error) {
	// Try multiple paths
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/prompts.yaml",
			"./configs/prompts.yaml",
			"/etc/beastblogger/prompts.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "prompts.yaml"))
		}
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, "configs", "prompts.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	var err error

	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err = os.ReadFile(p)
		if err == nil {
			loadedPath = p
			break
		}
	}

	if data == nil {
		// Return default config if no file found
		fmt.Println("[Config] No prompts.yaml found, using defaults")
		return DefaultPromptsConfig(), nil
	}

	fmt.Printf("[Config] Loading prompts from: %s\n", loadedPath)

	var config PromptsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse prompts.yaml: %w", err)
	}

	config.fillDefaults()
	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *PromptsConfig) fillDefaults() {
	defaults := DefaultPromptsConfig()

	if c.Parser.SystemPrompt == "" {
		c.Parser.SystemPrompt = defaults.Parser.SystemPrompt
	}
	if c.Generator.SystemPrompt == "" {
		c.Generator.SystemPrompt = defaults.Generator.SystemPrompt
	}
	if c.Image.ScenarioPrompt == "" {
		c.Image.ScenarioPrompt = defaults.Image.ScenarioPrompt
	}
	if c.Preview.FooterHTML == "" {
		c.Preview.FooterHTML = defaults.Preview.FooterHTML
	}
}

// DefaultPromptsConfig returns the built-in prompts
func DefaultPromptsConfig() *PromptsConfig {
	return &PromptsConfig{
		Parser: ParserPrompts{
			SystemPrompt: defaultParserPrompt,
		},
		Generator: GeneratorPrompts{
			SystemPrompt: defaultGeneratorPrompt,
		},
		Image: ImagePrompts{
			ScenarioPrompt: defaultScenarioPrompt,
		},
	}
}

const defaultParserPrompt = `Analyze the following email reply and identify ALL requested actions and their additional context.

Common patterns to look for:
1. Content approval and publishing requests
2. Image change requests
3. Content revision requests
4. Rejections or feedback
5. List or manage keywords
6. List or manage posts
7. Generate new posts

For EACH action identified, provide:
- type: one of UPLOAD_TO_PUBLISH, CHANGE_IMAGE, UPDATE_CONTENT, REJECT, LIST_KEYWORDS, UPDATE_KEYWORDS, LIST_POSTS, DELETE_POST, GENERATE_POSTS
- feedback: any feedback or comments provided
- additionalContext: object with optional tone, specificRequests (array of strings), urgency (low|medium|high), count (number), keywords (array of strings), postId

Respond with a JSON object of the form {"commands": [...]} and nothing else.
Always return an array of commands, even if there is only one.`

const defaultGeneratorPrompt = `You are a blog writer for Beast Putty. Write engaging, slightly absurd articles.

Respond with a JSON object and nothing else:
{"title": "...", "excerpt": "...", "body": "...", "keywords": ["..."], "links": [{"url": "...", "text": "...", "isInternal": false}]}

Rules:
- excerpt must be at most 160 characters
- body is Markdown using only headings, paragraphs, links, bold and italics
- no images, tables, lists or code blocks in the body`

const defaultScenarioPrompt = `You design image scenes for blog article illustrations.

Given an article summary and its keywords, respond with a JSON object and nothing else:
{"description": "...", "prompt": "...", "relevantKeywords": ["..."]}

The prompt field must be a self-contained image generation prompt incorporating Beast Putty themes and style.`
