package domain

// CommandType identifies the action a reviewer asked for.
type CommandType string

const (
	// Content-targeted commands, always carry a ContentID.
	CommandUploadToPublish CommandType = "UPLOAD_TO_PUBLISH"
	CommandChangeImage     CommandType = "CHANGE_IMAGE"
	CommandUpdateContent   CommandType = "UPDATE_CONTENT"
	CommandReject          CommandType = "REJECT"

	// Administrative commands, never carry a ContentID.
	CommandListKeywords   CommandType = "LIST_KEYWORDS"
	CommandUpdateKeywords CommandType = "UPDATE_KEYWORDS"
	CommandListPosts      CommandType = "LIST_POSTS"
	CommandDeletePost     CommandType = "DELETE_POST"
	CommandGeneratePosts  CommandType = "GENERATE_POSTS"
)

// Valid reports whether t is a known command type.
func (t CommandType) Valid() bool {
	switch t {
	case CommandUploadToPublish, CommandChangeImage, CommandUpdateContent,
		CommandReject, CommandListKeywords, CommandUpdateKeywords,
		CommandListPosts, CommandDeletePost, CommandGeneratePosts:
		return true
	}
	return false
}

// Administrative reports whether t operates on registry-wide state
// instead of a single content item.
func (t CommandType) Administrative() bool {
	switch t {
	case CommandListKeywords, CommandUpdateKeywords, CommandListPosts,
		CommandDeletePost, CommandGeneratePosts:
		return true
	}
	return false
}

// CommandContext carries the optional detail extracted from a reply.
type CommandContext struct {
	Tone             string   `json:"tone,omitempty"`
	SpecificRequests []string `json:"specificRequests,omitempty"`
	Urgency          Urgency  `json:"urgency,omitempty"`
	Count            int      `json:"count,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	PostID           string   `json:"postId,omitempty"`
}

// ParsedCommand is a command as produced by the interpreter, before the
// caller attaches envelope data.
type ParsedCommand struct {
	Type     CommandType     `json:"type"`
	Feedback string          `json:"feedback,omitempty"`
	Context  *CommandContext `json:"additionalContext,omitempty"`
}

// Command is a fully-attributed reviewer intent ready for dispatch.
type Command struct {
	Type          CommandType     `json:"type"`
	ContentID     string          `json:"contentId,omitempty"`
	SenderAddress string          `json:"senderAddress"`
	Feedback      string          `json:"feedback,omitempty"`
	Context       *CommandContext `json:"additionalContext,omitempty"`
}
