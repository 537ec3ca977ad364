package dto

// Event kinds delivered by the transport adapter.
const (
	EventMessage  = "message"
	EventFile     = "file"
	EventPostback = "postback"
	EventFollow   = "follow"
)

// Source kinds of a conversation.
const (
	SourceUser  = "user"
	SourceGroup = "group"
	SourceRoom  = "room"
)

// FileRef points at transport-held file content; bytes are fetched through
// the ContentFetcher collaborator, never carried in the event.
type FileRef struct {
	Id   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// Event is the normalized transport event. Exactly one of Text, File or
// Postback is meaningful depending on Type.
type Event struct {
	Type       string   `json:"type" validate:"required,oneof=message file postback follow"`
	UserId     string   `json:"user_id" validate:"required"`
	SourceKind string   `json:"source_kind" validate:"required,oneof=user group room"`
	SourceId   string   `json:"source_id" validate:"required"`
	Text       string   `json:"text,omitempty"`
	File       *FileRef `json:"file,omitempty"`
	Postback   string   `json:"postback,omitempty"`
}

// Reply payload kinds.
const (
	ReplyText = "text"
	ReplyList = "list"
)

// ReplyItem is one entry of a selectable list; Action is the opaque token
// the transport sends back as a postback when the item is chosen.
type ReplyItem struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Action      string `json:"action"`
}

// Reply is one outbound payload. Lists carry at most 10 items.
type Reply struct {
	Type    string       `json:"type"`
	Text    string       `json:"text,omitempty"`
	AltText string       `json:"alt_text,omitempty"`
	Items   []*ReplyItem `json:"items,omitempty"`
}

func TextReply(text string) *Reply {
	return &Reply{Type: ReplyText, Text: text}
}

// HandleEventResponse wraps the replies for the webhook response body.
type HandleEventResponse struct {
	Replies []*Reply `json:"replies"`
}
