package providers

import "strings"

// Message represents a single role-tagged message in a conversation.
// Content carries plain text; Parts carries rich multi-part content from
// callers that build structured prompts. Exactly one of the two is
// normally set.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the plain text content
	Content string `json:"content,omitempty"`

	// Parts is optional typed content; only text parts are honored
	Parts []ContentPart `json:"parts,omitempty"`
}

// ContentPart is one typed block inside a rich message.
type ContentPart struct {
	// Type is the part type; only "text" is dispatched to vendors
	Type string `json:"type"`

	// Text is the part's text content (for Type == "text")
	Text string `json:"text,omitempty"`
}

// Text builds a plain text message.
func Text(role, content string) Message {
	return Message{Role: role, Content: content}
}

// Flatten normalizes messages to plain text. Rich parts are reduced to
// their text blocks joined by newlines; non-text parts are dropped. Not
// every vendor back end accepts structured content, so dispatch always
// runs on the flattened form.
func Flatten(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role == "" {
			role = "user"
		}

		if len(m.Parts) == 0 {
			out = append(out, Message{Role: role, Content: m.Content})
			continue
		}

		texts := make([]string, 0, len(m.Parts))
		for _, p := range m.Parts {
			if p.Type == "text" {
				texts = append(texts, p.Text)
			}
		}
		out = append(out, Message{Role: role, Content: strings.Join(texts, "\n")})
	}
	return out
}

// Target identifies where one dispatch goes: the credential's secret and
// its optional per-credential endpoint override. Dispatchers never see the
// credential itself, only this immutable view.
type Target struct {
	// Secret is the API key presented to the vendor
	Secret string

	// BaseURL overrides the vendor's default endpoint base when non-empty
	BaseURL string
}
