package adapter

// defaultModelVendors is the static model-to-vendor table. A chat model
// name always maps to exactly one vendor; requesting a model absent from
// the table is a caller configuration error, never retried. Deployments
// extend the table through Options.ExtraModels.
var defaultModelVendors = map[string]string{
	// OpenAI
	"gpt-5-chat-2025-08-07": "openai",
	"gpt-5":                 "openai",
	"gpt-4o":                "openai",
	"gpt-4o-mini":           "openai",
	"gpt-3.5-turbo":         "openai",

	// Gemini
	"gemini-1.5-pro":   "gemini",
	"gemini-1.5-flash": "gemini",

	// BigModel
	"glm-4.5": "bigmodel",
}
