package domain

// PromptMessage follows the role/content pair required by chat APIs.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)
