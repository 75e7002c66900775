package domain

// Link — ссылка или картинка, извлеченная из markdown-ответа советника.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// AdvisorMessage — разобранный ответ советника для чата.
type AdvisorMessage struct {
	Text   string `json:"text"` // Текст без картинок
	Images []Link `json:"images"`
	Links  []Link `json:"links"`
}

type ChatTurn struct {
	Role    string `json:"role"` // "user" или "assistant"
	Content string `json:"content"`
}

type ChatRequest struct {
	Question string     `json:"question"`
	History  []ChatTurn `json:"history,omitempty"`
}
