package api

type ChatHistoryItem struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type ChatHistory struct {
	Items []ChatHistoryItem `json:"items"`
}

type CreateChatRequest struct {
	InstanceId string `json:"instanceId"`
	System     string `json:"system,omitempty"`
}

type CompletionRequest struct {
	User       string `json:"user"`
	InstanceId string `json:"instanceId,omitempty"`
}

type CompletionResponse struct {
	Assistant  string `json:"assistant"`
	InstanceId string `json:"instanceId,omitempty"`
}

type GetChatRequest struct {
	InstanceId string `json:"instanceId"`
}

// History is nil when the instance does not exist.
type GetChatResponse struct {
	History *ChatHistory `json:"history,omitempty"`
}

type GetChatsRequest struct {
	WithHistory bool `json:"withHistory,omitempty" schema:"withHistory"`
	Limit       int  `json:"limit,omitempty" schema:"limit"`
}

type ChatSummary struct {
	InstanceId string       `json:"instanceId"`
	History    *ChatHistory `json:"history,omitempty"`
}

type GetChatsResponse struct {
	Chats []ChatSummary `json:"chats"`
}

type TerminateChatRequest struct {
	InstanceId string `json:"instanceId"`
}

type SummarizeRequest struct {
	Text *string `json:"text,omitempty"`
	Url  *string `json:"url,omitempty"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

type ListOperationsResponse struct {
	Operations []string `json:"operations"`
}
