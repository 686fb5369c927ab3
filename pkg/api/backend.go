package api

// BackendCompletionRequest is the payload sent to a completion backend that
// is itself reached through an output binding.
type BackendCompletionRequest struct {
	Prompt     string       `json:"prompt"`
	InstanceId string       `json:"instanceId,omitempty"`
	System     string       `json:"system,omitempty"`
	History    *ChatHistory `json:"history,omitempty"`
}

type BackendCompletionResponse struct {
	Assistant string `json:"assistant"`
}

type BackendSummarizationRequest struct {
	Text string `json:"text"`
}
