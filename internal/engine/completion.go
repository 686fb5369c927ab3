package engine

import "ai-engine/pkg/api"

// Completion is either a Stateless or a Stateful request.
type Completion interface {
	prompt() string
}

type Stateless struct {
	Prompt string
}

type Stateful struct {
	InstanceId string
	Prompt     string
}

func (c Stateless) prompt() string { return c.Prompt }
func (c Stateful) prompt() string  { return c.Prompt }

// ResolveCompletion picks the mode from the request: an empty instance id
// means a one-off completion with no history.
func ResolveCompletion(req api.CompletionRequest) Completion {
	if req.InstanceId == "" {
		return Stateless{Prompt: req.User}
	}
	return Stateful{InstanceId: req.InstanceId, Prompt: req.User}
}
