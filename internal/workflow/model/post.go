package model

type PostGenerateInput struct {
	OwnerID string

	Brief string
	Kind  string

	ProfileSummary   string
	RetrievedContext string

	TargetWordCount int

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

type PostGenerateOutput struct {
	Content string
	Meta    LLMUsageMeta
}
