// Package chain 编排各 LLM 工作流
package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	llmctx "ai-author-api/internal/domain/service"
	wfmodel "ai-author-api/internal/workflow/model"
	workflowport "ai-author-api/internal/workflow/port"
	workflowprompt "ai-author-api/internal/workflow/prompt"
)

type PostChain struct {
	factory workflowport.ChatModelFactory
}

func NewPostChain(factory workflowport.ChatModelFactory) *PostChain {
	return &PostChain{factory: factory}
}

func (c *PostChain) Invoke(ctx context.Context, in *wfmodel.PostGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Brief) == "" {
		return nil, fmt.Errorf("brief is required")
	}
	if strings.TrimSpace(in.Kind) == "" {
		return nil, fmt.Errorf("kind is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "post_generate", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatPostMessages(ctx, in)
	if err != nil {
		return nil, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildModelOptions(in.Temperature, in.MaxTokens, in.Model)...)
	if err != nil {
		return nil, err
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}
	return outMsg, nil
}

var postPromptRegistry = workflowprompt.NewRegistry()

func formatPostMessages(ctx context.Context, in *wfmodel.PostGenerateInput) ([]*schema.Message, error) {
	tpl, err := postPromptRegistry.ChatTemplate(workflowprompt.PromptPostGenV1)
	if err != nil {
		return nil, err
	}

	retrieved := strings.TrimSpace(in.RetrievedContext)
	if retrieved == "" {
		retrieved = "(no excerpts available)"
	}

	vars := map[string]any{
		"profile_summary":   strings.TrimSpace(in.ProfileSummary),
		"retrieved_context": retrieved,
		"kind_instructions": kindInstructions(in.Kind),
		"target_word_count": in.TargetWordCount,
		"brief":             strings.TrimSpace(in.Brief),
	}
	return tpl.Format(ctx, vars)
}

// kindInstructions 按内容类型给出写作指令
func kindInstructions(kind string) string {
	switch strings.TrimSpace(kind) {
	case "social":
		return "Write a short social media post. Keep it punchy and conversational, suitable for a feed. Use hashtags only if the author's own writing does."
	default:
		return "Write a complete blog post: open with a title line, develop the topic in flowing paragraphs, and end with a closing thought."
	}
}

func buildModelOptions(temperature *float32, maxTokens *int, modelName string) []model.Option {
	opts := make([]model.Option, 0, 3)
	if temperature != nil {
		opts = append(opts, model.WithTemperature(*temperature))
	}
	if maxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*maxTokens))
	}
	if strings.TrimSpace(modelName) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(modelName)))
	}
	return opts
}
