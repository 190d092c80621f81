package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	llmctx "ai-author-api/internal/domain/service"
	wfmodel "ai-author-api/internal/workflow/model"
	workflowport "ai-author-api/internal/workflow/port"
	workflowprompt "ai-author-api/internal/workflow/prompt"
)

type ProfileChain struct {
	factory workflowport.ChatModelFactory
}

func NewProfileChain(factory workflowport.ChatModelFactory) *ProfileChain {
	return &ProfileChain{factory: factory}
}

func (c *ProfileChain) Invoke(ctx context.Context, in *wfmodel.ProfileSummaryInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.SampleExcerpts) == "" {
		return nil, fmt.Errorf("sample excerpts are required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "profile_summary", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatProfileMessages(ctx, in)
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

var profilePromptRegistry = workflowprompt.NewRegistry()

func formatProfileMessages(ctx context.Context, in *wfmodel.ProfileSummaryInput) ([]*schema.Message, error) {
	tpl, err := profilePromptRegistry.ChatTemplate(workflowprompt.PromptProfileSummaryV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"sample_count":        in.SampleCount,
		"avg_length_words":    fmt.Sprintf("%.1f", in.AvgLengthWords),
		"median_length_words": fmt.Sprintf("%.1f", in.MedianLengthWords),
		"frequent_words":      strings.TrimSpace(in.FrequentWords),
		"common_openings":     strings.TrimSpace(in.CommonOpenings),
		"sample_excerpts":     strings.TrimSpace(in.SampleExcerpts),
	}
	return tpl.Format(ctx, vars)
}
