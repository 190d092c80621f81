package model

type ProfileSummaryInput struct {
	OwnerID string

	SampleExcerpts string

	AvgLengthWords    float64
	MedianLengthWords float64
	FrequentWords     string
	CommonOpenings    string
	SampleCount       int

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

type ProfileSummaryOutput struct {
	Summary string
	Meta    LLMUsageMeta
}
