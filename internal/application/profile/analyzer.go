// Package profile 提供写作风格画像的统计分析与摘要生成
package profile

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"ai-author-api/internal/domain/entity"
)

const (
	topFrequentWords  = 50
	topCommonOpenings = 5
	openingWordCount  = 20
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// stopwords 高频虚词，统计高频词时过滤
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "it": {}, "its": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "i": {}, "you": {},
	"he": {}, "she": {}, "we": {}, "they": {}, "my": {}, "your": {},
	"not": {}, "no": {}, "so": {}, "if": {}, "then": {}, "than": {},
	"there": {}, "their": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "can": {}, "could": {},
}

// Stats 统计分析结果
type Stats struct {
	AvgLengthWords    float64
	MedianLengthWords float64
	FrequentWords     []entity.WordFrequency
	CommonOpenings    []string
	SampleCount       int
}

// Analyze 对样本集合做确定性统计分析。
// 词按 unicode 字母/数字序列切分并统一小写；高频词过滤停用词；
// 开头短语取每条样本的前 20 个词。
func Analyze(samples []*entity.Sample) *Stats {
	if len(samples) == 0 {
		return &Stats{}
	}

	lengths := make([]int, 0, len(samples))
	wordCounts := make(map[string]int)
	openingCounts := make(map[string]int)
	openingOrder := make([]string, 0, len(samples))

	for _, smp := range samples {
		words := wordPattern.FindAllString(strings.ToLower(smp.RawText), -1)
		lengths = append(lengths, len(words))

		for _, w := range words {
			if _, skip := stopwords[w]; skip {
				continue
			}
			wordCounts[w]++
		}

		n := openingWordCount
		if n > len(words) {
			n = len(words)
		}
		opening := strings.Join(words[:n], " ")
		if opening != "" {
			if _, seen := openingCounts[opening]; !seen {
				openingOrder = append(openingOrder, opening)
			}
			openingCounts[opening]++
		}
	}

	return &Stats{
		AvgLengthWords:    average(lengths),
		MedianLengthWords: median(lengths),
		FrequentWords:     topWords(wordCounts, topFrequentWords),
		CommonOpenings:    topOpenings(openingCounts, openingOrder, topCommonOpenings),
		SampleCount:       len(samples),
	}
}

func average(lengths []int) float64 {
	sum := 0
	for _, l := range lengths {
		sum += l
	}
	return float64(sum) / float64(len(lengths))
}

// median 取排序后的上中位数
func median(lengths []int) float64 {
	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Ints(sorted)
	return float64(sorted[len(sorted)/2])
}

func topWords(counts map[string]int, limit int) []entity.WordFrequency {
	out := make([]entity.WordFrequency, 0, len(counts))
	for w, c := range counts {
		out = append(out, entity.WordFrequency{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func topOpenings(counts map[string]int, order []string, limit int) []string {
	sorted := make([]string, len(order))
	copy(sorted, order)
	// 按出现次数降序，次数相同时保持样本顺序
	sort.SliceStable(sorted, func(i, j int) bool {
		return counts[sorted[i]] > counts[sorted[j]]
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// StatisticalSummary 基于统计结果生成确定性摘要，LLM 不可用时作为回退
func StatisticalSummary(stats *Stats) string {
	if stats == nil || stats.SampleCount == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "The author's samples average %.0f words (median %.0f). ",
		stats.AvgLengthWords, stats.MedianLengthWords)

	if len(stats.FrequentWords) > 0 {
		n := 10
		if n > len(stats.FrequentWords) {
			n = len(stats.FrequentWords)
		}
		words := make([]string, 0, n)
		for _, wf := range stats.FrequentWords[:n] {
			words = append(words, wf.Word)
		}
		fmt.Fprintf(&sb, "Recurring vocabulary: %s. ", strings.Join(words, ", "))
	}

	if len(stats.CommonOpenings) > 0 {
		fmt.Fprintf(&sb, "A typical opening: %q.", truncateRunes(stats.CommonOpenings[0], 120))
	}
	return strings.TrimSpace(sb.String())
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
