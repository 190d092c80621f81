// Package export 将生成内容渲染为对外交付格式
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-author-api/internal/domain/entity"
	apperrors "ai-author-api/pkg/errors"
)

// ContentType 返回导出格式对应的 MIME 类型
func ContentType(format entity.ExportFormat) string {
	switch format {
	case entity.ExportFormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// jsonPost JSON 导出的稳定结构
type jsonPost struct {
	ID                string                     `json:"id"`
	OwnerID           string                     `json:"owner_id"`
	Brief             string                     `json:"brief"`
	Kind              entity.PostKind            `json:"kind"`
	Format            entity.ExportFormat        `json:"format"`
	Content           string                     `json:"content"`
	WordCount         int                        `json:"word_count"`
	ProfileSnapshotID string                     `json:"profile_snapshot_id"`
	ProfileSummary    string                     `json:"profile_summary,omitempty"`
	Metadata          *entity.GenerationMetadata `json:"generation_metadata,omitempty"`
	CreatedAt         string                     `json:"created_at"`
}

// Export 渲染生成内容。纯函数：同一 post/format 的输出字节完全一致。
// 未知格式返回 UnsupportedFormat，绝不静默回退。
func Export(post *entity.GeneratedPost, format entity.ExportFormat) ([]byte, error) {
	if post == nil {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "post is nil")
	}

	switch format {
	case entity.ExportFormatMarkdown:
		return renderMarkdown(post), nil
	case entity.ExportFormatJSON:
		return renderJSON(post)
	default:
		return nil, apperrors.New(apperrors.CodeUnsupportedFormat, "unsupported export format").
			WithDetail(fmt.Sprintf("format: %s", format))
	}
}

func renderMarkdown(post *entity.GeneratedPost) []byte {
	var sb strings.Builder

	content := strings.TrimSpace(post.Content)
	// 正文自带标题时不再补一行
	if !strings.HasPrefix(content, "#") {
		fmt.Fprintf(&sb, "# %s\n\n", markdownTitle(post))
	}
	sb.WriteString(content)
	sb.WriteString("\n\n---\n\n")

	fmt.Fprintf(&sb, "*Kind: %s · Words: %d · Generated: %s*\n",
		post.Kind, post.WordCount, post.CreatedAt.UTC().Format(time.RFC3339))
	if post.GenerationMetadata != nil && post.GenerationMetadata.Model != "" {
		fmt.Fprintf(&sb, "*Model: %s*\n", post.GenerationMetadata.Model)
	}
	return []byte(sb.String())
}

// markdownTitle 用 brief 的首行作为标题
func markdownTitle(post *entity.GeneratedPost) string {
	brief := strings.TrimSpace(post.Brief)
	if i := strings.IndexByte(brief, '\n'); i >= 0 {
		brief = strings.TrimSpace(brief[:i])
	}
	if brief == "" {
		return "Generated Post"
	}
	runes := []rune(brief)
	if len(runes) > 80 {
		return string(runes[:80]) + "…"
	}
	return brief
}

func renderJSON(post *entity.GeneratedPost) ([]byte, error) {
	out := jsonPost{
		ID:                post.ID,
		OwnerID:           post.OwnerID,
		Brief:             post.Brief,
		Kind:              post.Kind,
		Format:            post.Format,
		Content:           post.Content,
		WordCount:         post.WordCount,
		ProfileSnapshotID: post.ProfileSnapshotID,
		ProfileSummary:    post.ProfileSummary,
		Metadata:          post.GenerationMetadata,
		CreatedAt:         post.CreatedAt.UTC().Format(time.RFC3339),
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to marshal post")
	}
	return b, nil
}
