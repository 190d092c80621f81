package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-author-api/internal/domain/entity"
	apperrors "ai-author-api/pkg/errors"
)

func testPost() *entity.GeneratedPost {
	return &entity.GeneratedPost{
		ID:                "post-1",
		OwnerID:           "alice",
		Brief:             "write about autumn mornings",
		Kind:              entity.PostKindBlog,
		ProfileSnapshotID: "profile-1",
		ProfileSummary:    "calm, descriptive",
		Content:           "The mist settles over the fields before sunrise.",
		Format:            entity.ExportFormatMarkdown,
		WordCount:         8,
		GenerationMetadata: &entity.GenerationMetadata{
			Provider: "groq",
			Model:    "llama-3.3-70b",
		},
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestExportMarkdown(t *testing.T) {
	t.Run("adds title from brief", func(t *testing.T) {
		out, err := Export(testPost(), entity.ExportFormatMarkdown)
		require.NoError(t, err)
		s := string(out)
		assert.Contains(t, s, "# write about autumn mornings")
		assert.Contains(t, s, "The mist settles")
		assert.Contains(t, s, "Words: 8")
		assert.Contains(t, s, "llama-3.3-70b")
	})

	t.Run("keeps existing heading", func(t *testing.T) {
		post := testPost()
		post.Content = "# My Own Title\n\nBody text."
		out, err := Export(post, entity.ExportFormatMarkdown)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "# write about autumn mornings")
		assert.Contains(t, string(out), "# My Own Title")
	})

	t.Run("deterministic output", func(t *testing.T) {
		first, err := Export(testPost(), entity.ExportFormatMarkdown)
		require.NoError(t, err)
		second, err := Export(testPost(), entity.ExportFormatMarkdown)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestExportJSON(t *testing.T) {
	t.Run("stable fields", func(t *testing.T) {
		out, err := Export(testPost(), entity.ExportFormatJSON)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out, &decoded))
		assert.Equal(t, "post-1", decoded["id"])
		assert.Equal(t, "alice", decoded["owner_id"])
		assert.Equal(t, "profile-1", decoded["profile_snapshot_id"])
		assert.Equal(t, "The mist settles over the fields before sunrise.", decoded["content"])
		assert.Equal(t, "2026-03-14T09:30:00Z", decoded["created_at"])
	})

	t.Run("deterministic output", func(t *testing.T) {
		first, err := Export(testPost(), entity.ExportFormatJSON)
		require.NoError(t, err)
		second, err := Export(testPost(), entity.ExportFormatJSON)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := Export(testPost(), "pdf")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnsupportedFormat))

	_, err = Export(testPost(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnsupportedFormat))
}
