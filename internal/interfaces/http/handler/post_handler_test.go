package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-author-api/internal/domain/entity"
)

func newPostEngine(posts *memPostRepo) *gin.Engine {
	genSvc := newTestGenerationService(posts, &stubResolver{profile: testProfile()}, &stubComposer{content: "x"})
	h := NewPostHandler(genSvc)

	engine := gin.New()
	v1 := engine.Group("/v1")
	v1.GET("/posts/:pid", h.GetPost)
	v1.GET("/posts/:pid/export", h.ExportPost)
	v1.GET("/owners/:oid/posts", h.ListPosts)
	return engine
}

func seedPost(t *testing.T, posts *memPostRepo) *entity.GeneratedPost {
	t.Helper()
	post := entity.NewGeneratedPost("alice", "a post about tea", entity.PostKindBlog, testProfile(),
		"Tea is best enjoyed slowly.", entity.ExportFormatMarkdown)
	require.NoError(t, posts.Create(context.Background(), post))
	return post
}

func TestPostHandlerGet(t *testing.T) {
	posts := newMemPostRepo()
	engine := newPostEngine(posts)
	post := seedPost(t, posts)

	t.Run("returns post with content", func(t *testing.T) {
		w := perform(t, engine, http.MethodGet, "/v1/posts/"+post.ID+"?owner_id=alice", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Content string `json:"content"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Tea is best enjoyed slowly.", resp.Data.Content)
	})

	t.Run("wrong owner gets 404", func(t *testing.T) {
		w := perform(t, engine, http.MethodGet, "/v1/posts/"+post.ID+"?owner_id=bob", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostHandlerExport(t *testing.T) {
	posts := newMemPostRepo()
	engine := newPostEngine(posts)
	post := seedPost(t, posts)

	t.Run("markdown export carries content type and heading", func(t *testing.T) {
		w := perform(t, engine, http.MethodGet,
			"/v1/posts/"+post.ID+"/export?owner_id=alice&format=markdown", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
		assert.Contains(t, w.Body.String(), "Tea is best enjoyed slowly.")
	})

	t.Run("json export is parseable and stable", func(t *testing.T) {
		w1 := perform(t, engine, http.MethodGet,
			"/v1/posts/"+post.ID+"/export?owner_id=alice&format=json", "")
		require.Equal(t, http.StatusOK, w1.Code)
		assert.Contains(t, w1.Header().Get("Content-Type"), "application/json")

		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(w1.Body.Bytes(), &doc))
		assert.Equal(t, "alice", doc["owner_id"])

		w2 := perform(t, engine, http.MethodGet,
			"/v1/posts/"+post.ID+"/export?owner_id=alice&format=json", "")
		assert.Equal(t, w1.Body.String(), w2.Body.String())
	})

	t.Run("defaults to the post's stored format", func(t *testing.T) {
		w := perform(t, engine, http.MethodGet, "/v1/posts/"+post.ID+"/export?owner_id=alice", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	})

	t.Run("unknown format gets 400", func(t *testing.T) {
		w := perform(t, engine, http.MethodGet,
			"/v1/posts/"+post.ID+"/export?owner_id=alice&format=pdf", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPostHandlerList(t *testing.T) {
	posts := newMemPostRepo()
	engine := newPostEngine(posts)
	seedPost(t, posts)
	seedPost(t, posts)

	w := perform(t, engine, http.MethodGet, "/v1/owners/alice/posts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Posts []struct {
				Content string `json:"content"`
			} `json:"posts"`
		} `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Meta.Total)
	require.Len(t, resp.Data.Posts, 2)
	// 列表不携带正文
	assert.Empty(t, resp.Data.Posts[0].Content)
}
