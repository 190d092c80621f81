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
	apperrors "ai-author-api/pkg/errors"
)

func newProfileEngine(samples *memSampleRepo, profiles *memProfileRepo) *gin.Engine {
	h := NewProfileHandler(newTestProfileService(samples, profiles))

	engine := gin.New()
	v1 := engine.Group("/v1")
	v1.POST("/owners/:oid/profile/compute", h.ComputeProfile)
	v1.GET("/owners/:oid/profile", h.GetProfile)
	return engine
}

func seedSamples(t *testing.T, repo *memSampleRepo, ownerID string, texts ...string) {
	t.Helper()
	for i, text := range texts {
		smp := entity.NewSample(ownerID, text)
		smp.ID = "sample-" + string(rune('a'+i))
		require.NoError(t, repo.Create(context.Background(), smp))
	}
}

func TestProfileHandlerCompute(t *testing.T) {
	t.Run("derives profile from samples", func(t *testing.T) {
		samples := newMemSampleRepo()
		profiles := newMemProfileRepo()
		engine := newProfileEngine(samples, profiles)
		seedSamples(t, samples, "alice",
			"The mountain air was thin and cold.",
			"The mountain path wound upward for hours.")

		w := perform(t, engine, http.MethodPost, "/v1/owners/alice/profile/compute", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				ID          string  `json:"id"`
				SampleCount int     `json:"sample_count"`
				AvgLength   float64 `json:"avg_length_words"`
				Summary     string  `json:"summary_text"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Data.ID)
		assert.Equal(t, 2, resp.Data.SampleCount)
		assert.Equal(t, 7.0, resp.Data.AvgLength)
		assert.NotEmpty(t, resp.Data.Summary)
		assert.NotNil(t, profiles.byOwner["alice"])
	})

	t.Run("no samples yields 422", func(t *testing.T) {
		engine := newProfileEngine(newMemSampleRepo(), newMemProfileRepo())

		w := perform(t, engine, http.MethodPost, "/v1/owners/alice/profile/compute", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp struct {
			ErrCode string `json:"error_code"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(apperrors.CodeInsufficientData), resp.ErrCode)
	})
}

func TestProfileHandlerGet(t *testing.T) {
	t.Run("returns stored profile", func(t *testing.T) {
		samples := newMemSampleRepo()
		profiles := newMemProfileRepo()
		engine := newProfileEngine(samples, profiles)
		require.NoError(t, profiles.Upsert(context.Background(), testProfile()))

		w := perform(t, engine, http.MethodGet, "/v1/owners/alice/profile", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "profile-1", resp.Data.ID)
	})

	t.Run("missing profile gets 404", func(t *testing.T) {
		engine := newProfileEngine(newMemSampleRepo(), newMemProfileRepo())
		w := perform(t, engine, http.MethodGet, "/v1/owners/alice/profile", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
