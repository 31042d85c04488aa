package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unicollab/study-api/internal/service"
	appErrors "github.com/unicollab/study-api/pkg/errors"
	"github.com/unicollab/study-api/pkg/response"
)

// LeaderboardHandler exposes tournament score endpoints.
type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
}

// NewLeaderboardHandler constructs handler.
func NewLeaderboardHandler(leaderboard *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// SubmitScore godoc
// @Summary Record a quiz score with streak bonus
// @Tags Leaderboard
// @Accept json
// @Produce json
// @Param payload body service.SubmitScoreRequest true "Score payload"
// @Success 200 {object} models.LeaderboardEntry
// @Router /leaderboard/score [post]
func (h *LeaderboardHandler) SubmitScore(c *gin.Context) {
	var req service.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.leaderboard.SubmitScore(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry)
}

// Top godoc
// @Summary List the top leaderboard entries
// @Tags Leaderboard
// @Produce json
// @Success 200 {array} models.LeaderboardEntry
// @Router /leaderboard [get]
func (h *LeaderboardHandler) Top(c *gin.Context) {
	entries, err := h.leaderboard.Top(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}
