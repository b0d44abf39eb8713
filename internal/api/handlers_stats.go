package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"
)

const maxStatsBody = 1 << 20

// GetGameStats returns placeholder statistics. The counters are not backed
// by storage and are always zero.
// @Summary      Get game stats
// @Tags         stats
// @Produce      json
// @Success      200  {object} GameStatsResponse
// @Router       /game-stats [get]
func GetGameStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GameStatsResponse{
		Message: "Game stats endpoint - ready for implementation",
		Stats:   GameStats{},
	})
}

// SaveStats echoes the posted JSON document back under saved_stats.
// Nothing is stored.
// @Summary      Save game stats
// @Tags         stats
// @Accept       json
// @Produce      json
// @Param        stats body     object true "Arbitrary stats document"
// @Success      200   {object} SaveStatsResponse
// @Failure      400   {object} ErrorResponse
// @Failure      413   {object} ErrorResponse
// @Failure      415   {object} ErrorResponse
// @Router       /save-stats [post]
func SaveStats(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		slog.DebugContext(r.Context(), "save-stats rejected content type",
			"content_type", sanitizeLog(r.Header.Get("Content-Type")))
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxStatsBody))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || !utf8.Valid(body) || !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	writeJSON(w, http.StatusOK, SaveStatsResponse{
		Message:    "Stats saved successfully",
		SavedStats: json.RawMessage(body),
	})
}

// isJSONContentType accepts application/json and application/*+json.
func isJSONContentType(value string) bool {
	if value == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	if mediaType == "application/json" {
		return true
	}
	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")
}
