package api

import (
	"log/slog"
	"net/http"

	"github.com/projecthelena/tictactoe/internal/render"
	"github.com/projecthelena/tictactoe/internal/version"
)

// IndexPage is the data passed to index.html.
type IndexPage struct {
	Title        string
	StaticPrefix string
	Version      string
	Cells        []int
}

type PageHandler struct {
	pages *render.Renderer
}

func NewPageHandler(pages *render.Renderer) *PageHandler {
	return &PageHandler{pages: pages}
}

// Index serves the game page.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := IndexPage{
		Title:        "Tic-Tac-Toe",
		StaticPrefix: "/static",
		Version:      version.Get().Version,
		Cells:        []int{0, 1, 2, 3, 4, 5, 6, 7, 8},
	}

	if err := h.pages.Render(w, http.StatusOK, "index.html", page); err != nil {
		slog.ErrorContext(r.Context(), "failed to render index page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
