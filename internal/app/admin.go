package app

import (
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/ilinovom/profile-match-bot/internal/model"
)

// adminRouter exposes read-only operational endpoints.
func (a *App) adminRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/favorites", a.handleFavorites).Methods(http.MethodGet)
	return r
}

// handleFavorites lists saved favorites. ?limit=N returns the last N.
func (a *App) handleFavorites(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	favs := a.matcher.ListFavorites(r.Context(), limit)
	if favs == nil {
		favs = []*model.FavoriteRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(favs)
}
