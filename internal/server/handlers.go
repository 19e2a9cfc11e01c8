package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sikfilm/site/internal/metrics"
	"github.com/sikfilm/site/internal/models"
	"github.com/sikfilm/site/internal/sitemap"
	"github.com/sikfilm/site/internal/storage"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListPosts returns the latest ?limit posts, or all of them without a limit.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	var (
		posts []*models.Post
		err   error
	)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, convErr := strconv.Atoi(raw)
		if convErr != nil || limit < 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		posts, err = s.repo.Latest(limit)
	} else {
		posts, err = s.repo.ListAll()
	}
	if err != nil {
		s.logger.Error("list posts failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, posts)
}

func (s *Server) handleListSlugs(w http.ResponseWriter, r *http.Request) {
	slugs, err := s.repo.ListSlugs()
	if err != nil {
		s.logger.Error("list slugs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, slugs)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.lookup(w, r)
	if !ok {
		return
	}
	related, err := s.repo.Related(&detail.Post, s.config.Content.RelatedLimit)
	if err != nil {
		s.logger.Error("related posts failed", zap.String("slug", detail.Slug), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	detail.Related = related
	if s.counter != nil {
		views, err := s.counter.Views(r.Context(), detail.ID)
		if err != nil {
			s.logger.Warn("read views failed", zap.String("slug", detail.Slug), zap.Error(err))
		} else {
			detail.Views = views[0]
		}
	}
	s.respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleIncrementViews(w http.ResponseWriter, r *http.Request) {
	if !s.countersEnabled(w) {
		return
	}
	detail, ok := s.lookup(w, r)
	if !ok {
		return
	}
	views, err := s.counter.IncrementViews(r.Context(), detail.ID)
	if err != nil {
		s.logger.Error("increment views failed", zap.String("slug", detail.Slug), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.TrackView()
	s.respondJSON(w, http.StatusOK, map[string]int64{"views": views})
}

func (s *Server) handleGetReactions(w http.ResponseWriter, r *http.Request) {
	if !s.countersEnabled(w) {
		return
	}
	detail, ok := s.lookup(w, r)
	if !ok {
		return
	}
	counts, err := s.counter.Reactions(r.Context(), detail.ID)
	if err != nil {
		s.logger.Error("read reactions failed", zap.String("slug", detail.Slug), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string][]int64{"reactions": counts})
}

func (s *Server) handleAddReaction(w http.ResponseWriter, r *http.Request) {
	if !s.countersEnabled(w) {
		return
	}
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	detail, ok := s.lookup(w, r)
	if !ok {
		return
	}
	counts, err := s.counter.AddReaction(r.Context(), detail.ID, index)
	if errors.Is(err, storage.ErrInvalidReaction) {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("add reaction failed", zap.String("slug", detail.Slug), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.TrackReaction(index)
	s.respondJSON(w, http.StatusOK, map[string][]int64{"reactions": counts})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.SearchQuery{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: q.Get("category"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		query.Limit = limit
	}
	if query.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query cannot be empty")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.config.Site)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	slugs, err := s.repo.ListSlugs()
	if err != nil {
		s.logger.Error("sitemap: list slugs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	set, err := sitemap.Build(s.config.Site.URL, slugs, s.now())
	if err != nil {
		s.logger.Error("sitemap: build failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := sitemap.Write(w, set); err != nil {
		s.logger.Warn("sitemap: write failed", zap.Error(err))
	}
}

// lookup resolves the {slug} URL parameter, writing a 404 when absent.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*models.PostDetail, bool) {
	slug := chi.URLParam(r, "slug")
	detail, found, err := s.repo.GetBySlug(slug)
	if err != nil {
		s.logger.Error("get post failed", zap.String("slug", slug), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if !found {
		s.respondError(w, http.StatusNotFound, "post not found")
		return nil, false
	}
	return detail, true
}

func (s *Server) countersEnabled(w http.ResponseWriter) bool {
	if s.counter == nil {
		s.respondError(w, http.StatusServiceUnavailable, "counters not configured")
		return false
	}
	return true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
