package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/usecase"
	"github.com/soochi-lab/soochi/pkg/utils/async"
	"github.com/soochi-lab/soochi/pkg/utils/errutil"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
	"github.com/soochi-lab/soochi/pkg/utils/safe"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/batches", s.batchesHandler)
		r.Get("/seen-urls/count", s.seenURLCountHandler)

		r.Route("/runs", func(r chi.Router) {
			r.Post("/publish", s.runHandler("publish", s.uc.Publish))
			r.Post("/subscribe", s.runHandler("subscribe", s.uc.Subscribe))
			r.Post("/process", s.runHandler("process", s.uc.Process))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// batchesHandler lists recorded batch jobs, newest first.
// Optional query parameters: limit caps the result, status restricts it
// to one lifecycle state.
func (s *Server) batchesHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	var jobs []*model.BatchJob
	var err error
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := types.BatchStatus(raw)
		if status.Validate() != nil {
			http.Error(w, "invalid status parameter", http.StatusBadRequest)
			return
		}
		jobs, err = s.uc.ListBatchJobsByStatus(r.Context(), status, limit)
	} else {
		jobs, err = s.uc.ListBatchJobs(r.Context(), limit)
	}
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"batches": jobs})
}

func (s *Server) seenURLCountHandler(w http.ResponseWriter, r *http.Request) {
	count, err := s.uc.CountSeenURLs(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]int{"count": count})
}

// runHandler dispatches a pipeline run in the background and returns
// immediately. Runs can take minutes; callers poll /api/batches for the
// outcome.
func (s *Server) runHandler(name string, run func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		async.Dispatch(r.Context(), func(ctx context.Context) error {
			return run(ctx)
		})

		respondJSON(w, r, http.StatusAccepted, map[string]string{"run": name, "status": "accepted"})
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}
