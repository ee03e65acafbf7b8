package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"agm-voting/internal/domain/meeting"
	"agm-voting/internal/domain/operator"
	"agm-voting/internal/domain/resolution"
	"agm-voting/internal/domain/shareholder"
	"agm-voting/internal/domain/tally"
	"agm-voting/internal/domain/vote"
	jwtpkg "agm-voting/internal/platform/jwt"
	"agm-voting/internal/worker"
)

type Handler struct {
	operatorSvc    *operator.Service
	meetingSvc     *meeting.Service
	shareholderSvc *shareholder.Service
	resolutionSvc  *resolution.Service
	voteSvc        *vote.Service
	engine         *tally.Engine
	jwtMgr         *jwtpkg.Manager
	voteCh         chan<- worker.VoteEvent
	db             *sql.DB
}

func NewRouter(
	operatorSvc *operator.Service,
	meetingSvc *meeting.Service,
	shareholderSvc *shareholder.Service,
	resolutionSvc *resolution.Service,
	voteSvc *vote.Service,
	engine *tally.Engine,
	jwtMgr *jwtpkg.Manager,
	voteCh chan<- worker.VoteEvent,
	db *sql.DB,
) http.Handler {
	h := &Handler{
		operatorSvc:    operatorSvc,
		meetingSvc:     meetingSvc,
		shareholderSvc: shareholderSvc,
		resolutionSvc:  resolutionSvc,
		voteSvc:        voteSvc,
		engine:         engine,
		jwtMgr:         jwtMgr,
		voteCh:         voteCh,
		db:             db,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtMgr))

			r.Get("/meetings", h.handleListMeetings)
			r.Get("/meetings/{id}", h.handleGetMeeting)
			r.Get("/meetings/{id}/resolutions", h.handleListResolutions)
			r.Get("/meetings/{id}/voting-statistics", h.handleMeetingVotingStatistics)

			r.Get("/resolutions/{id}", h.handleGetResolution)
			r.Get("/resolutions/{id}/options", h.handleListOptions)
			r.Get("/resolutions/{id}/candidates", h.handleListCandidates)
			r.Get("/resolutions/{id}/statistics", h.handleResolutionStatistics)
			r.Get("/resolutions/{id}/voting-results", h.handleVotingResults)
			r.Get("/resolutions/{id}/votes/export", h.handleExportVotes)

			r.With(RateLimitVotes(rate.Every(time.Minute/20), 5)).Post("/votes", h.handleCastVote)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(operator.RoleAdmin))

				r.Post("/meetings", h.handleCreateMeeting)
				r.Patch("/meetings/{id}", h.handleUpdateMeeting)
				r.Delete("/meetings/{id}", h.handleDeleteMeeting)

				r.Post("/meetings/{id}/resolutions", h.handleCreateResolution)
				r.Patch("/resolutions/{id}", h.handleUpdateResolution)
				r.Patch("/resolutions/{id}/status", h.handleUpdateResolutionStatus)
				r.Delete("/resolutions/{id}", h.handleDeleteResolution)

				r.Post("/resolutions/{id}/options", h.handleCreateOption)
				r.Post("/resolutions/{id}/candidates", h.handleCreateCandidate)
				r.Delete("/options/{id}", h.handleDeleteOption)
				r.Delete("/candidates/{id}", h.handleDeleteCandidate)

				r.Post("/meetings/{id}/shareholders", h.handleCreateShareholder)
				r.Get("/meetings/{id}/shareholders", h.handleListShareholders)
				r.Patch("/shareholders/{id}", h.handleUpdateShareholder)
				r.Delete("/shareholders/{id}", h.handleDeleteShareholder)

				r.Delete("/votes/{id}", h.handleDeleteVote)

				r.Get("/operators", h.handleListOperators)
				r.Patch("/operators/{id}/role", h.handleUpdateOperatorRole)
				r.Patch("/operators/{id}/deactivate", h.handleDeactivateOperator)
			})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	return strconv.ParseInt(idStr, 10, 64)
}

func parseTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
