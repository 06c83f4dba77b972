package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/portfolio"
	"PortfolioSentinel/internal/report"
	"PortfolioSentinel/internal/scheduler"
)

// Server exposes the portfolio and the valuation engine over HTTP.
type Server struct {
	store *portfolio.Store
	sched *scheduler.Scheduler
	http  *http.Server
}

// New builds the server with its router.
func New(addr string, store *portfolio.Store, sched *scheduler.Scheduler) *Server {
	s := &Server{store: store, sched: sched}
	s.http = &http.Server{Addr: addr, Handler: s.router()}
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	// Evaluation paces every provider call, so a full run can take a while.
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/portfolio", s.listPortfolio)
		r.Post("/portfolio", s.addEntry)
		r.Delete("/portfolio/{ticker}", s.removeEntry)
		r.Post("/portfolio/import", s.importCSV)

		r.Post("/evaluate", s.evaluate)
		r.Get("/report", s.latestReport)
		r.Get("/report/csv", s.reportCSV)

		r.Get("/watchlist", s.screen)
	})

	return r
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	log.Printf("[INFO] http server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) listPortfolio(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var entry model.PortfolioEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.Add(entry.Ticker, entry.Shares); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) removeEntry(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if err := s.store.Remove(ticker); err != nil {
		if errors.Is(err, portfolio.ErrNotHeld) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) importCSV(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.ImportCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"imported":  count,
		"portfolio": s.store.Snapshot(),
	})
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	rep, err := s.sched.Evaluate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) latestReport(w http.ResponseWriter, _ *http.Request) {
	rep := s.sched.LastReport()
	if rep == nil {
		writeError(w, http.StatusNotFound, errors.New("no evaluation has run yet"))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) reportCSV(w http.ResponseWriter, _ *http.Request) {
	rep := s.sched.LastReport()
	if rep == nil {
		writeError(w, http.StatusNotFound, errors.New("no evaluation has run yet"))
		return
	}
	data, err := report.CSVBytes(rep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio_report.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[ERROR] write csv response: %v", err)
	}
}

func (s *Server) screen(w http.ResponseWriter, r *http.Request) {
	movers, diags, err := s.sched.Screen(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"movers":      movers,
		"diagnostics": diags,
	})
}
