package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"clawtown-server/internal/config"
	"clawtown-server/internal/engine"
	"clawtown-server/internal/version"
	"clawtown-server/pkg/api"
	"clawtown-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

type Server struct {
	Engine *engine.GameService
	Config config.Config

	log *logrus.Entry
}

func New(engine *engine.GameService, cfg config.Config) *Server {
	return &Server{
		Engine: engine,
		Config: cfg,
		log:    logger.Component("http"),
	}
}

// Handler собирает все маршруты. Отдельно от Run, чтобы тесты шли через httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/version", s.handleVersion)
	mux.HandleFunc("GET /api/schema/frames", s.handleSchema)

	mux.HandleFunc("POST /api/players/ensure", s.handleEnsurePlayer)
	mux.HandleFunc("POST /api/join-codes", s.handleJoinCode)
	mux.HandleFunc("POST /api/bot/link", s.handleLink)

	NewBotHandler(s).RegisterRoutes(mux)
	if s.Config.Server.TestMode {
		NewDebugHandler(s.Engine).RegisterRoutes(mux)
		s.log.Warn("Debug routes enabled (CT_TEST=1).")
	}

	return recoverer(enableCORS(mux))
}

// Run слушает адрес до отмены ctx, затем мягко закрывает соединения.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"base_url": s.Config.BaseURL(),
		}).Info("Clawtown server listening.")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Клиент города и боты ходят с любых источников
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverer не дает панике в обработчике уронить соединение без ответа.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Log.WithFields(logrus.Fields{
					"path":  r.URL.Path,
					"panic": rec,
				}).Error("Handler panicked.")
				writeError(w, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, api.OKResponse{OK: true})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeOK(w, version.Current())
}

func (s *Server) handleEnsurePlayer(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[api.EnsurePlayerRequest](w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	player, err := s.Engine.EnsurePlayer(req.PlayerID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, api.PlayerResponse{OK: true, Player: player})
}
