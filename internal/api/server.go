// Package api provides the HTTP serving layer for the learning
// assistant: performance analysis, recommendations, chatbot, student
// history, and retraining endpoints, plus a WebSocket chat stream.
//
// The serving layer owns the current model handle and swaps it
// atomically on retrain; the classifier itself only exchanges
// immutable model values. Core errors are translated to transport
// codes here and nowhere else.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"learnpilot/internal/cfg"
	"learnpilot/internal/chatbot"
	"learnpilot/internal/classifier"
	"learnpilot/internal/dataset"
	"learnpilot/internal/metrics"
	"learnpilot/internal/modelstore"
	"learnpilot/internal/recommend"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Server is the HTTP API server.
type Server struct {
	cfg     cfg.Settings
	store   *modelstore.Store // may be nil when persistence is disabled
	bot     *chatbot.Bot
	engine  *recommend.Engine
	metrics *metrics.Metrics
	server  *http.Server

	mu    sync.RWMutex
	model *classifier.Model
	rows  []dataset.Row
}

// New wires the server and its routes.
func New(c cfg.Settings, store *modelstore.Store, bot *chatbot.Bot, engine *recommend.Engine, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:     c,
		store:   store,
		bot:     bot,
		engine:  engine,
		metrics: m,
	}

	r := mux.NewRouter()
	r.Use(s.countRequests)
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/analyze-performance", s.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/recommendations/{student_id}", s.handleRecommendations).Methods(http.MethodGet)
	r.HandleFunc("/chatbot", s.handleChatbot).Methods(http.MethodPost)
	r.HandleFunc("/students/{student_id}/performance", s.handleStudentPerformance).Methods(http.MethodGet)
	r.HandleFunc("/train", s.handleTrain).Methods(http.MethodPost)
	r.HandleFunc("/ws/chat", s.handleChatWS)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", c.ServerPort),
		Handler:      r,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.HTTPRequests.Inc()
		next.ServeHTTP(w, r)
	})
}

// SetModel swaps the served model.
func (s *Server) SetModel(m *classifier.Model) {
	s.mu.Lock()
	s.model = m
	s.mu.Unlock()
}

func (s *Server) currentModel() *classifier.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// ModelTrained reports whether a model is currently served.
func (s *Server) ModelTrained() bool {
	return s.currentModel() != nil
}

// LoadSavedModel restores the persisted bundle, if any, and serves it.
func (s *Server) LoadSavedModel() error {
	if s.store == nil {
		return &modelstore.ModelNotFoundError{Name: s.cfg.ModelName}
	}
	bundle, err := s.store.Load(s.cfg.ModelName)
	if err != nil {
		return err
	}
	model, err := classifier.DecodeBundle(bundle)
	if err != nil {
		return err
	}
	s.SetModel(model)
	s.metrics.ModelAccuracy.Set(model.Accuracy())
	s.metrics.ModelAge.Set(time.Since(model.TrainedAt()).Seconds())
	log.Info().Str("model", s.cfg.ModelName).Float64("accuracy", model.Accuracy()).Msg("model loaded from store")
	return nil
}

// TrainFromDataset trains a fresh model from the configured dataset,
// persists it, and swaps the served handle. Returns the held-out
// accuracy.
func (s *Server) TrainFromDataset() (float64, error) {
	rows, err := dataset.Load(s.cfg.DatasetPath)
	if err != nil {
		return 0, &classifier.TrainingError{Reason: err.Error()}
	}

	opts := classifier.Options{
		Seed:         s.cfg.Seed,
		Trees:        s.cfg.Trees,
		MaxDepth:     s.cfg.MaxDepth,
		TestFraction: s.cfg.TestFraction,
	}

	start := time.Now()
	model, accuracy, err := classifier.Train(dataset.Training(rows), opts)
	if err != nil {
		s.metrics.ErrorsTotal.Inc()
		return 0, err
	}
	s.metrics.TrainingsTotal.Inc()
	s.metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	s.metrics.ModelAccuracy.Set(accuracy)
	s.metrics.ModelAge.Set(0)

	if s.store != nil {
		bundle, err := model.EncodeBundle()
		if err != nil {
			return 0, err
		}
		if err := s.store.Save(s.cfg.ModelName, bundle); err != nil {
			log.Warn().Err(err).Msg("model trained but persistence failed")
		}
	}

	s.mu.Lock()
	s.model = model
	s.rows = rows
	s.mu.Unlock()

	log.Info().Int("rows", len(rows)).Float64("accuracy", accuracy).Dur("took", time.Since(start)).Msg("model trained")
	return accuracy, nil
}

// ensureModel lazily trains when no model is served yet, matching the
// train-on-first-request behavior of startup failure scenarios.
func (s *Server) ensureModel() *classifier.Model {
	if m := s.currentModel(); m != nil {
		return m
	}
	if _, err := s.TrainFromDataset(); err != nil {
		log.Warn().Err(err).Msg("lazy training failed")
		return nil
	}
	return s.currentModel()
}

func (s *Server) datasetRows() []dataset.Row {
	s.mu.RLock()
	rows := s.rows
	s.mu.RUnlock()
	if rows != nil {
		return rows
	}

	loaded, err := dataset.Load(s.cfg.DatasetPath)
	if err != nil {
		log.Warn().Err(err).Msg("dataset unavailable")
		return nil
	}
	s.mu.Lock()
	s.rows = loaded
	s.mu.Unlock()
	return loaded
}

// statusForError maps core errors onto transport codes. Everything
// unrecognized becomes a generic server error.
func statusForError(err error) int {
	var unknownCategory *classifier.UnknownCategoryError
	var missingFeature *classifier.MissingFeatureError
	var trainingErr *classifier.TrainingError
	var notFound *modelstore.ModelNotFoundError

	switch {
	case errors.As(err, &unknownCategory), errors.As(err, &missingFeature):
		return http.StatusUnprocessableEntity
	case errors.Is(err, classifier.ErrNotTrained), errors.As(err, &notFound):
		return http.StatusServiceUnavailable
	case errors.As(err, &trainingErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
