package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"learnpilot/internal/chatbot"
	"learnpilot/internal/classifier"
	"learnpilot/internal/common"
	"learnpilot/internal/dataset"
	"learnpilot/internal/recommend"
)

// AnalyzeRequest is the /analyze-performance request body.
type AnalyzeRequest struct {
	StudentID  string  `json:"student_id"`
	Subject    string  `json:"subject"`
	QuizScore  float64 `json:"quiz_score"`
	Attendance float64 `json:"attendance"`
}

// AnalyzeResponse is the /analyze-performance response body.
type AnalyzeResponse struct {
	StudentID            string                   `json:"student_id"`
	Subject              string                   `json:"subject"`
	PerformanceLevel     string                   `json:"performance_level"`
	PredictionConfidence float64                  `json:"prediction_confidence"`
	LearningGaps         []classifier.LearningGap `json:"learning_gaps"`
	FeatureImportance    map[string]float64       `json:"feature_importance"`
}

// ChatRequest is the /chatbot request body.
type ChatRequest struct {
	Message        string                  `json:"message"`
	StudentID      string                  `json:"student_id,omitempty"`
	StudentContext *chatbot.StudentContext `json:"student_context,omitempty"`
}

// RecommendationResponse is the /recommendations response body.
type RecommendationResponse struct {
	StudentID       string                     `json:"student_id"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	StudyPlan       recommend.StudyPlan        `json:"study_plan"`
}

// TrainResponse is the /train response body.
type TrainResponse struct {
	Accuracy     float64 `json:"accuracy"`
	ModelTrained bool    `json:"model_trained"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encoding failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.metrics.ErrorsTotal.Inc()
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak internals on generic failures.
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "AI-Powered Personalized Learning Assistant API",
		"version": Version,
		"status":  "running",
		"endpoints": map[string]string{
			"analyze":         "/analyze-performance",
			"recommendations": "/recommendations/{student_id}",
			"chatbot":         "/chatbot",
			"train":           "/train",
			"chat_ws":         "/ws/chat",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"model_trained": s.ModelTrained(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.StudentID == "" || req.Subject == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "student_id and subject are required"})
		return
	}

	model := s.ensureModel()
	if model == nil {
		s.writeError(w, classifier.ErrNotTrained)
		return
	}

	rec := classifier.Record{
		Subject:    req.Subject,
		QuizScore:  req.QuizScore,
		Attendance: req.Attendance,
	}

	start := time.Now()
	prediction, err := model.Predict(rec)
	if err != nil {
		s.metrics.PredictionFailures.Inc()
		s.writeError(w, err)
		return
	}
	s.metrics.PredictionsTotal.Inc()
	s.metrics.PredictionLatency.Observe(time.Since(start).Seconds())
	s.metrics.PredictionConfidence.Observe(prediction.Confidence)

	gaps := classifier.IdentifyGaps(rec)
	s.metrics.GapsDetected.Add(float64(len(gaps)))
	if gaps == nil {
		gaps = []classifier.LearningGap{}
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		StudentID:            req.StudentID,
		Subject:              req.Subject,
		PerformanceLevel:     prediction.PerformanceLevel,
		PredictionConfidence: prediction.Confidence,
		LearningGaps:         gaps,
		FeatureImportance:    prediction.FeatureImportance,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["student_id"]
	q := r.URL.Query()

	subject := q.Get("subject")
	quizScore, quizOK := parseFloatParam(q.Get("quiz_score"))
	attendance, attOK := parseFloatParam(q.Get("attendance"))

	var perf recommend.Performance
	var gaps []classifier.LearningGap

	if subject != "" && quizOK && attOK {
		rec := classifier.Record{Subject: subject, QuizScore: quizScore, Attendance: attendance}

		level := ""
		if model := s.ensureModel(); model != nil {
			prediction, err := model.Predict(rec)
			if err != nil {
				s.writeError(w, err)
				return
			}
			level = prediction.PerformanceLevel
		} else {
			// No model available; the threshold table still gives a level.
			level = classifier.FallbackLevel(quizScore)
		}

		gaps = classifier.IdentifyGaps(rec)
		s.metrics.GapsDetected.Add(float64(len(gaps)))
		perf = recommend.Performance{
			Subject:          subject,
			QuizScore:        quizScore,
			Attendance:       attendance,
			PerformanceLevel: level,
		}
	} else {
		// Demonstration defaults; explicit constants, serving layer only.
		perf = recommend.Performance{
			Subject:          orDefault(subject, common.DefaultSubject),
			QuizScore:        common.DefaultQuizScore,
			Attendance:       common.DefaultAttendance,
			PerformanceLevel: common.DefaultPerformanceLevel,
		}
	}

	recs := s.engine.Generate(perf, gaps)
	plan := s.engine.BuildStudyPlan(studentID, recs, recommend.DefaultPlanWeeks)

	writeJSON(w, http.StatusOK, RecommendationResponse{
		StudentID:       studentID,
		Recommendations: recs,
		StudyPlan:       plan,
	})
}

func (s *Server) handleChatbot(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	sc := req.StudentContext
	if sc == nil && req.StudentID != "" {
		// Identified student without context gets a neutral one.
		sc = &chatbot.StudentContext{
			StudentID:        req.StudentID,
			Subject:          "General",
			PerformanceLevel: common.DefaultPerformanceLevel,
		}
	}

	reply, usedLLM := s.bot.Respond(r.Context(), req.Message, sc)
	s.metrics.ChatMessages.Inc()
	if s.bot.HasLLM() && !usedLLM {
		s.metrics.LLMFallbacks.Inc()
	}

	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleStudentPerformance(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["student_id"]

	rows := s.datasetRows()
	if rows == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "dataset not found"})
		return
	}

	history := dataset.History(rows, studentID)
	if len(history) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "student not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"student_id":          studentID,
		"performance_history": history,
	})
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	accuracy, err := s.TrainFromDataset()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TrainResponse{Accuracy: accuracy, ModelTrained: true})
}

func parseFloatParam(v string) (float64, bool) {
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
