package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"learnpilot/internal/chatbot"
	"learnpilot/internal/common"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // same trust model as the REST chat endpoint
	},
}

// handleChatWS runs an interactive chat session over a WebSocket.
// Each client message is a ChatRequest; each reply mirrors the
// /chatbot response body.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := chatUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("chat session opened")

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("chat session read failed")
			}
			return
		}

		if req.Message == "" {
			if err := conn.WriteJSON(map[string]string{"error": "message is required"}); err != nil {
				return
			}
			continue
		}

		sc := req.StudentContext
		if sc == nil && req.StudentID != "" {
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

		if err := conn.WriteJSON(reply); err != nil {
			log.Warn().Err(err).Msg("chat session write failed")
			return
		}
	}
}
