package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hupe1980/dialogkit/core"
)

// fallbackResponse answers turns that produced no handler reply.
const fallbackResponse = "I'm not sure I understand. Could you rephrase that?"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   s.cfg.Version,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, validationDetail(err))
		return
	}

	if s.limiter != nil && !s.limiter.allow(req.UserID+":"+clientIP(r)) {
		s.writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	utt := core.NewUtterance(req.Message, req.UserID)
	utt.SessionID = sessionID
	utt.Channel = "web"
	utt.Metadata = req.Metadata

	// Serialize the user's turns so concurrent requests cannot
	// interleave their context updates.
	release := s.users.lock(req.UserID)
	if s.contexts != nil && len(req.Context) > 0 {
		s.contexts.Update(req.UserID, req.Context, true)
	}
	result, err := s.pipeline.ProcessUtterance(r.Context(), utt)
	release()

	if err != nil {
		if errors.Is(err, core.ErrRateLimited) {
			s.writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		if _, ok := core.AsSafetyError(err); ok {
			s.writeError(w, http.StatusBadRequest, "Message content violates safety policies")
			return
		}

		s.logger.Error("chat request failed", "user_id", req.UserID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "An error occurred processing your request")
		return
	}

	text := fallbackResponse
	var suggestions []string
	var metadata map[string]any
	if result.Reply != nil {
		text = result.Reply.Text
		suggestions = result.Reply.Suggestions
		metadata = result.Reply.Metadata
	}

	s.writeJSON(w, http.StatusOK, ChatResponse{
		Response: text,
		Intent: ChatIntent{
			Name:       result.Intent,
			Confidence: result.Confidence,
			Entities:   result.Entities,
		},
		Entities:    result.Entities,
		SessionID:   sessionID,
		Confidence:  result.Confidence,
		Suggestions: suggestions,
		Metadata:    metadata,
	})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if s.memory == nil {
		s.writeError(w, http.StatusNotFound, "Session memory is not enabled")
		return
	}

	messages, err := s.memory.History(r.Context(), sessionID, 0)
	if err != nil {
		s.logger.Error("conversation lookup failed", "session_id", sessionID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error retrieving conversation history")
		return
	}
	if messages == nil {
		messages = []core.Message{}
	}

	s.writeJSON(w, http.StatusOK, ConversationResponse{
		SessionID:    sessionID,
		Messages:     messages,
		MessageCount: len(messages),
	})
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if s.memory == nil {
		s.writeError(w, http.StatusNotFound, "Session memory is not enabled")
		return
	}

	if err := s.memory.Clear(r.Context(), sessionID); err != nil {
		s.logger.Error("conversation clear failed", "session_id", sessionID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error clearing conversation")
		return
	}

	s.writeJSON(w, http.StatusOK, ClearResponse{
		Message:   "Conversation cleared successfully",
		SessionID: sessionID,
	})
}

func (s *Server) handleUserHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if s.recorder == nil {
		s.writeError(w, http.StatusNotFound, "Long-term memory is not enabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := s.recorder.UserHistory(r.Context(), userID, limit)
	if err != nil {
		s.logger.Error("user history lookup failed", "user_id", userID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error retrieving user history")
		return
	}
	if records == nil {
		records = []core.Record{}
	}

	s.writeJSON(w, http.StatusOK, UserHistoryResponse{
		UserID:  userID,
		History: records,
		Count:   len(records),
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, _ *http.Request) {
	report := s.harness.Run(s.classifier, s.extractor)

	s.writeJSON(w, http.StatusOK, EvaluationResponse{
		Status:  "completed",
		Results: report,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, ErrorResponse{Detail: detail})
}

// validationDetail renders the first field failure of a validation
// error.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Sprintf("%s is a required field", fe.Field())
		}
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	return "invalid request"
}
