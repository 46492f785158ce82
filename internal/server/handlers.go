package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/lamdalabs/chetu/internal/chat"
	"github.com/lamdalabs/chetu/internal/transcribe"
)

// maxRequestBytes bounds request bodies: the 25 MiB audio ceiling after
// base64 inflation plus envelope slack.
const maxRequestBytes = 36 << 20

type chatRequest struct {
	Message string      `json:"message"`
	History []chat.Turn `json:"history"`
}

type transcriptBody struct {
	Text       string            `json:"text"`
	Language   string            `json:"language,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Words      []transcribe.Word `json:"words,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "message is required"})
		return
	}

	reply, err := s.relay.Reply(r.Context(), req.Message, req.History)
	switch {
	case errors.Is(err, chat.ErrOverloaded):
		s.logError("chat relay overloaded", "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, replyBody{Reply: chat.ReplyOverloaded})
	case errors.Is(err, chat.ErrSafetyBlocked):
		s.logInfo("chat reply safety blocked")
		writeJSON(w, http.StatusOK, replyBody{Reply: chat.ReplySafetyBlocked})
	case err != nil:
		s.logError("chat relay failed", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, replyBody{Reply: chat.ReplyGenericFailure})
	default:
		writeJSON(w, http.StatusOK, replyBody{Reply: reply})
	}
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	audio, err := extractAudio(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "no audio payload found", Details: err.Error()})
		return
	}

	start := time.Now()
	result, err := s.transcriber.Submit(r.Context(), audio)
	if err != nil {
		kind := transcribe.KindOf(err)
		if transcribe.IsValidation(err) {
			writeJSON(w, http.StatusBadRequest, errorBody{
				Error:   "audio rejected",
				Details: s.errorDetails(kind, err),
			})
			return
		}
		s.logError("transcription failed",
			"kind", string(kind),
			"bytes", len(audio),
			"elapsed", time.Since(start).String(),
			"error", err.Error(),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Sorry, there was a problem transcribing the audio.",
			Details: s.errorDetails(kind, err),
		})
		return
	}

	s.logInfo("transcription completed",
		"bytes", len(audio),
		"elapsed", time.Since(start).String(),
		"language", result.Language,
	)
	writeJSON(w, http.StatusOK, transcriptBody{
		Text:       result.Text,
		Language:   result.Language,
		Confidence: result.Confidence,
		Words:      result.Words,
	})
}

func (s *Server) handleGreeting(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, replyBody{Reply: chat.WelcomeMessage})
}

// errorDetails keeps raw failure detail server-side unless the debug flag
// opted in; the kind label alone is always safe to return.
func (s *Server) errorDetails(kind transcribe.Kind, err error) string {
	if s.exposeErrorDetails {
		return fmt.Sprintf("%s: %v", kind, err)
	}
	return string(kind)
}

// extractAudio pulls audio bytes out of any of the three accepted request
// encodings: multipart form field, JSON base64 (optionally a data URL), or a
// raw binary body.
func extractAudio(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch {
	case mediaType == "multipart/form-data":
		file, _, err := r.FormFile("audio")
		if err != nil {
			return nil, fmt.Errorf("multipart field %q: %w", "audio", err)
		}
		defer file.Close()
		audio, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("read multipart audio: %w", err)
		}
		return nonEmpty(audio)

	case mediaType == "application/json":
		var body struct {
			Audio string `json:"audio"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode JSON body: %w", err)
		}
		encoded := body.Audio
		if idx := strings.Index(encoded, "base64,"); strings.HasPrefix(encoded, "data:") && idx >= 0 {
			encoded = encoded[idx+len("base64,"):]
		}
		audio, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode base64 audio: %w", err)
		}
		return nonEmpty(audio)

	default:
		audio, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		return nonEmpty(audio)
	}
}

func nonEmpty(audio []byte) ([]byte, error) {
	if len(audio) == 0 {
		return nil, errors.New("audio payload is empty")
	}
	return audio, nil
}
