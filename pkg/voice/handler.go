package voice

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type processRequest struct {
	VoiceText string `json:"voiceText"`
	Language  string `json:"language"`
}

type candidateDTO struct {
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Confidence   float64 `json:"confidence"`
	OriginalText string  `json:"originalText"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Example string `json:"example,omitempty"`
}

type Handler struct {
	transcriber Transcriber
}

func NewHandler(transcriber Transcriber) *Handler {
	return &Handler{transcriber: transcriber}
}

// ProcessVoiceInput parses free-form expense text into a structured
// candidate. Unparseable input is a client error, not a server failure.
func (h *Handler) ProcessVoiceInput(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.VoiceText == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{
			Error:   "Missing data",
			Message: "Voice text is required",
		})
		return
	}

	candidate := Parse(req.VoiceText)
	if !candidate.Valid {
		log.Debugf("could not parse expense from voice input: %q", req.VoiceText)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{
			Error:   "Invalid input",
			Message: "Could not parse expense from voice input. Please try again with a clear amount and description.",
			Example: "Add dinner 7300 rupees",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(struct {
		Success bool         `json:"success"`
		Data    candidateDTO `json:"data"`
	}{
		Success: true,
		Data: candidateDTO{
			Amount:       candidate.Amount.InexactFloat64(),
			Description:  candidate.Description,
			Category:     string(candidate.Category),
			Confidence:   candidate.Confidence,
			OriginalText: req.VoiceText,
		},
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// TranscribeAudio is a placeholder until real audio upload lands; the
// mobile client transcribes on-device today.
func (h *Handler) TranscribeAudio(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{
		Success: true,
		Message: "Audio transcription endpoint ready for future implementation",
	})
}
