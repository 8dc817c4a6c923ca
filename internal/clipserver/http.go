package clipserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/anatolykoptev/go_clip/internal/engine"
	"github.com/anatolykoptev/go_clip/internal/toolutil"
)

const maxBodyBytes = 64 << 10

// NewHandler returns the HTTP API:
//
//	POST /api/generate-clip
//	POST /api/clip-script
//	GET  /healthz
func NewHandler(r Runner) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate-clip", generateClip(r))
	mux.HandleFunc("POST /api/clip-script", clipScript(r))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

func generateClip(r Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var in GenerateClipInput
		if !decodeBody(w, req, &in) {
			return
		}
		videoID := toolutil.ResolveVideoID(in.VideoID, in.YouTubeURL)
		res, err := r.Run(req.Context(), videoID, in.ImageReference)
		if err != nil {
			toolutil.LogFailure("generate-clip", err)
			writeJSON(w, engine.HTTPStatus(engine.KindOf(err)), errorResponse{Error: engine.UserMessage(err)})
			return
		}
		writeJSON(w, http.StatusOK, GenerateClipOutput{Result: res.Content, RunID: res.RunID})
	}
}

func clipScript(r Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var in ClipScriptInput
		if !decodeBody(w, req, &in) {
			return
		}
		script, err := r.Script(req.Context(), toolutil.ResolveVideoID(in.VideoID, in.YouTubeURL))
		if err != nil {
			toolutil.LogFailure("clip-script", err)
			writeJSON(w, scriptStatus(err), errorResponse{Error: toolutil.ScriptMessage(err)})
			return
		}
		writeJSON(w, http.StatusOK, ClipScriptOutput{Script: script})
	}
}

func scriptStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrLLMUnavailable):
		return http.StatusServiceUnavailable
	case engine.KindOf(err) == engine.KindInvalidFormat, errors.Is(err, engine.ErrFetch):
		return engine.HTTPStatus(engine.KindOf(err))
	}
	return http.StatusBadGateway
}

// decodeBody reads a JSON request body into v, answering 400 on failure.
func decodeBody(w http.ResponseWriter, req *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		slog.Debug("bad request body", slog.Any("error", err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", slog.Any("error", err))
	}
}
