package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/BrianJenney/brian-clone/pkg/usecase"
	"github.com/BrianJenney/brian-clone/pkg/utils/errutil"
	"github.com/BrianJenney/brian-clone/pkg/utils/logging"
)

type chatRequest struct {
	Messages []model.ConversationTurn `json:"messages"`
}

// chatHandler streams the chat pipeline as newline-delimited JSON events.
// Errors before the first event produce a plain 500; errors after that
// produce one terminal error event.
func chatHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "malformed chat request body"), http.StatusInternalServerError)
			return
		}
		if len(req.Messages) == 0 {
			errutil.HandleHTTP(ctx, w, goerr.New("chat request has no messages"), http.StatusInternalServerError)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			errutil.HandleHTTP(ctx, w, goerr.New("streaming unsupported by connection"), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)

		encoder := json.NewEncoder(w)
		emit := func(event types.StreamEvent) error {
			if err := encoder.Encode(event); err != nil {
				return goerr.Wrap(err, "failed to write stream event")
			}
			flusher.Flush()
			return nil
		}

		if err := uc.Chat(ctx, req.Messages, emit); err != nil {
			errutil.Handle(ctx, err, "chat pipeline failed")
			if emitErr := emit(types.NewErrorEvent(err.Error())); emitErr != nil {
				logging.From(ctx).Warn("failed to deliver terminal error event", "error", emitErr)
			}
		}
	}
}
