package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/society/internal/apperr"
	"github.com/dukerupert/society/internal/events"
)

// maxBodyBytes bounds request bodies; expenditure attachments travel inline.
const maxBodyBytes = 10 << 20

// base carries what every resource handler shares.
type base struct {
	feed   events.Broadcaster
	logger *slog.Logger
	limit  int
	now    func() time.Time
}

func newBase(feed events.Broadcaster, limit int, logger *slog.Logger) base {
	if feed == nil {
		feed = events.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return base{feed: feed, logger: logger, limit: limit, now: time.Now}
}

func (b *base) today() time.Time {
	return b.now().UTC()
}

func (b *base) publish(entity, action, id string, extra map[string]any) {
	b.feed.Broadcast(events.NewMessage(entity, action, id, extra))
}

// fail writes err as {"error", "kind"}. Store failures are logged with their
// cause; the client only sees the message.
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		b.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": apperr.Message(err), "kind": string(kind)})
}

func (b *base) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("request body too large")
		}
		return apperr.Validation("invalid JSON: %v", err)
	}
	return nil
}

func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDeleted(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": what + " deleted successfully"})
}
