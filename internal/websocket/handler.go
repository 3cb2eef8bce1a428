package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/society/internal/events"
)

// HandleWebSocket upgrades the request and streams change messages to it.
// The optional entities query parameter ("payment,house") narrows the feed.
// origins follows the CORS configuration; "*" accepts any origin.
func HandleWebSocket(hub *Hub, origins []string, logger *slog.Logger) http.HandlerFunc {
	opts := &ws.AcceptOptions{}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = originHosts(origins)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		entities, bad := parseEntities(r.URL.Query().Get("entities"))
		if bad != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "unknown entity " + bad,
				"kind":  "validation",
			})
			return
		}

		conn, err := ws.Accept(w, r, opts)
		if err != nil {
			logger.Warn("websocket accept failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		NewClient(hub, conn, entities).Run(r.Context())
	}
}

// parseEntities splits a comma list and returns the first unknown name, if any.
func parseEntities(raw string) ([]string, string) {
	var out []string
	for _, e := range strings.Split(raw, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !slices.Contains(events.Entities, e) {
			return nil, e
		}
		out = append(out, e)
	}
	return out, ""
}

// originHosts converts CORS origins ("https://app.example") to the host
// patterns the accept check matches against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
			continue
		}
		hosts = append(hosts, o)
	}
	return hosts
}
