package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/scenekit/scenekit/internal/engine"
)

// Sessions finds the engine of a running session.
type Sessions interface {
	SessionEngine(id string) (*engine.Engine, bool)
}

type Handler struct {
	sessions Sessions
}

func NewHandler(sessions Sessions) *Handler {
	return &Handler{sessions: sessions}
}

// Measurements serves the measurement report of the session named by the
// sessionId route variable. format is csv (default) or json.
func (h *Handler) Measurements(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		http.Error(w, "invalid format: must be csv or json", http.StatusBadRequest)
		return
	}

	e, ok := h.sessions.SessionEngine(sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	rows, err := report(r.Context(), e)
	if err != nil {
		slog.Error("measurement report", "session", sessionID, "error", err)
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "measurements"
	}
	// Sanitize filename
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rows)
	default:
		w.Header().Set("Content-Type", "text/csv")
		if err := WriteCSV(w, rows); err != nil {
			slog.Error("write csv", "session", sessionID, "error", err)
		}
	}
	slog.Info("export complete", "session", sessionID, "format", format, "rows", len(rows))
}

func report(ctx context.Context, e *engine.Engine) ([]Row, error) {
	var rows []Row
	err := e.Call(ctx, func() {
		rows = Measurements(e.Tree().Root())
	})
	return rows, err
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "type", "quantity", "value"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.ObjectID, row.Name, row.Type, row.Quantity, FormatValue(row.Value)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
