package exposition

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/prometheus/common/expfmt"
)

// Handler serves the store's current contents on a single metrics path.
// It never triggers a collection.
type Handler struct {
	store *Store
	path  string
}

// NewHandler returns the scrape handler for path (e.g. "/metrics").
func NewHandler(st *Store, path string) *Handler {
	return &Handler{store: st, path: path}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != h.path {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	families := Families(h.store.Snapshot())

	format := expfmt.Negotiate(r.Header)
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			slog.Error("exposition: encode family", "family", mf.GetName(), "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", string(format))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(buf.Bytes())
}
