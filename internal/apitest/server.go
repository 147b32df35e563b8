// Package apitest provides an in-process fake of the entry/exit REST service
// for tests. It stores records in sqlite and answers with the same envelopes
// and messages the real service uses.
package apitest

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"entrylog/internal/api"
)

const (
	MsgInvalidType   = "தவறான பதிவு வகை"
	MsgEntryRecorded = "நுழைவு வெற்றிகரமாக பதிவு செய்யப்பட்டது"
	MsgExitRecorded  = "வெளியேறு வெற்றிகரமாக பதிவு செய்யப்பட்டது"
	MsgDeleted       = "பதிவு நீக்கப்பட்டது"
	MsgCleared       = "அனைத்து பதிவுகளும் அழிக்கப்பட்டன"
)

type Server struct {
	store *Store

	// Now stamps new entries. Tests replace it to control durations.
	Now func() time.Time

	mu   sync.Mutex
	hits map[string]int
}

func NewServer(store *Store) *Server {
	return &Server{
		store: store,
		Now:   time.Now,
		hits:  make(map[string]int),
	}
}

// Start runs a fake service backed by a sqlite file in t's temp dir and
// shuts it down when the test ends.
func Start(t testing.TB) (*Server, *httptest.Server) {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "entries.db"))
	if err != nil {
		t.Fatalf("apitest: %v", err)
	}
	srv := NewServer(store)
	ts := httptest.NewServer(srv.Router())

	t.Cleanup(func() {
		ts.Close()
		store.Close()
	})
	return srv, ts
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.count)

	r.HandleFunc("/api/entry", s.addEntry).Methods(http.MethodPost)
	r.HandleFunc("/api/entries", s.getEntries).Methods(http.MethodGet)
	r.HandleFunc("/api/entries/{id:[0-9]+}", s.deleteEntry).Methods(http.MethodDelete)
	r.HandleFunc("/api/stats", s.getStats).Methods(http.MethodGet)
	r.HandleFunc("/api/clear", s.clearAll).Methods(http.MethodPost)

	return r
}

// Hits returns how many requests reached "METHOD path".
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var req api.NewEntry
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, api.Response{Message: err.Error()})
		return
	}

	if req.Type != api.TypeEntry && req.Type != api.TypeExit {
		writeJSON(w, http.StatusBadRequest, api.Response{Message: MsgInvalidType})
		return
	}
	if req.PersonName == "" {
		req.PersonName = "Unknown"
	}

	entry, err := s.store.Create(req, s.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, api.Response{Message: err.Error()})
		return
	}

	msg := MsgEntryRecorded
	if entry.Type == api.TypeExit {
		msg = MsgExitRecorded
	}
	writeJSON(w, http.StatusOK, api.Response{Success: true, Message: msg, Entry: &entry})
}

func (s *Server) getEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.All()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, api.Response{Message: err.Error()})
		return
	}

	// entries is never nil, so an empty store still sends "entries": []
	writeJSON(w, http.StatusOK, struct {
		Success bool        `json:"success"`
		Entries []api.Entry `json:"entries"`
	}{true, entries})
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, api.Response{Message: err.Error()})
		return
	}

	if err := s.store.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, api.Response{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, api.Response{Success: true, Message: MsgDeleted})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.All()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, api.Response{Message: err.Error()})
		return
	}

	stats, err := ComputeStats(entries)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, api.Response{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, api.Response{Success: true, Stats: &stats})
}

func (s *Server) clearAll(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(); err != nil {
		writeJSON(w, http.StatusInternalServerError, api.Response{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, api.Response{Success: true, Message: MsgCleared})
}

// ComputeStats counts entries and exits and sums the time between each
// entry and the next exit. An exit with no open entry adds nothing; a
// second entry restarts the open interval.
func ComputeStats(entries []api.Entry) (api.Stats, error) {
	var stats api.Stats
	var total time.Duration
	var open *time.Time

	for _, e := range entries {
		switch e.Type {
		case api.TypeEntry:
			stats.TotalEntries++
			t, err := time.Parse(timestampLayout, e.Timestamp)
			if err != nil {
				return api.Stats{}, err
			}
			open = &t
		case api.TypeExit:
			stats.TotalExits++
			if open == nil {
				continue
			}
			t, err := time.Parse(timestampLayout, e.Timestamp)
			if err != nil {
				return api.Stats{}, err
			}
			total += t.Sub(*open)
			open = nil
		}
	}

	stats.TotalHours = math.Round(total.Hours()*100) / 100
	return stats, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
