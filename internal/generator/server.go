package generator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/Project-Sylos/DriveLister/internal/types"
)

// Failure describes a canned error response for one folder
type Failure struct {
	Status  int
	Message string // Empty writes a non-JSON body
}

// Server is an in-memory stand-in for the Drive v3 files.list endpoint.
// It answers "'<id>' in parents" queries from a folder map.
type Server struct {
	mu       sync.Mutex
	apiKey   string
	children map[string][]types.Item
	failures map[string]Failure
	requests int
}

// NewServer creates an empty synthetic Drive. Requests must carry apiKey
// unless it is empty.
func NewServer(apiKey string) *Server {
	return &Server{
		apiKey:   apiKey,
		children: make(map[string][]types.Item),
		failures: make(map[string]Failure),
	}
}

// AddFolder registers a folder under parentID
func (s *Server) AddFolder(parentID, id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children[parentID] = append(s.children[parentID], types.Item{ID: id, Name: name, MimeType: types.MimeTypeFolder})
	if _, ok := s.children[id]; !ok {
		s.children[id] = []types.Item{}
	}
}

// AddFile registers a file under parentID
func (s *Server) AddFile(parentID string, item types.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children[parentID] = append(s.children[parentID], item)
}

// EnsureFolder registers an empty listing for id if none exists
func (s *Server) EnsureFolder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.children[id]; !ok {
		s.children[id] = []types.Item{}
	}
}

// Fail makes every listing of folderID answer with the given failure
func (s *Server) Fail(folderID string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[folderID] = f
}

// Requests returns the number of listing requests served
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Populate generates a deterministic tree below rootID
func (s *Server) Populate(rootID string, cfg SeedConfig) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	s.EnsureFolder(rootID)
	return s.populate(rootID, 0, NewRNG(cfg.Seed), cfg)
}

func (s *Server) populate(parentID string, depth int, rng *RNG, cfg SeedConfig) error {
	children, err := GenerateChildren(depth, rng, cfg)
	if err != nil {
		return err
	}
	for _, child := range children {
		if child.MimeType != types.MimeTypeFolder {
			s.AddFile(parentID, child)
			continue
		}
		s.AddFolder(parentID, child.ID, child.Name)
		if err := s.populate(child.ID, depth+1, rng, cfg); err != nil {
			return err
		}
	}
	return nil
}

// ServeHTTP implements http.Handler for GET .../files
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++

	if r.Method != http.MethodGet || !strings.HasSuffix(r.URL.Path, "/files") {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	if s.apiKey != "" && r.URL.Query().Get("key") != s.apiKey {
		writeError(w, http.StatusBadRequest, "API key not valid. Please pass a valid API key.")
		return
	}

	folderID, ok := ParseParentQuery(r.URL.Query().Get("q"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid Value")
		return
	}

	if f, failing := s.failures[folderID]; failing {
		if f.Message == "" {
			w.WriteHeader(f.Status)
			fmt.Fprint(w, "<html>upstream error</html>")
			return
		}
		writeError(w, f.Status, f.Message)
		return
	}

	items, found := s.children[folderID]
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("File not found: %s.", folderID))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	json.NewEncoder(w).Encode(map[string]any{"files": items})
}

// ParseParentQuery extracts the folder id from "'<id>' in parents and ..."
func ParseParentQuery(q string) (string, bool) {
	if !strings.HasPrefix(q, "'") {
		return "", false
	}

	var b strings.Builder
	for i := 1; i < len(q); i++ {
		switch q[i] {
		case '\\':
			if i+1 < len(q) {
				i++
				b.WriteByte(q[i])
			}
		case '\'':
			if !strings.HasPrefix(q[i+1:], " in parents") {
				return "", false
			}
			return b.String(), true
		default:
			b.WriteByte(q[i])
		}
	}
	return "", false
}

// writeError writes a Google-style JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": message,
			"errors": []map[string]string{
				{"message": message, "domain": "global", "reason": http.StatusText(status)},
			},
		},
	})
}
