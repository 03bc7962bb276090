// Package apitest provides an in-process ZeroBalance backend for tests. It
// implements the auth and profile endpoints with bcrypt-hashed passwords and
// HS256 JWTs, and counts the requests it receives per path.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/zerobalance/internal/client/models"
)

type account struct {
	user models.User
	hash []byte
}

type failure struct {
	status int
	body   string
}

// Server is a running test backend. Use URL as the client base URL.
type Server struct {
	*httptest.Server

	secret []byte

	mu       sync.Mutex
	users    map[string]*account // by email
	nextID   int64
	stats    models.ProfileStats
	requests map[string]int
	failures map[string]failure // by "METHOD /path"
	healthy  bool
}

// NewServer starts a backend that is shut down when t ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:   []byte("zero-balance-test-secret"),
		users:    make(map[string]*account),
		requests: make(map[string]int),
		failures: make(map[string]failure),
		nextID:   1,
		healthy:  true,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.health)
	mux.HandleFunc("POST /api/auth/signup", s.signup)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/me", s.authorized(s.me))
	mux.HandleFunc("GET /api/profile", s.authorized(s.profile))
	mux.HandleFunc("PUT /api/profile", s.authorized(s.updateProfile))
	mux.HandleFunc("PUT /api/profile/password", s.authorized(s.changePassword))
	mux.HandleFunc("GET /api/profile/stats", s.authorized(s.profileStats))

	s.Server = httptest.NewServer(s.middleware(mux))
	t.Cleanup(s.Close)
	return s
}

// AddUser registers an account directly and returns it.
func (s *Server) AddUser(name, email, password string) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(name, email, hash)
}

func (s *Server) addLocked(name, email string, hash []byte) models.User {
	now := time.Now().UTC().Format(time.RFC3339)
	u := models.User{ID: s.nextID, Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	s.nextID++
	s.users[strings.ToLower(email)] = &account{user: u, hash: hash}
	return u
}

// TokenFor mints a valid token for userID.
func (s *Server) TokenFor(userID int64) string {
	return s.sign(userID, 7*24*time.Hour)
}

// ExpiredTokenFor mints a token for userID that is already expired.
func (s *Server) ExpiredTokenFor(userID int64) string {
	return s.sign(userID, -time.Hour)
}

func (s *Server) sign(userID int64, validity time.Duration) string {
	token, err := GenerateToken(userID, s.secret, validity)
	if err != nil {
		panic(err)
	}
	return token
}

// Requests returns how many requests were received for path.
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// TotalRequests returns how many requests were received for any path.
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.requests {
		n += c
	}
	return n
}

func (s *Server) SetStats(st models.ProfileStats) {
	s.mu.Lock()
	s.stats = st
	s.mu.Unlock()
}

// SetHealthy controls the health endpoint's answer.
func (s *Server) SetHealthy(ok bool) {
	s.mu.Lock()
	s.healthy = ok
	s.mu.Unlock()
}

// Fail makes every subsequent request to method+path answer with status and
// the raw body until Recover is called.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	s.failures[method+" "+path] = failure{status: status, body: body}
	s.mu.Unlock()
}

func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	delete(s.failures, method+" "+path)
	s.mu.Unlock()
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		f, failing := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authorized validates the bearer token the way the backend middleware does
// and passes the account it belongs to.
func (s *Server) authorized(next func(http.ResponseWriter, *http.Request, *account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization format, expected 'Bearer {token}'")
			return
		}

		userID, err := UserIDFromToken(token, s.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		s.mu.Lock()
		acc := s.byIDLocked(userID)
		s.mu.Unlock()
		if acc == nil {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		next(w, r, acc)
	}
}

func (s *Server) byIDLocked(id int64) *account {
	for _, a := range s.users {
		if a.user.ID == id {
			return a
		}
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	healthy := s.healthy
	s.mu.Unlock()

	if !healthy {
		writeError(w, http.StatusServiceUnavailable, "Service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"message":   "ZeroBalance API is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error processing your request")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[strings.ToLower(req.Email)]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "Email already in use")
		return
	}
	u := s.addLocked(req.Name, req.Email, hash)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"token":   s.TokenFor(u.ID),
		"user":    map[string]any{"id": u.ID, "name": u.Name, "email": u.Email},
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	acc := s.users[strings.ToLower(req.Email)]
	s.mu.Unlock()

	if acc == nil || bcrypt.CompareHashAndPassword(acc.hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   s.TokenFor(acc.user.ID),
		"user":    map[string]any{"id": acc.user.ID, "name": acc.user.Name, "email": acc.user.Email},
	})
}

func (s *Server) me(w http.ResponseWriter, _ *http.Request, acc *account) {
	s.mu.Lock()
	u := acc.user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func profileOf(u models.User) models.Profile {
	return models.Profile{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (s *Server) profile(w http.ResponseWriter, _ *http.Request, acc *account) {
	s.mu.Lock()
	p := profileOf(acc.user)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"profile": p})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request, acc *account) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	s.mu.Lock()
	acc.user.Name = req.Name
	acc.user.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	p := profileOf(acc.user)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"profile": p,
	})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request, acc *account) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Current password and new password are required")
		return
	}

	s.mu.Lock()
	hash := acc.hash
	s.mu.Unlock()
	if bcrypt.CompareHashAndPassword(hash, []byte(req.CurrentPassword)) != nil {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	next, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error processing your request")
		return
	}
	s.mu.Lock()
	acc.hash = next
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"message": "Password updated successfully"})
}

func (s *Server) profileStats(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	st := s.stats
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"stats": st})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
