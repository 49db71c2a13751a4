package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/edsa-freetown/gridwatch/middleware"
	"github.com/edsa-freetown/gridwatch/models"
)

// ErrSessionNotFound is returned by RevokeSession when no live session row
// matches the id.
var ErrSessionNotFound = errors.New("session not found")

// AccountStore is the persistence the auth endpoints need, injected so tests
// run against an in-memory fake.
type AccountStore interface {
	CountAdmins() (int64, error)
	FindAdminByEmail(email string) (*models.AdminAccount, error)
	FindAdminByID(id uuid.UUID) (*models.AdminAccount, error)
	CreateAdmin(a *models.AdminAccount) error
	UpdateAdmin(a *models.AdminAccount) error
	CreateSession(s *models.AdminSession) error
	RevokeSession(id uuid.UUID) error
}

// AuthHandler owns sign-up, login, logout and the admin profile endpoints.
type AuthHandler struct {
	store AccountStore
}

func NewAuthHandler(store AccountStore) *AuthHandler {
	return &AuthHandler{store: store}
}

type adminPayload struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAdminPayload(a *models.AdminAccount) adminPayload {
	return adminPayload{ID: a.ID, FullName: a.FullName, Email: a.Email, CreatedAt: a.CreatedAt}
}

type authResp struct {
	Token string       `json:"token"`
	Admin adminPayload `json:"admin"`
}

// SetupStatus tells the landing page whether to offer sign-up or login.
// GET /setup/status
func (h *AuthHandler) SetupStatus(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountAdmins()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not check admin account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"adminExists": count > 0})
}

type signupReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates the one-time administrator account and logs it straight in.
// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	count, err := h.store.CountAdmins()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not check admin account")
		return
	}
	if count > 0 {
		writeError(w, http.StatusConflict, "admin account already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error hashing password")
		return
	}
	admin := &models.AdminAccount{
		ID:           uuid.New(),
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.store.CreateAdmin(admin); err != nil {
		writeError(w, http.StatusInternalServerError, "could not create admin account")
		return
	}

	token, err := h.openSession(admin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "couldn't create token")
		return
	}
	writeJSON(w, http.StatusCreated, authResp{Token: token, Admin: toAdminPayload(admin)})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and issues a token bound to a fresh session row.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	admin, err := h.store.FindAdminByEmail(req.Email)
	if err != nil || admin == nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.openSession(admin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "couldn't create token")
		return
	}
	writeJSON(w, http.StatusOK, authResp{Token: token, Admin: toAdminPayload(admin)})
}

func (h *AuthHandler) openSession(admin *models.AdminAccount) (string, error) {
	now := time.Now()
	sess := &models.AdminSession{
		ID:        uuid.New(),
		AdminID:   admin.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	if err := h.store.CreateSession(sess); err != nil {
		return "", err
	}
	return middleware.GenerateToken(admin.ID, admin.Email, sess.ID)
}

// Logout revokes the presented session.
// POST /api/v1/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r)
	if sessionID == uuid.Nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.store.RevokeSession(sessionID); err != nil {
		// No live row for this jti: the session is gone or already
		// revoked, so there is nothing to log out of.
		if errors.Is(err, ErrSessionNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		log.Printf("logout: could not revoke session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, "could not log out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated admin profile.
// GET /api/v1/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.currentAdmin(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toAdminPayload(admin))
}

type updateProfileReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// UpdateMe edits the admin profile (the Settings page).
// PUT /api/v1/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.FullName == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	admin, ok := h.currentAdmin(w, r)
	if !ok {
		return
	}
	admin.FullName = req.FullName
	admin.Email = req.Email
	if err := h.store.UpdateAdmin(admin); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update profile")
		return
	}
	writeJSON(w, http.StatusOK, toAdminPayload(admin))
}

func (h *AuthHandler) currentAdmin(w http.ResponseWriter, r *http.Request) (*models.AdminAccount, bool) {
	adminID := middleware.GetAdminID(r)
	if adminID == uuid.Nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	admin, err := h.store.FindAdminByID(adminID)
	if err != nil || admin == nil {
		writeError(w, http.StatusInternalServerError, "could not load profile")
		return nil, false
	}
	return admin, true
}
