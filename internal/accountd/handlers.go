package accountd

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/accountctl/internal/domain"
)

// The failure messages are free text, matched by substring on the client
// side. They are part of the de facto contract and must not be reworded
// without updating the classifier's vocabulary.
const (
	msgMissingRegisterFields = "Missing username, password, or email"
	msgMissingLoginFields    = "Missing username/email or password"
	msgInvalidEmail          = "Invalid email format"
	msgUsernameExists        = "Username already exists"
	msgEmailRegistered       = "Email already registered"
	msgUserNotFound          = "User not found"
	msgIncorrectPassword     = "Incorrect password"
	msgUnauthorized          = "Unauthorized"
	msgForbidden             = "Forbidden"
)

const (
	sessionName   = "accountd_session"
	sessionUserID = "user_id"
)

// Handler serves the account service routes.
type Handler struct {
	store *UserStore
}

// NewHandler creates a Handler over the given store.
func NewHandler(store *UserStore) *Handler {
	return &Handler{store: store}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"error": message})
}

// RegisterPost creates a new account (POST /register).
func (h *Handler) RegisterPost(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Password = strings.TrimSpace(req.Password)

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, msgMissingRegisterFields)
	}
	if !strings.Contains(req.Email, "@") {
		return fail(c, http.StatusBadRequest, msgInvalidEmail)
	}

	identity, err := h.store.Create(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			return fail(c, http.StatusConflict, msgUsernameExists)
		case errors.Is(err, ErrEmailTaken):
			return fail(c, http.StatusConflict, msgEmailRegistered)
		}
		slog.Error("failed to create account", "error", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    identity,
	})
}

// LoginPost authenticates and opens a cookie session (POST /login).
func (h *Handler) LoginPost(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Password = strings.TrimSpace(req.Password)

	if req.Password == "" || (req.Username == "" && req.Email == "") {
		return fail(c, http.StatusBadRequest, msgMissingLoginFields)
	}

	identity, err := h.store.Authenticate(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownUser):
			slog.Warn("failed login attempt", "reason", "unknown user")
			return fail(c, http.StatusUnauthorized, msgUserNotFound)
		case errors.Is(err, ErrBadPassword):
			slog.Warn("failed login attempt", "reason", "bad password")
			return fail(c, http.StatusUnauthorized, msgIncorrectPassword)
		}
		slog.Error("login failed", "error", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if err := h.establishSession(c, identity.ID); err != nil {
		slog.Error("failed to save session", "error", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user":    identity,
	})
}

// LogoutPost closes the cookie session (POST /logout).
func (h *Handler) LogoutPost(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err == nil {
		delete(sess.Values, sessionUserID)
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// MeGet returns the identity of the session owner (GET /me).
func (h *Handler) MeGet(c echo.Context) error {
	userID, ok := h.sessionUserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, msgUnauthorized)
	}

	identity, err := h.store.Get(userID)
	if err != nil {
		return fail(c, http.StatusNotFound, msgUserNotFound)
	}
	return c.JSON(http.StatusOK, identity)
}

// UserPut applies a partial profile update (PUT /user/:id). The id must
// match the session owner.
func (h *Handler) UserPut(c echo.Context) error {
	userID, ok := h.sessionUserID(c)
	if !ok || userID != c.Param("id") {
		return fail(c, http.StatusForbidden, msgForbidden)
	}

	var update domain.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	update.DisplayName = strings.TrimSpace(update.DisplayName)
	update.Email = strings.TrimSpace(update.Email)
	update.Secret = strings.TrimSpace(update.Secret)

	if update.Email != "" && !strings.Contains(update.Email, "@") {
		return fail(c, http.StatusBadRequest, msgInvalidEmail)
	}

	identity, err := h.store.Update(userID, update)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownUser):
			return fail(c, http.StatusNotFound, msgUserNotFound)
		case errors.Is(err, ErrUsernameTaken):
			return fail(c, http.StatusConflict, msgUsernameExists)
		case errors.Is(err, ErrEmailTaken):
			return fail(c, http.StatusConflict, msgEmailRegistered)
		}
		slog.Error("failed to update account", "error", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, identity)
}

// UserDelete removes the account and its session (DELETE /user/:id). The id
// must match the session owner.
func (h *Handler) UserDelete(c echo.Context) error {
	userID, ok := h.sessionUserID(c)
	if !ok || userID != c.Param("id") {
		return fail(c, http.StatusForbidden, msgForbidden)
	}

	if err := h.store.Delete(userID); err != nil {
		return fail(c, http.StatusNotFound, msgUserNotFound)
	}

	sess, err := session.Get(sessionName, c)
	if err == nil {
		delete(sess.Values, sessionUserID)
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

func (h *Handler) establishSession(c echo.Context, userID string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.Path = "/"
	sess.Options.HttpOnly = true
	sess.Values[sessionUserID] = userID
	return sess.Save(c.Request(), c.Response())
}

func (h *Handler) sessionUserID(c echo.Context) (string, bool) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return "", false
	}
	userID, ok := sess.Values[sessionUserID].(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
