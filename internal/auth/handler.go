package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/concert-capstone/internal/models"
	"github.com/ayush/concert-capstone/internal/store"
	"github.com/ayush/concert-capstone/internal/web"
)

const maxUsernameLength = 150

const (
	msgUserExists      = "User already exists"
	msgMissingFields   = "Username and password are required"
	msgUsernameTooLong = "Username must be 150 characters or fewer"
	msgInvalidLogin    = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	msgSomethingBroke  = "Something went wrong, please try again."
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, hashedPw string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Handler holds the signup, login and logout pages.
type Handler struct {
	users    UserStore
	sessions *SessionStore
	views    *web.Renderer

	secureCookies bool
	hashCost      int
}

func NewHandler(users UserStore, sessions *SessionStore, views *web.Renderer, secureCookies bool) *Handler {
	return &Handler{
		users:         users,
		sessions:      sessions,
		views:         views,
		secureCookies: secureCookies,
		hashCost:      bcrypt.DefaultCost,
	}
}

func (h *Handler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, web.PageSignup, nil)
}

// Signup creates the user unless the name is taken, then logs them in.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	username, password, ok := credentials(r)
	retry := func(msg string) {
		h.views.Render(w, r, http.StatusOK, web.PageSignup, web.Data{"Message": msg, "Username": username})
	}
	if !ok {
		retry(msgMissingFields)
		return
	}
	if len(username) > maxUsernameLength {
		retry(msgUsernameTooLong)
		return
	}

	_, err := h.users.GetUserByUsername(r.Context(), username)
	if err == nil {
		retry(msgUserExists)
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Msg("signup: lookup user")
		retry(msgSomethingBroke)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.hashCost)
	if err != nil {
		log.Error().Err(err).Msg("signup: hash password")
		retry(msgSomethingBroke)
		return
	}

	user, err := h.users.CreateUser(r.Context(), username, string(hashed))
	if errors.Is(err, store.ErrDuplicate) {
		retry(msgUserExists)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("signup: create user")
		retry(msgSomethingBroke)
		return
	}

	log.Info().Int64("user_id", user.ID).Msg("user signed up")
	h.startSession(w, r, user.ID)
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, web.PageLogin, nil)
}

// Login authenticates a user and creates a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, ok := credentials(r)
	fail := func() {
		h.views.Render(w, r, http.StatusOK, web.PageLogin, web.Data{"Error": msgInvalidLogin, "Username": username})
	}
	if !ok {
		fail()
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Msg("login: lookup user")
		}
		fail()
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		fail()
		return
	}

	h.startSession(w, r, user.ID)
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			log.Warn().Err(err).Msg("logout: delete session")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, userID int64) {
	sid, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("session creation failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func credentials(r *http.Request) (username, password string, ok bool) {
	username = strings.TrimSpace(r.PostFormValue("username"))
	password = r.PostFormValue("password")
	return username, password, username != "" && password != ""
}
