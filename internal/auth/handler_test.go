package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/concert-capstone/internal/models"
	"github.com/ayush/concert-capstone/internal/store"
	"github.com/ayush/concert-capstone/internal/web"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
	next  int64
}

func (m *memUsers) CreateUser(ctx context.Context, username, hashedPw string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return nil, store.ErrDuplicate
	}
	m.next++
	u := &models.User{ID: m.next, Username: username, Password: hashedPw, CreatedAt: time.Now()}
	m.users[username] = u
	return u, nil
}

func (m *memUsers) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

type AuthHandlerSuite struct {
	suite.Suite
	users    *memUsers
	sessions *SessionStore
	handler  *Handler
}

func (s *AuthHandlerSuite) SetupTest() {
	s.users = &memUsers{users: map[string]*models.User{}}
	s.sessions, _ = newSessionStore(s.T())

	views, err := web.NewRenderer(IsAuthenticated)
	s.Require().NoError(err)

	s.handler = NewHandler(s.users, s.sessions, views, false)
	s.handler.hashCost = bcrypt.MinCost
}

func (s *AuthHandlerSuite) post(h http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func (s *AuthHandlerSuite) sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	return nil
}

func (s *AuthHandlerSuite) addUser(username, password string) *models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)
	u, err := s.users.CreateUser(context.Background(), username, string(hashed))
	s.Require().NoError(err)
	return u
}

func (s *AuthHandlerSuite) TestForms() {
	rr := httptest.NewRecorder()
	s.handler.SignupForm(rr, httptest.NewRequest(http.MethodGet, "/signup", nil))
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), `action="/signup"`)

	rr = httptest.NewRecorder()
	s.handler.LoginForm(rr, httptest.NewRequest(http.MethodGet, "/login", nil))
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), `action="/login"`)
}

func (s *AuthHandlerSuite) TestSignupCreatesUserAndLogsIn() {
	rr := s.post(s.handler.Signup, url.Values{"username": {"alice"}, "password": {"pw123456"}})

	s.Equal(http.StatusFound, rr.Code)
	s.Equal("/", rr.Header().Get("Location"))

	u, err := s.users.GetUserByUsername(context.Background(), "alice")
	s.Require().NoError(err)
	s.NotEqual("pw123456", u.Password)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("pw123456")))

	cookie := s.sessionCookie(rr)
	s.Require().NotNil(cookie)
	s.True(cookie.HttpOnly)
	id, err := s.sessions.Get(context.Background(), cookie.Value)
	s.Require().NoError(err)
	s.Equal(u.ID, id)
}

func (s *AuthHandlerSuite) TestSignupExistingUser() {
	existing := s.addUser("bob", "keeper")

	rr := s.post(s.handler.Signup, url.Values{"username": {"bob"}, "password": {"other"}})

	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "User already exists")
	s.Nil(s.sessionCookie(rr))
	s.Len(s.users.users, 1)

	u, err := s.users.GetUserByUsername(context.Background(), "bob")
	s.Require().NoError(err)
	s.Equal(existing.Password, u.Password)
}

func (s *AuthHandlerSuite) TestSignupMissingFields() {
	rr := s.post(s.handler.Signup, url.Values{"username": {"  "}, "password": {"x"}})

	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "Username and password are required")
	s.Empty(s.users.users)
}

func (s *AuthHandlerSuite) TestLoginSuccess() {
	u := s.addUser("carol", "secret")

	rr := s.post(s.handler.Login, url.Values{"username": {"carol"}, "password": {"secret"}})

	s.Equal(http.StatusFound, rr.Code)
	s.Equal("/", rr.Header().Get("Location"))
	cookie := s.sessionCookie(rr)
	s.Require().NotNil(cookie)
	id, err := s.sessions.Get(context.Background(), cookie.Value)
	s.Require().NoError(err)
	s.Equal(u.ID, id)
}

func (s *AuthHandlerSuite) TestLoginFailures() {
	s.addUser("dave", "secret")

	for _, form := range []url.Values{
		{"username": {"dave"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"secret"}},
		{"username": {"Dave"}, "password": {"secret"}},
		{},
	} {
		rr := s.post(s.handler.Login, form)
		s.Equal(http.StatusOK, rr.Code)
		s.Contains(rr.Body.String(), "Please enter a correct username and password.")
		s.Nil(s.sessionCookie(rr))
	}
}

func (s *AuthHandlerSuite) TestLogout() {
	sid, err := s.sessions.Create(context.Background(), 5)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	rr := httptest.NewRecorder()
	s.handler.Logout(rr, req)

	s.Equal(http.StatusFound, rr.Code)
	s.Equal("/login", rr.Header().Get("Location"))

	cookie := s.sessionCookie(rr)
	s.Require().NotNil(cookie)
	s.Empty(cookie.Value)
	s.Negative(cookie.MaxAge)

	id, err := s.sessions.Get(context.Background(), sid)
	s.Require().NoError(err)
	s.Zero(id)
}

func (s *AuthHandlerSuite) TestLogoutWithoutSession() {
	rr := httptest.NewRecorder()
	s.handler.Logout(rr, httptest.NewRequest(http.MethodGet, "/logout", nil))
	s.Equal(http.StatusFound, rr.Code)
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}
