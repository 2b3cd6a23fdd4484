package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testCfg() config.Config {
	return config.Config{JWTSecret: "test_secret"}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func runAuthJWT(cfg config.Config, authz string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	h := AuthJWT(cfg)(func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	})
	_ = h(c)
	return rec, captured
}

func TestAuthJWT_ValidToken(t *testing.T) {
	cfg := testCfg()
	now := time.Now()
	token := signToken(t, cfg.JWTSecret, jwt.MapClaims{
		"sub":  float64(7),
		"role": "USER",
		"tv":   2,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Minute).Unix(),
	})

	rec, c := runAuthJWT(cfg, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), c.Get(CtxUserIDKey))
	assert.Equal(t, "USER", c.Get(CtxUserRoleKey))
	assert.Equal(t, 2, c.Get(CtxTokenVersionKey))
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	rec, _ := runAuthJWT(testCfg(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	now := time.Now()
	token := signToken(t, "other_secret", jwt.MapClaims{
		"sub":  float64(7),
		"role": "USER",
		"tv":   0,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Minute).Unix(),
	})

	rec, _ := runAuthJWT(testCfg(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	cfg := testCfg()
	now := time.Now()
	token := signToken(t, cfg.JWTSecret, jwt.MapClaims{
		"sub":  float64(7),
		"role": "USER",
		"tv":   0,
		"iat":  now.Add(-2 * time.Hour).Unix(),
		"exp":  now.Add(-time.Hour).Unix(),
	})

	rec, _ := runAuthJWT(cfg, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	rec, _ := runAuthJWT(testCfg(), "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type guardUserRepoMock struct{ mock.Mock }

func (m *guardUserRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used")
}

func (m *guardUserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *guardUserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	panic("not used")
}

func (m *guardUserRepoMock) Update(ctx context.Context, user *model.User) error {
	panic("not used")
}

func (m *guardUserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	panic("not used")
}

func runGuard(userRepo *guardUserRepoMock, userID int64, tv int) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(CtxUserIDKey, userID)
	c.Set(CtxTokenVersionKey, tv)

	h := TokenVersionGuard(userRepo)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = h(c)
	return rec
}

func TestTokenVersionGuard_Match(t *testing.T) {
	repo := new(guardUserRepoMock)
	repo.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, TokenVersion: 2}, nil)

	rec := runGuard(repo, 7, 2)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// tv不一致は強制ログアウト扱い
func TestTokenVersionGuard_StaleToken(t *testing.T) {
	repo := new(guardUserRepoMock)
	repo.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, TokenVersion: 3}, nil)

	rec := runGuard(repo, 7, 2)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
