package usecase

import (
	"context"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	rt, _ := args.Get(0).(*model.RefreshToken)
	return rt, args.Error(1)
}

func (m *RefreshTokenRepoMock) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test_secret", GoEnv: "test"}
}

// 実物のvalidatorと同等の最小ルール（空チェック＋8文字）
type stubValidator struct{}

func (stubValidator) ValidateRegister(ctx context.Context, email string, password string) error {
	if email == "" || password == "" || len(password) < 8 {
		return ErrValidation
	}
	return nil
}

func (stubValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	if email == "" || password == "" {
		return ErrValidation
	}
	return nil
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	users := new(UserRepoMock)
	uc := NewAuthUsecase(testConfig(), users, new(RefreshTokenRepoMock), stubValidator{})

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// 平文では保存しない
		return u.Email == "a@example.com" && u.PasswordHash != "password1" && u.Role == model.RoleUser
	})).Return(nil)

	out, err := uc.Register(context.Background(), AuthRegisterRequest{
		Email:    "a@example.com",
		Password: "password1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "a@example.com", out.User.Email)
	users.AssertExpectations(t)
}

func TestAuthUsecase_Register_WeakPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := NewAuthUsecase(testConfig(), users, new(RefreshTokenRepoMock), stubValidator{})

	_, err := uc.Register(context.Background(), AuthRegisterRequest{
		Email:    "a@example.com",
		Password: "short",
	})
	assert.Error(t, err)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	users := new(UserRepoMock)
	rts := new(RefreshTokenRepoMock)
	uc := NewAuthUsecase(testConfig(), users, rts, stubValidator{})

	user := &model.User{
		ID:           1,
		Email:        "a@example.com",
		PasswordHash: mustHash(t, "password1"),
		Role:         model.RoleUser,
		IsActive:     true,
	}
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)
	rts.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserID == 1 && rt.TokenHash != ""
	})).Return(nil)

	out, err := uc.Login(context.Background(), AuthLoginRequest{
		Email:    "a@example.com",
		Password: "password1",
	}, "test-agent")
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Body.Token.AccessToken)
	assert.NotEmpty(t, out.RefreshTokenPlain)
	// DBに保存されるのはハッシュなので、平文とは一致しない
	rts.AssertExpectations(t)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := NewAuthUsecase(testConfig(), users, new(RefreshTokenRepoMock), stubValidator{})

	user := &model.User{
		ID:           1,
		Email:        "a@example.com",
		PasswordHash: mustHash(t, "password1"),
		IsActive:     true,
	}
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)

	_, err := uc.Login(context.Background(), AuthLoginRequest{
		Email:    "a@example.com",
		Password: "wrongpass1",
	}, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthUsecase_Login_InactiveUser(t *testing.T) {
	users := new(UserRepoMock)
	uc := NewAuthUsecase(testConfig(), users, new(RefreshTokenRepoMock), stubValidator{})

	user := &model.User{
		ID:           1,
		Email:        "a@example.com",
		PasswordHash: mustHash(t, "password1"),
		IsActive:     false,
	}
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)

	_, err := uc.Login(context.Background(), AuthLoginRequest{
		Email:    "a@example.com",
		Password: "password1",
	}, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthUsecase_Refresh_RotatesToken(t *testing.T) {
	users := new(UserRepoMock)
	rts := new(RefreshTokenRepoMock)
	uc := NewAuthUsecase(testConfig(), users, rts, stubValidator{})

	plain := "some-refresh-token"
	rt := &model.RefreshToken{
		ID:        "rt-1",
		UserID:    1,
		TokenHash: hashToken(plain),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	user := &model.User{ID: 1, Email: "a@example.com", Role: model.RoleUser, IsActive: true}

	rts.On("FindByTokenHash", mock.Anything, hashToken(plain)).Return(rt, nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(user, nil)
	rts.On("MarkUsed", mock.Anything, "rt-1", mock.Anything).Return(nil)
	rts.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Refresh(context.Background(), plain, "test-agent")
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Body.AccessToken)
	assert.NotEqual(t, plain, out.RefreshTokenPlain)
	rts.AssertExpectations(t)
}

// 使用済みトークンの再利用は全セッション失効で応じる。
func TestAuthUsecase_Refresh_ReuseDetection(t *testing.T) {
	users := new(UserRepoMock)
	rts := new(RefreshTokenRepoMock)
	uc := NewAuthUsecase(testConfig(), users, rts, stubValidator{})

	used := time.Now().Add(-time.Minute)
	plain := "stolen-token"
	rt := &model.RefreshToken{
		ID:        "rt-1",
		UserID:    1,
		TokenHash: hashToken(plain),
		ExpiresAt: time.Now().Add(time.Hour),
		UsedAt:    &used,
	}

	rts.On("FindByTokenHash", mock.Anything, hashToken(plain)).Return(rt, nil)
	users.On("IncrementTokenVersion", mock.Anything, int64(1)).Return(nil)
	rts.On("DeleteAllByUserID", mock.Anything, int64(1)).Return(nil)

	_, err := uc.Refresh(context.Background(), plain, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	users.AssertExpectations(t)
	rts.AssertExpectations(t)
}

func TestAuthUsecase_Refresh_Expired(t *testing.T) {
	rts := new(RefreshTokenRepoMock)
	uc := NewAuthUsecase(testConfig(), new(UserRepoMock), rts, stubValidator{})

	plain := "old-token"
	rt := &model.RefreshToken{
		ID:        "rt-1",
		UserID:    1,
		TokenHash: hashToken(plain),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	rts.On("FindByTokenHash", mock.Anything, hashToken(plain)).Return(rt, nil)

	_, err := uc.Refresh(context.Background(), plain, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	rts.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything)
}
