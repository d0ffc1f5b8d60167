package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/s-ko0401/training-system/config"
	"github.com/s-ko0401/training-system/internal/dto"
	"github.com/s-ko0401/training-system/internal/model"
	"github.com/s-ko0401/training-system/pkg/jwt"
)

func setupTestAuthService(t *testing.T) (AuthService, *jwt.Manager) {
	t.Helper()
	repo, _, _ := newTestRepo()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.User.Create(context.Background(), &model.User{
		UserID: "user-001", Name: "田中", Email: "tanaka@example.com",
		PasswordHash: string(hash), Role: model.RoleStudent,
		TrainingStatus: model.TrainingStatusNotStarted,
	})

	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-key-at-least-16-chars",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 168 * time.Hour,
	})

	// Redis 不可用时黑名单静默跳过，登录/刷新路径不依赖它
	svc := NewAuthService(repo, jwtMgr, nil, zap.NewNop())
	return svc, jwtMgr
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, jwtMgr := setupTestAuthService(t)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "tanaka@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.User.Email != "tanaka@example.com" {
		t.Errorf("期望用户邮箱 tanaka@example.com，实际=%s", result.User.Email)
	}

	claims, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("access token 应可解析: %v", err)
	}
	if claims.TokenType != "access" || claims.UserID != "user-001" {
		t.Errorf("claims 不正确: %+v", claims)
	}

	refreshClaims, err := jwtMgr.ParseToken(result.RefreshToken)
	if err != nil {
		t.Fatalf("refresh token 应可解析: %v", err)
	}
	if refreshClaims.TokenType != "refresh" {
		t.Errorf("期望 token_type=refresh，实际=%s", refreshClaims.TokenType)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "tanaka@example.com", Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "nobody@example.com", Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc, jwtMgr := setupTestAuthService(t)
	ctx := context.Background()

	login, _ := svc.Login(ctx, &dto.LoginRequest{Email: "tanaka@example.com", Password: "password123"})

	result, err := svc.RefreshToken(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	claims, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("新 access token 应可解析: %v", err)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 token_type=access，实际=%s", claims.TokenType)
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc, _ := setupTestAuthService(t)
	ctx := context.Background()

	login, _ := svc.Login(ctx, &dto.LoginRequest{Email: "tanaka@example.com", Password: "password123"})

	// access token 不能用于刷新
	_, err := svc.RefreshToken(ctx, &dto.RefreshRequest{RefreshToken: login.AccessToken})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.RefreshToken(context.Background(), &dto.RefreshRequest{RefreshToken: "not-a-token"})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	result, err := svc.GetCurrentUser(context.Background(), "user-001")
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if result.Name != "田中" {
		t.Errorf("期望 Name=田中，实际=%s", result.Name)
	}

	if _, err := svc.GetCurrentUser(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
