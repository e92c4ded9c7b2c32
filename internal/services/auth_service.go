// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/grantdesk/grantdesk-backend/internal/config"
	"github.com/grantdesk/grantdesk-backend/internal/models"
	"github.com/grantdesk/grantdesk-backend/internal/utils"
)

const pqUniqueViolation = "23505"

// ErrDuplicateEditor reports a registration that collides with an existing
// username or email. Handlers translate it into a 409 response.
var ErrDuplicateEditor = errors.New("an editor with this username or email already exists")

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username      string `json:"username" validate:"required,username"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,strong_password"`
	RealName      string `json:"real_name,omitempty" validate:"max=128"`
	HomeWiki      string `json:"home_wiki,omitempty" validate:"max=128"`
	Contributions string `json:"contributions,omitempty"`
}

type AuthResponse struct {
	Editor       *models.Editor `json:"editor"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int            `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	editor := &models.Editor{
		Username:      req.Username,
		Email:         req.Email,
		RealName:      req.RealName,
		HomeWiki:      req.HomeWiki,
		Contributions: req.Contributions,
		Role:          models.EditorRoleEditor,
		Status:        models.EditorStatusActive,
	}

	if err := editor.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(editor).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateEditor
		}
		return nil, fmt.Errorf("failed to create editor: %w", err)
	}

	return s.issueTokens(editor)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var editor models.Editor
	if err := s.db.Where("email = ?", req.Email).First(&editor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if editor.Status != models.EditorStatusActive {
		return nil, errors.New("editor account is not active")
	}

	if err := editor.CheckPassword(req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	now := time.Now()
	editor.LastLoginAt = &now
	if err := s.db.Model(&editor).Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return s.issueTokens(&editor)
}

func (s *AuthService) Refresh(refreshToken string) (*AuthResponse, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	var editor models.Editor
	if err := s.db.First(&editor, "id = ?", subject).Error; err != nil {
		return nil, errors.New("editor not found")
	}
	if editor.Status != models.EditorStatusActive {
		return nil, errors.New("editor account is not active")
	}

	return s.issueTokens(&editor)
}

func (s *AuthService) GetProfile(editorID string) (*models.Editor, error) {
	var editor models.Editor
	if err := s.db.First(&editor, "id = ?", editorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("editor not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &editor, nil
}

func (s *AuthService) issueTokens(editor *models.Editor) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(
		editor.ID,
		editor.Username,
		string(editor.Role),
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(editor.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		Editor:       editor,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}
