package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/config"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDisplayNameExists  = errors.New("display name already exists")
	ErrOperatorNotFound   = errors.New("operator not found")
)

// TokenAudience marks tokens minted for front-desk operators. Tokens
// signed with the same secret for any other audience are rejected.
const TokenAudience = "bowling-center/operator"

type AuthService struct {
	operatorRepo repository.OperatorRepository
	cfg          *config.Config
}

func NewAuthService(operatorRepo repository.OperatorRepository, cfg *config.Config) *AuthService {
	return &AuthService{operatorRepo: operatorRepo, cfg: cfg}
}

type RegisterInput struct {
	DisplayName string
	Password    string
}

type LoginInput struct {
	DisplayName string
	Password    string
}

type AuthResult struct {
	Operator    *domain.Operator
	AccessToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	existing, err := s.operatorRepo.GetByDisplayName(ctx, input.DisplayName)
	if err == nil && existing != nil {
		return nil, ErrDisplayNameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	operator := &domain.Operator{
		ID:           uuid.New(),
		DisplayName:  input.DisplayName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.operatorRepo.Create(ctx, operator); err != nil {
		return nil, err
	}

	token, err := s.generateAccessToken(operator)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Operator: operator, AccessToken: token}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	operator, err := s.operatorRepo.GetByDisplayName(ctx, input.DisplayName)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(operator)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Operator: operator, AccessToken: token}, nil
}

func (s *AuthService) GetOperator(ctx context.Context, id uuid.UUID) (*domain.Operator, error) {
	operator, err := s.operatorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrOperatorNotFound
	}
	return operator, nil
}

func (s *AuthService) generateAccessToken(operator *domain.Operator) (string, error) {
	claims := jwt.MapClaims{
		"sub":  operator.ID.String(),
		"name": operator.DisplayName,
		"aud":  TokenAudience,
		"exp":  time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithAudience(TokenAudience))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}
	return nil, errors.New("invalid token")
}
