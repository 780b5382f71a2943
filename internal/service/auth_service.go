package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/pkg/logger"
	"intituas-ai-be/internal/pkg/mailer"
	"intituas-ai-be/internal/pkg/serverutils"
	"intituas-ai-be/internal/repository/contract"
	"intituas-ai-be/internal/repository/specification"
	"intituas-ai-be/internal/repository/unitofwork"
	"intituas-ai-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordTooLong    = errors.New("password too long")
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Dashboard(ctx context.Context, userId string) (*dto.DashboardResponse, error)
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	history      contract.HistoryStore
	emailService mailer.IEmailService
	publisher    events.Publisher
	jwtSecret    string
	logger       logger.ILogger
	now          func() time.Time
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	history contract.HistoryStore,
	emailService mailer.IEmailService,
	publisher events.Publisher,
	jwtSecret string,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		history:      history,
		emailService: emailService,
		publisher:    publisher,
		jwtSecret:    jwtSecret,
		logger:       log,
		now:          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := normalizeEmail(req.Email)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcome(user.Email); err != nil {
			s.logger.Warn("AUTH", "Failed to send welcome email", map[string]interface{}{"user_id": user.Id, "error": err.Error()})
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.UserRegistered(user.Id.String())); err != nil {
			s.logger.Warn("AUTH", "Failed to publish USER_REGISTERED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: normalizeEmail(req.Email)})
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := serverutils.IssueToken(s.jwtSecret, user.Id.String(), constant.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("AUTH", "User logged in", map[string]interface{}{"user_id": user.Id})
	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   s.now().UTC().Add(constant.TokenTTL),
	}, nil
}

// Dashboard shows the profile and recent history. An unavailable history
// store yields an empty list rather than failing the page.
func (s *authService) Dashboard(ctx context.Context, userId string) (*dto.DashboardResponse, error) {
	id, err := uuid.Parse(userId)
	if err != nil {
		return nil, ErrUserNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	recent := []dto.HistoryEntryResponse{}
	entries, err := s.history.ListRecent(ctx, userId, constant.HistoryRetention)
	if err != nil {
		s.logger.Warn("AUTH", "Dashboard history unavailable", map[string]interface{}{"user_id": userId, "error": err.Error()})
	} else {
		recent = ToHistoryResponses(entries)
	}

	return &dto.DashboardResponse{
		Email:         user.Email,
		MemberSince:   user.CreatedAt,
		RecentHistory: recent,
	}, nil
}

func ToHistoryResponses(entries []*entity.HistoryEntry) []dto.HistoryEntryResponse {
	res := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, dto.HistoryEntryResponse{
			Id:        e.Id,
			Question:  e.Question,
			Answer:    e.Answer,
			Citations: e.Citations,
			CreatedAt: e.CreatedAt,
		})
	}
	return res
}
