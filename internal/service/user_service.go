package service

import (
	"errors"
	"fmt"
	"log/slog"

	"flyhigh/internal/config"
	"flyhigh/internal/models"
	"flyhigh/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthenticationFailed   = errors.New("incorrect credentials")
	ErrInactiveAccount        = errors.New("account is inactive")
	ErrEmailTaken             = errors.New("email already in use")
	ErrEmailDelivery          = errors.New("activation email delivery failed")
	ErrActivationTokenInvalid = errors.New("activation token is invalid")
	ErrUserNotFound           = errors.New("user not found")
)

// bcrypt hash of an arbitrary password, compared against when the email is
// unknown so login latency does not reveal account existence.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserCache is an optional read-through cache for active user lookups.
type UserCache interface {
	Get(id uint) (*models.User, bool)
	Set(user *models.User)
	Invalidate(id uint)
}

// UserService orchestrates registration, activation, authentication, and
// authorized self-service on accounts.
type UserService interface {
	Register(username, email, password string) error
	Activate(activationToken string) error
	Authenticate(email, password string) (*models.User, error)
	List(page, size int, excludeID uint) ([]models.User, int64, error)
	Get(id uint) (*models.User, error)
	Update(id uint, username string) (*models.User, error)
	Delete(id uint) error
}

type userService struct {
	users      repository.UserRepository
	email      EmailService
	cache      UserCache
	bcryptCost int
	logger     *slog.Logger
}

func NewUserService(
	users repository.UserRepository,
	email EmailService,
	cache UserCache,
	cfg *config.Config,
	logger *slog.Logger,
) UserService {
	return &userService{
		users:      users,
		email:      email,
		cache:      cache,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Register persists the new account and dispatches the activation email inside
// one transaction: if the mail is not accepted for delivery, the insert rolls
// back so no unactivatable account is left behind.
func (s *userService) Register(username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	activationToken := uuid.NewString()
	user := &models.User{
		Username:        username,
		Email:           email,
		PasswordHash:    string(hash),
		Inactive:        true,
		ActivationToken: &activationToken,
	}

	err = s.users.Create(user, func(u *models.User) error {
		if sendErr := s.email.SendAccountActivation(u.Email, activationToken); sendErr != nil {
			s.logger.Warn("activation email rejected, rolling back registration",
				"email", u.Email, "error", sendErr)
			return fmt.Errorf("%w: %v", ErrEmailDelivery, sendErr)
		}
		return nil
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return ErrEmailTaken
	}
	return err
}

func (s *userService) Activate(activationToken string) error {
	user, err := s.users.FindByActivationToken(activationToken)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrActivationTokenInvalid
	}
	if err != nil {
		return err
	}

	user.Inactive = false
	user.ActivationToken = nil
	if err := s.users.Save(user); err != nil {
		return err
	}
	s.invalidate(user.ID)
	return nil
}

func (s *userService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
		return nil, ErrAuthenticationFailed
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrAuthenticationFailed
	}
	if user.Inactive {
		return nil, ErrInactiveAccount
	}
	return user, nil
}

func (s *userService) List(page, size int, excludeID uint) ([]models.User, int64, error) {
	return s.users.ListActive(page, size, excludeID)
}

func (s *userService) Get(id uint) (*models.User, error) {
	if s.cache != nil {
		if user, ok := s.cache.Get(id); ok {
			return user, nil
		}
	}

	user, err := s.users.FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Inactive {
		return nil, ErrUserNotFound
	}

	if s.cache != nil {
		s.cache.Set(user)
	}
	return user, nil
}

func (s *userService) Update(id uint, username string) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}

	user.Username = username
	if err := s.users.Save(user); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return user, nil
}

func (s *userService) Delete(id uint) error {
	if err := s.users.DeleteWithTokens(id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *userService) invalidate(id uint) {
	if s.cache != nil {
		s.cache.Invalidate(id)
	}
}
