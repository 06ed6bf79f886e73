package service

import (
	"errors"
	"log/slog"
	"testing"

	"flyhigh/internal/config"
	"flyhigh/internal/models"
	"flyhigh/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User, postInsert func(*models.User) error) error {
	args := m.Called(user)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	// Emulate the transactional contract: a failing postInsert aborts the insert.
	if postInsert != nil {
		return postInsert(user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByActivationToken(token string) (*models.User, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Save(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteWithTokens(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) ListActive(page, size int, excludeID uint) ([]models.User, int64, error) {
	args := m.Called(page, size, excludeID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockEmailService mocks the EmailService interface
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendAccountActivation(to, activationToken string) error {
	args := m.Called(to, activationToken)
	return args.Error(0)
}

func newUserService(users repository.UserRepository, email EmailService) UserService {
	cfg := &config.Config{BcryptCost: bcrypt.MinCost}
	return NewUserService(users, email, nil, cfg, slog.Default())
}

func TestRegister_PersistsInactiveUserWithHashedPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockEmail := new(MockEmailService)
	svc := newUserService(mockRepo, mockEmail)

	var saved *models.User
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*models.User)
		}).
		Return(nil)
	mockEmail.On("SendAccountActivation", "user1@x.com", mock.AnythingOfType("string")).Return(nil)

	err := svc.Register("user1", "user1@x.com", "P$4ssword")

	assert.NoError(t, err)
	assert.True(t, saved.Inactive)
	assert.NotNil(t, saved.ActivationToken)
	assert.NotEmpty(t, *saved.ActivationToken)
	assert.NotEqual(t, "P$4ssword", saved.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("P$4ssword")))
	mockEmail.AssertExpectations(t)
}

func TestRegister_EmailContainsActivationToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockEmail := new(MockEmailService)
	svc := newUserService(mockRepo, mockEmail)

	var saved *models.User
	var mailedToken string
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*models.User)
		}).
		Return(nil)
	mockEmail.On("SendAccountActivation", "user1@x.com", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			mailedToken = args.String(1)
		}).
		Return(nil)

	err := svc.Register("user1", "user1@x.com", "P$4ssword")

	assert.NoError(t, err)
	assert.Equal(t, *saved.ActivationToken, mailedToken)
}

func TestRegister_EmailDeliveryFailureRollsBack(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockEmail := new(MockEmailService)
	svc := newUserService(mockRepo, mockEmail)

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
	mockEmail.On("SendAccountActivation", mock.Anything, mock.Anything).
		Return(errors.New("smtp: connection timed out"))

	err := svc.Register("user1", "user1@x.com", "P$4ssword")

	// The transactional Create propagates the callback error, which carries
	// the delivery-failure sentinel up to the handler.
	assert.ErrorIs(t, err, ErrEmailDelivery)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockEmail := new(MockEmailService)
	svc := newUserService(mockRepo, mockEmail)

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(repository.ErrDuplicateEmail)

	err := svc.Register("user1", "taken@x.com", "P$4ssword")

	assert.ErrorIs(t, err, ErrEmailTaken)
	mockEmail.AssertNotCalled(t, "SendAccountActivation", mock.Anything, mock.Anything)
}

func TestActivate_FlipsInactiveAndClearsToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo, new(MockEmailService))

	token := "activation-token"
	user := &models.User{ID: 1, Inactive: true, ActivationToken: &token}
	mockRepo.On("FindByActivationToken", token).Return(user, nil)

	var saved *models.User
	mockRepo.On("Save", mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*models.User)
		}).
		Return(nil)

	err := svc.Activate(token)

	assert.NoError(t, err)
	assert.False(t, saved.Inactive)
	assert.Nil(t, saved.ActivationToken)
}

func TestActivate_UnknownToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo, new(MockEmailService))

	mockRepo.On("FindByActivationToken", "wrong").Return(nil, repository.ErrNotFound)

	err := svc.Activate("wrong")

	assert.ErrorIs(t, err, ErrActivationTokenInvalid)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func activeUser(t *testing.T) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("P$4ssword"), bcrypt.MinCost)
	assert.NoError(t, err)
	return &models.User{
		ID:           1,
		Username:     "user1",
		Email:        "user1@x.com",
		PasswordHash: string(hash),
		Inactive:     false,
	}
}

func TestAuthenticate_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo, new(MockEmailService))

	mockRepo.On("FindByEmail", "user1@x.com").Return(activeUser(t), nil)

	user, err := svc.Authenticate("user1@x.com", "P$4ssword")

	assert.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo, new(MockEmailService))

	mockRepo.On("FindByEmail", "user1@x.com").Return(activeUser(t), nil)

	_, err := svc.Authenticate("user1@x.com", "not-it")

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo, new(MockEmailService))

	mockRepo.On("FindByEmail", "ghost@x.com").Return(nil, repository.ErrNotFound)

	_, err := svc.Authenticate("ghost@x.com", "whatever")

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthenticate_InactiveAccountWithCorrectPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo, new(MockEmailService))

	user := activeUser(t)
	user.Inactive = true
	mockRepo.On("FindByEmail", "user1@x.com").Return(user, nil)

	_, err := svc.Authenticate("user1@x.com", "P$4ssword")

	assert.ErrorIs(t, err, ErrInactiveAccount)
}

func TestGet_InactiveUserIsNotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo, new(MockEmailService))

	user := activeUser(t)
	user.Inactive = true
	mockRepo.On("FindByID", uint(1)).Return(user, nil)

	_, err := svc.Get(1)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGet_UnknownUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo, new(MockEmailService))

	mockRepo.On("FindByID", uint(5)).Return(nil, repository.ErrNotFound)

	_, err := svc.Get(5)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdate_ChangesUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo, new(MockEmailService))

	mockRepo.On("FindByID", uint(1)).Return(activeUser(t), nil)
	var saved *models.User
	mockRepo.On("Save", mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*models.User)
		}).
		Return(nil)

	user, err := svc.Update(1, "user1-updated")

	assert.NoError(t, err)
	assert.Equal(t, "user1-updated", user.Username)
	assert.Equal(t, "user1-updated", saved.Username)
}

func TestDelete_RemovesUserAndTokensTogether(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo, new(MockEmailService))

	mockRepo.On("DeleteWithTokens", uint(1)).Return(nil)

	assert.NoError(t, svc.Delete(1))
	mockRepo.AssertExpectations(t)
}

func TestList_PassesPagingAndExclusionThrough(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo, new(MockEmailService))

	mockRepo.On("ListActive", 1, 10, uint(4)).Return([]models.User{{ID: 11}}, int64(11), nil)

	users, total, err := svc.List(1, 10, 4)

	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(11), total)
}
