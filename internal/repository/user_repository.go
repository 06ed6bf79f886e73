package repository

import (
	"errors"

	"flyhigh/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound aliases the GORM sentinel so callers do not have to import gorm.
	ErrNotFound = gorm.ErrRecordNotFound

	// ErrDuplicateEmail is returned when an insert loses the uniqueness race on the email column.
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserRepository defines the data operations on user accounts.
type UserRepository interface {
	// Create inserts the user and runs postInsert inside the same transaction.
	// If postInsert fails the insert is rolled back and its error is returned.
	Create(user *models.User, postInsert func(*models.User) error) error
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByActivationToken(token string) (*models.User, error)
	Save(user *models.User) error
	// DeleteWithTokens removes the user and every token it owns in one transaction.
	DeleteWithTokens(id uint) error
	// ListActive returns a page of active users ordered by id, plus the total
	// active-user count. excludeID, when non-zero, is left out of both.
	ListActive(page, size int, excludeID uint) ([]models.User, int64, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User, postInsert func(*models.User) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateEmail
			}
			return err
		}
		if postInsert != nil {
			return postInsert(user)
		}
		return nil
	})
}

func (r *userRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByActivationToken(token string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("activation_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) DeleteWithTokens(id uint) error {
	// The schema declares ON DELETE CASCADE, but deleting the tokens explicitly
	// keeps the behavior correct on stores where the constraint was not applied.
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Token{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

func (r *userRepository) ListActive(page, size int, excludeID uint) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{}).Where("inactive = ?", false)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("id").Offset(page * size).Limit(size).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// isUniqueViolation reports whether err is a Postgres unique-index violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
