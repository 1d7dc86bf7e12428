package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/tempizhere/gotiny/internal/models"
	"github.com/tempizhere/gotiny/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyCredentials   = errors.New("email and password are required")
	ErrEmailTaken         = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PasswordHasher определяет интерфейс хеширования паролей.
// Сервис аутентификации не зависит от конкретного криптографического примитива.
type PasswordHasher interface {
	// Hash возвращает хеш пароля
	Hash(password string) (string, error)
	// Compare сверяет пароль с хешем; ошибка означает несовпадение
	Compare(hash, password string) error
}

// BcryptHasher реализует PasswordHasher поверх bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher создаёт BcryptHasher с заданной стоимостью
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash возвращает bcrypt-хеш пароля
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare сверяет пароль с bcrypt-хешем
func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// AuthService реализует регистрацию и вход пользователей
type AuthService struct {
	users  repository.UserRepository
	hasher PasswordHasher
}

// NewAuthService создаёт новый экземпляр AuthService
func NewAuthService(users repository.UserRepository, hasher PasswordHasher) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
	}
}

// Register создаёт пользователя с хешированным паролем.
// Email сравнивается с учётом регистра, дубликат отклоняется.
func (a *AuthService) Register(email, password string) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, ErrEmptyCredentials
	}
	hash, err := a.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := a.users.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// Login проверяет email и пароль. Неизвестный email и неверный пароль
// возвращают одну и ту же ошибку, чтобы не раскрывать наличие аккаунта.
func (a *AuthService) Login(email, password string) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, ErrEmptyCredentials
	}
	user, exists := a.users.GetUserByEmail(email)
	if !exists {
		return models.User{}, ErrInvalidCredentials
	}
	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser возвращает пользователя по идентификатору
func (a *AuthService) GetUser(id string) (models.User, bool) {
	return a.users.GetUserByID(id)
}
