package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tempizhere/gotiny/internal/models"
)

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()

	// Проверяем, что MemoryUserRepository реализует интерфейс UserRepository
	var _ UserRepository = (*MemoryUserRepository)(nil)

	// Тест 1: Создание и получение пользователя
	err := repo.CreateUser(models.User{ID: "u1", Email: "user@example.com", PasswordHash: "hash1"})
	assert.NoError(t, err, "CreateUser should not return error")
	user, exists := repo.GetUserByID("u1")
	assert.True(t, exists, "User should exist")
	assert.Equal(t, "user@example.com", user.Email)

	// Тест 2: Поиск по email через индекс
	user, exists = repo.GetUserByEmail("user@example.com")
	assert.True(t, exists, "User should be found by email")
	assert.Equal(t, "u1", user.ID)

	// Тест 3: Дубликат email отклоняется
	err = repo.CreateUser(models.User{ID: "u2", Email: "user@example.com", PasswordHash: "hash2"})
	assert.ErrorIs(t, err, ErrEmailExists, "Expected ErrEmailExists for duplicate email")
	_, exists = repo.GetUserByID("u2")
	assert.False(t, exists, "Second user should not be stored")

	// Тест 4: Email сравнивается с учётом регистра
	err = repo.CreateUser(models.User{ID: "u3", Email: "User@example.com", PasswordHash: "hash3"})
	assert.NoError(t, err, "Different case email should be a different key")

	// Тест 5: Неизвестный пользователь
	_, exists = repo.GetUserByID("unknown")
	assert.False(t, exists)
	_, exists = repo.GetUserByEmail("unknown@example.com")
	assert.False(t, exists)

	// Тест 6: Подсчёт пользователей
	assert.Equal(t, 2, repo.CountUsers())

	// Тест 7: Очистка хранилища
	repo.Clear()
	assert.Equal(t, 0, repo.CountUsers())
	_, exists = repo.GetUserByEmail("user@example.com")
	assert.False(t, exists, "Email index should be cleared")
}
