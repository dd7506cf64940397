// Package scope — единая точка правил видимости по ролям.
// Все обработчики и все реализации хранилища обязаны ходить сюда,
// чтобы правила не расползались по endpoint'ам.
package scope

import (
	"gorm.io/gorm"

	"oneguard/internal/models"
)

// CanSeeClient — видит ли caller запись клиента.
// Админ видит всё, инженер — только свои записи.
func CanSeeClient(caller *models.User, c *models.ClientData) bool {
	if caller.IsAdmin() {
		return true
	}
	return c.EngineerID == caller.ID
}

// CanSeeUser — видит ли caller учётку пользователя.
// Админ видит всех, остальные — только себя.
func CanSeeUser(caller *models.User, u *models.User) bool {
	if caller.IsAdmin() {
		return true
	}
	return u.ID == caller.ID
}

// Clients — gorm-scope, повторяющий CanSeeClient на уровне запроса.
// Фильтр применяется в самом запросе, а не пост-фильтром.
func Clients(caller *models.User) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if caller.IsAdmin() {
			return db
		}
		return db.Where("engineer_id = ?", caller.ID)
	}
}

// Users — gorm-scope, повторяющий CanSeeUser.
func Users(caller *models.User) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if caller.IsAdmin() {
			return db
		}
		return db.Where("id = ?", caller.ID)
	}
}
