package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oneguard/internal/auth"
	"oneguard/internal/models"
	"oneguard/internal/store"
)

const currentUserKey = "CurrentUser"

// RequireAuth проверяет Bearer-токен и кладёт живую учётку в контекст.
// Идентичность всегда берётся из токена, никогда из тела запроса.
func RequireAuth(tokens *auth.Manager, users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := tokens.ParseAccess(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser достаёт пользователя, которого положил RequireAuth.
// Проверки ролей живут в обработчиках: у каждого закрытого endpoint'а
// своё сообщение об отказе.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
