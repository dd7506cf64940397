package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oneguard/internal/models"
)

func TestUserListScoped(t *testing.T) {
	env := newTestEnv(t)

	// инженер видит только себя
	w := env.request(t, http.MethodGet, "/api/users", env.engineer, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]interface{}
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "ivanov", list[0]["username"])
	// хэш пароля наружу не отдаётся
	assert.NotContains(t, list[0], "password_hash")

	// админ видит всех троих
	w = env.request(t, http.MethodGet, "/api/users", env.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Len(t, list, 3)
}

func TestUserMe(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/users/me", env.engineer, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	decode(t, w, &resp)
	assert.Equal(t, "ivanov", resp["username"])
	assert.Equal(t, "engineer", resp["role"])
}

func TestUserDetailScoped(t *testing.T) {
	env := newTestEnv(t)

	// чужая учётка для инженера не существует
	w := env.request(t, http.MethodGet, "/api/users/1", env.engineer, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	decode(t, w, &resp)
	assert.Equal(t, "Пользователь не найден", resp["error"])

	// своя — доступна
	w = env.request(t, http.MethodGet, "/api/users/2", env.engineer, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// админу доступна любая
	w = env.request(t, http.MethodGet, "/api/users/2", env.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserCreateAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]interface{}{
		"username": "newadmin",
		"password": "Password1!",
		"role":     "admin",
	}

	w := env.request(t, http.MethodPost, "/api/users", env.engineer, body)
	require.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]string
	decode(t, w, &resp)
	assert.Equal(t, "Только администраторы могут создавать пользователей", resp["error"])

	// админ может завести и другого админа
	w = env.request(t, http.MethodPost, "/api/users", env.admin, body)
	require.Equal(t, http.StatusCreated, w.Code)

	u, err := env.users.GetByUsername("newadmin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestUserCreateDefaultsToEngineer(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/users", env.admin, map[string]interface{}{
		"username": "noroleuser",
		"password": "Password1!",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	u, err := env.users.GetByUsername("noroleuser")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEngineer, u.Role)
}

func TestUserCreateRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/users", env.admin, map[string]interface{}{
		"username": "strange",
		"password": "Password1!",
		"role":     "superuser",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var fe map[string][]string
	decode(t, w, &fe)
	assert.Contains(t, fe, "role")
}

func TestUserStatisticsAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/users/statistics", env.engineer, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	var errResp map[string]string
	decode(t, w, &errResp)
	assert.Equal(t, "Только администраторы могут просматривать статистику", errResp["error"])

	w = env.request(t, http.MethodGet, "/api/users/statistics", env.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	decode(t, w, &stats)
	assert.Equal(t, float64(3), stats["total_users"])
	assert.Equal(t, float64(2), stats["engineers_count"])
	assert.Equal(t, float64(1), stats["admins_count"])

	byCity, ok := stats["users_by_city"].([]interface{})
	require.True(t, ok)
	assert.Len(t, byCity, 2) // Казань и Самара
}

func TestUserUpdateContactFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPatch, "/api/users/2", env.engineer, map[string]interface{}{
		"phone": "+79998887766",
		"city":  "Нижний Новгород",
		"role":  "admin", // игнорируется
	})
	require.Equal(t, http.StatusOK, w.Code)

	u, err := env.users.GetByID(env.engineer.ID)
	require.NoError(t, err)
	assert.Equal(t, "+79998887766", u.Phone)
	assert.Equal(t, "Нижний Новгород", u.City)
	assert.Equal(t, models.RoleEngineer, u.Role)
}

func TestUserUpdateOutsideScopeIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPatch, "/api/users/3", env.engineer, map[string]interface{}{
		"phone": "+70000000000",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
