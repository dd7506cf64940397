package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"oneguard/internal/middleware"
	"oneguard/internal/models"
	"oneguard/internal/reports"
	"oneguard/internal/store"
)

type UserHandler struct {
	users store.UserStore
}

func NewUserHandler(users store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// List — админ видит всех, инженер — только себя.
func (h *UserHandler) List(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	users, err := h.users.List(caller)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка чтения пользователей")
		return
	}
	c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
	Phone    string          `json:"phone"`
	City     string          `json:"city"`
}

// Create — заведение пользователя админом (в т.ч. других админов).
func (h *UserHandler) Create(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	if !caller.IsAdmin() {
		respondError(c, http.StatusForbidden, "Только администраторы могут создавать пользователей")
		return
	}

	var req createUserRequest
	if fe := bindJSON(c, &req); fe != nil {
		respondFieldErrors(c, fe)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Role == "" {
		req.Role = models.RoleEngineer
	}

	fe := FieldErrors{}
	if len(req.Username) < 3 {
		fe.Add("username", "Слишком короткий логин")
	}
	if len(req.Password) < 6 {
		fe.Add("password", "Слишком короткий пароль")
	}
	if req.Role != models.RoleEngineer && req.Role != models.RoleAdmin {
		fe.Add("role", "Неверная роль")
	}
	if _, err := h.users.GetByUsername(req.Username); err == nil {
		fe.Add("username", "Пользователь уже существует")
	} else if !errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusInternalServerError, "Ошибка при создании пользователя")
		return
	}
	if !fe.Empty() {
		respondFieldErrors(c, fe)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка при создании пользователя")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		Phone:        req.Phone,
		City:         req.City,
	}
	if err := h.users.Create(&user); err != nil {
		respondError(c, http.StatusBadRequest, "Ошибка при создании пользователя")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Me — учётка вызывающего.
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// Statistics — сводка по пользователям, только для админов.
func (h *UserHandler) Statistics(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	if !caller.IsAdmin() {
		respondError(c, http.StatusForbidden, "Только администраторы могут просматривать статистику")
		return
	}

	users, err := h.users.List(caller)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка построения статистики")
		return
	}
	c.JSON(http.StatusOK, reports.Users(users))
}

func (h *UserHandler) Detail(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusNotFound, "Пользователь не найден")
		return
	}

	user, err := h.users.Get(caller, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Пользователь не найден")
			return
		}
		respondError(c, http.StatusInternalServerError, "Ошибка чтения пользователя")
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	Phone *string `json:"phone"`
	City  *string `json:"city"`
}

// Update — правка контактных данных в пределах видимости.
// Роль и пароль через этот endpoint не меняются.
func (h *UserHandler) Update(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusNotFound, "Пользователь не найден")
		return
	}

	user, err := h.users.Get(caller, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Пользователь не найден")
			return
		}
		respondError(c, http.StatusInternalServerError, "Ошибка чтения пользователя")
		return
	}

	var req updateUserRequest
	if fe := bindJSON(c, &req); fe != nil {
		respondFieldErrors(c, fe)
		return
	}

	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.City != nil {
		user.City = *req.City
	}
	if err := h.users.Save(user); err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения пользователя")
		return
	}
	c.JSON(http.StatusOK, user)
}
