package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"oneguard/internal/auth"
	"oneguard/internal/models"
	"oneguard/internal/store"
)

type AuthHandler struct {
	users  store.UserStore
	tokens *auth.Manager
}

func NewAuthHandler(users store.UserStore, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if fe := bindJSON(c, &req); fe != nil {
		respondFieldErrors(c, fe)
		return
	}

	user, err := h.users.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Неверный логин или пароль")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Неверный логин или пароль")
		return
	}

	pair, err := h.tokens.GeneratePair(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Не удалось выдать токен")
		return
	}

	c.JSON(http.StatusOK, pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if fe := bindJSON(c, &req); fe != nil {
		respondFieldErrors(c, fe)
		return
	}

	claims, err := h.tokens.ParseRefresh(req.Refresh)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Невалидный refresh-токен")
		return
	}

	user, err := h.users.GetByID(claims.UserID)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Невалидный refresh-токен")
		return
	}

	access, err := h.tokens.Access(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Не удалось выдать токен")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	// роль из запроса намеренно игнорируется
	Role string `json:"role"`
}

// Register — открытая регистрация инженера.
// Какая бы роль ни пришла в теле, сервер всегда ставит engineer.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if fe := bindJSON(c, &req); fe != nil {
		respondFieldErrors(c, fe)
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	fe := FieldErrors{}
	if len(req.Username) < 3 {
		fe.Add("username", "Слишком короткий логин")
	}
	if len(req.Password) < 6 {
		fe.Add("password", "Слишком короткий пароль")
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
		Role:         models.RoleEngineer,
		Phone:        req.Phone,
		City:         req.City,
	}
	if err := h.users.Create(&user); err != nil {
		respondError(c, http.StatusBadRequest, "Ошибка при создании пользователя")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Инженер успешно зарегистрирован",
		"user_id": user.ID,
	})
}
