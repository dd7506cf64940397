package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Ключ для ошибок, не привязанных к конкретному полю (как у DRF).
const nonFieldKey = "non_field_errors"

// FieldErrors — структурированные ошибки валидации: поле -> список сообщений.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// respondError — единый формат "одна ошибка одной строкой".
func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// respondFieldErrors — тело с пофилдовыми ошибками, всегда 400.
func respondFieldErrors(c *gin.Context, fe FieldErrors) {
	c.JSON(http.StatusBadRequest, fe)
}

// bindJSON разбирает тело запроса; ошибки типов превращает в ошибки полей.
// Возвращает nil, если всё разобралось.
func bindJSON(c *gin.Context, dst interface{}) FieldErrors {
	if err := c.ShouldBindJSON(dst); err != nil {
		fe := FieldErrors{}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			fe.Add(typeErr.Field, "Некорректное значение")
		} else {
			fe.Add(nonFieldKey, "Некорректное тело запроса")
		}
		return fe
	}
	return nil
}

// parseID — числовой id из путевого параметра.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
