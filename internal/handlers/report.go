package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oneguard/internal/middleware"
	"oneguard/internal/reports"
	"oneguard/internal/store"
)

type ReportHandler struct {
	clients store.ClientStore
	objects store.ObjectStore
}

func NewReportHandler(clients store.ClientStore, objects store.ObjectStore) *ReportHandler {
	return &ReportHandler{clients: clients, objects: objects}
}

// Reports — сводка по городам, только для админов.
// Города идут в порядке первичного ключа, пустые города не выводятся.
func (h *ReportHandler) Reports(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	if !caller.IsAdmin() {
		respondError(c, http.StatusForbidden, "Только администраторы могут просматривать отчеты")
		return
	}

	cities, err := h.objects.Cities()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка построения отчета")
		return
	}
	// админ видит все записи — scope тут не режет ничего
	clients, err := h.clients.List(caller)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка построения отчета")
		return
	}

	c.JSON(http.StatusOK, reports.Cities(cities, clients))
}
