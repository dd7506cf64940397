package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"oneguard/internal/middleware"
	"oneguard/internal/models"
)

type syncRequest struct {
	Data []json.RawMessage `json:"data"`
}

// SyncOffline — пакетная заливка записей, собранных без сети.
// Каждый элемент идёт тем же путём create+история, что и одиночное создание.
// Невалидные элементы молча пропускаются, батч не откатывается:
// отказ на N-м элементе не трогает элементы 1..N-1.
func (h *ClientHandler) SyncOffline(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var req syncRequest
	if fe := bindJSON(c, &req); fe != nil {
		respondFieldErrors(c, fe)
		return
	}

	syncedIDs := make([]uint, 0, len(req.Data))
	for _, raw := range req.Data {
		var payload clientPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			continue
		}
		if fe := payload.validate(h.objects); !fe.Empty() {
			continue
		}

		client := payload.toModel(caller)
		history := &models.ClientHistory{
			UserID: caller.ID,
			Action: fmt.Sprintf("Создана новая запись для квартиры %s", client.ApartmentNumber),
		}
		if err := h.clients.Create(client, history); err != nil {
			continue
		}
		syncedIDs = append(syncedIDs, client.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    fmt.Sprintf("Успешно синхронизировано %d записей", len(syncedIDs)),
		"synced_ids": syncedIDs,
	})
}
