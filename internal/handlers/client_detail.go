package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"oneguard/internal/middleware"
	"oneguard/internal/models"
	"oneguard/internal/store"
)

func (h *ClientHandler) Detail(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusNotFound, "Запись не найдена")
		return
	}

	client, err := h.clients.Get(caller, id)
	if err != nil {
		notFoundOrError(c, err)
		return
	}
	c.JSON(http.StatusOK, newClientResponse(client))
}

// clientUpdatePayload — частичное обновление: трогаем только присланные поля.
// Поля engineer здесь нет: после создания оно неизменяемо.
type clientUpdatePayload struct {
	BuildingObject     *uint             `json:"building_object"`
	ApartmentNumber    *string           `json:"apartment_number"`
	ContactPhone       *string           `json:"contact_phone"`
	UsedServices       *[]models.Service `json:"used_services"`
	InterestedServices *[]models.Service `json:"interested_services"`
	ProviderRating     *int              `json:"provider_rating"`
	DesiredPrice       *float64          `json:"desired_price"`
	Notes              *string           `json:"notes"`
	Latitude           *float64          `json:"latitude"`
	Longitude          *float64          `json:"longitude"`
}

func (p *clientUpdatePayload) validate(objects store.ObjectStore) FieldErrors {
	fe := FieldErrors{}

	if p.BuildingObject != nil {
		if *p.BuildingObject == 0 {
			fe.Add("building_object", "Обязательное поле")
		} else if _, err := objects.GetObject(*p.BuildingObject); err != nil {
			fe.Add("building_object", "Объект не найден")
		}
	}
	if p.ApartmentNumber != nil {
		if *p.ApartmentNumber == "" {
			fe.Add("apartment_number", "Обязательное поле")
		} else if len(*p.ApartmentNumber) > 10 {
			fe.Add("apartment_number", "Не длиннее 10 символов")
		}
	}
	if p.ContactPhone != nil {
		if *p.ContactPhone == "" {
			fe.Add("contact_phone", "Обязательное поле")
		} else if len(*p.ContactPhone) > 20 {
			fe.Add("contact_phone", "Не длиннее 20 символов")
		}
	}
	if p.UsedServices != nil {
		validateServices(fe, "used_services", *p.UsedServices)
	}
	if p.InterestedServices != nil {
		validateServices(fe, "interested_services", *p.InterestedServices)
	}
	if p.ProviderRating != nil && (*p.ProviderRating < 1 || *p.ProviderRating > 5) {
		fe.Add("provider_rating", "Оценка должна быть от 1 до 5")
	}

	return fe
}

func (p *clientUpdatePayload) apply(client *models.ClientData) {
	if p.BuildingObject != nil {
		client.BuildingObjectID = *p.BuildingObject
	}
	if p.ApartmentNumber != nil {
		client.ApartmentNumber = *p.ApartmentNumber
	}
	if p.ContactPhone != nil {
		client.ContactPhone = *p.ContactPhone
	}
	if p.UsedServices != nil {
		client.UsedServices = models.ServiceList(*p.UsedServices)
	}
	if p.InterestedServices != nil {
		client.InterestedServices = models.ServiceList(*p.InterestedServices)
	}
	if p.ProviderRating != nil {
		client.ProviderRating = p.ProviderRating
	}
	if p.DesiredPrice != nil {
		client.DesiredPrice = p.DesiredPrice
	}
	if p.Notes != nil {
		client.Notes = *p.Notes
	}
	if p.Latitude != nil {
		client.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		client.Longitude = p.Longitude
	}
}

// Update обслуживает и PUT, и PATCH. Область видимости та же, что у Get;
// на успех — ровно одна строка истории, в одной транзакции с записью.
func (h *ClientHandler) Update(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusNotFound, "Запись не найдена")
		return
	}

	client, err := h.clients.Get(caller, id)
	if err != nil {
		notFoundOrError(c, err)
		return
	}

	var payload clientUpdatePayload
	if fe := bindJSON(c, &payload); fe != nil {
		respondFieldErrors(c, fe)
		return
	}
	if fe := payload.validate(h.objects); !fe.Empty() {
		respondFieldErrors(c, fe)
		return
	}

	payload.apply(client)
	history := &models.ClientHistory{
		UserID: caller.ID,
		Action: "Обновлены данные клиента",
	}
	if err := h.clients.Update(client, history); err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения записи")
		return
	}

	updated, err := h.clients.Get(caller, client.ID)
	if err != nil {
		c.JSON(http.StatusOK, newClientResponse(client))
		return
	}
	c.JSON(http.StatusOK, newClientResponse(updated))
}

func (h *ClientHandler) Delete(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusNotFound, "Запись не найдена")
		return
	}

	if err := h.clients.Delete(caller, id); err != nil {
		notFoundOrError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type historyResponse struct {
	ID         uint      `json:"id"`
	ClientData uint      `json:"client_data"`
	User       uint      `json:"user"`
	UserName   string    `json:"user_name"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// History — журнал действий по записи, свежие сверху.
func (h *ClientHandler) History(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusNotFound, "Запись не найдена")
		return
	}

	logs, err := h.clients.History(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка чтения истории")
		return
	}

	out := make([]historyResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, historyResponse{
			ID:         l.ID,
			ClientData: l.ClientDataID,
			User:       l.UserID,
			UserName:   l.User.Username,
			Action:     l.Action,
			Timestamp:  l.Timestamp,
		})
	}
	c.JSON(http.StatusOK, out)
}
