package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"oneguard/internal/middleware"
	"oneguard/internal/models"
	"oneguard/internal/store"
)

type ClientHandler struct {
	clients store.ClientStore
	objects store.ObjectStore
}

func NewClientHandler(clients store.ClientStore, objects store.ObjectStore) *ClientHandler {
	return &ClientHandler{clients: clients, objects: objects}
}

// clientResponse — запись клиента с развёрнутыми именами связей.
type clientResponse struct {
	ID                    uint               `json:"id"`
	Engineer              uint               `json:"engineer"`
	EngineerName          string             `json:"engineer_name"`
	BuildingObject        uint               `json:"building_object"`
	BuildingObjectName    string             `json:"building_object_name"`
	BuildingObjectAddress string             `json:"building_object_address"`
	CityName              string             `json:"city_name"`
	ApartmentNumber       string             `json:"apartment_number"`
	ContactPhone          string             `json:"contact_phone"`
	UsedServices          models.ServiceList `json:"used_services"`
	InterestedServices    models.ServiceList `json:"interested_services"`
	ProviderRating        *int               `json:"provider_rating"`
	DesiredPrice          *float64           `json:"desired_price"`
	Notes                 string             `json:"notes"`
	Latitude              *float64           `json:"latitude"`
	Longitude             *float64           `json:"longitude"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

func newClientResponse(c *models.ClientData) clientResponse {
	resp := clientResponse{
		ID:                    c.ID,
		Engineer:              c.EngineerID,
		EngineerName:          c.Engineer.Username,
		BuildingObject:        c.BuildingObjectID,
		BuildingObjectName:    c.BuildingObject.Name,
		BuildingObjectAddress: c.BuildingObject.Address,
		CityName:              c.BuildingObject.City.Name,
		ApartmentNumber:       c.ApartmentNumber,
		ContactPhone:          c.ContactPhone,
		UsedServices:          c.UsedServices,
		InterestedServices:    c.InterestedServices,
		ProviderRating:        c.ProviderRating,
		DesiredPrice:          c.DesiredPrice,
		Notes:                 c.Notes,
		Latitude:              c.Latitude,
		Longitude:             c.Longitude,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
	if resp.UsedServices == nil {
		resp.UsedServices = models.ServiceList{}
	}
	if resp.InterestedServices == nil {
		resp.InterestedServices = models.ServiceList{}
	}
	return resp
}

// clientPayload — то, что клиентское приложение может прислать.
// Инженер здесь отсутствует сознательно: его назначает сервер.
type clientPayload struct {
	BuildingObject     uint             `json:"building_object"`
	ApartmentNumber    string           `json:"apartment_number"`
	ContactPhone       string           `json:"contact_phone"`
	UsedServices       []models.Service `json:"used_services"`
	InterestedServices []models.Service `json:"interested_services"`
	ProviderRating     *int             `json:"provider_rating"`
	DesiredPrice       *float64         `json:"desired_price"`
	Notes              string           `json:"notes"`
	Latitude           *float64         `json:"latitude"`
	Longitude          *float64         `json:"longitude"`
}

func validateServices(fe FieldErrors, field string, services []models.Service) {
	for _, s := range services {
		if !models.ValidService(s) {
			fe.Add(field, fmt.Sprintf("Неизвестная услуга: %s", s))
		}
	}
}

func (p *clientPayload) validate(objects store.ObjectStore) FieldErrors {
	fe := FieldErrors{}

	if p.BuildingObject == 0 {
		fe.Add("building_object", "Обязательное поле")
	} else if _, err := objects.GetObject(p.BuildingObject); err != nil {
		fe.Add("building_object", "Объект не найден")
	}
	if p.ApartmentNumber == "" {
		fe.Add("apartment_number", "Обязательное поле")
	} else if len(p.ApartmentNumber) > 10 {
		fe.Add("apartment_number", "Не длиннее 10 символов")
	}
	if p.ContactPhone == "" {
		fe.Add("contact_phone", "Обязательное поле")
	} else if len(p.ContactPhone) > 20 {
		fe.Add("contact_phone", "Не длиннее 20 символов")
	}
	validateServices(fe, "used_services", p.UsedServices)
	validateServices(fe, "interested_services", p.InterestedServices)
	if p.ProviderRating != nil && (*p.ProviderRating < 1 || *p.ProviderRating > 5) {
		fe.Add("provider_rating", "Оценка должна быть от 1 до 5")
	}

	return fe
}

func (p *clientPayload) toModel(engineer *models.User) *models.ClientData {
	used := p.UsedServices
	if used == nil {
		used = []models.Service{}
	}
	interested := p.InterestedServices
	if interested == nil {
		interested = []models.Service{}
	}
	return &models.ClientData{
		EngineerID:         engineer.ID,
		BuildingObjectID:   p.BuildingObject,
		ApartmentNumber:    p.ApartmentNumber,
		ContactPhone:       p.ContactPhone,
		UsedServices:       models.ServiceList(used),
		InterestedServices: models.ServiceList(interested),
		ProviderRating:     p.ProviderRating,
		DesiredPrice:       p.DesiredPrice,
		Notes:              p.Notes,
		Latitude:           p.Latitude,
		Longitude:          p.Longitude,
	}
}

// List — записи в зоне видимости вызывающего, свежие сверху.
func (h *ClientHandler) List(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	clients, err := h.clients.List(caller)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка чтения записей")
		return
	}

	out := make([]clientResponse, 0, len(clients))
	for i := range clients {
		out = append(out, newClientResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Create — новая запись; инженер всегда равен вызывающему,
// строка истории пишется той же транзакцией.
func (h *ClientHandler) Create(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var payload clientPayload
	if fe := bindJSON(c, &payload); fe != nil {
		respondFieldErrors(c, fe)
		return
	}
	if fe := payload.validate(h.objects); !fe.Empty() {
		respondFieldErrors(c, fe)
		return
	}

	client := payload.toModel(caller)
	history := &models.ClientHistory{
		UserID: caller.ID,
		Action: fmt.Sprintf("Создана новая запись для квартиры %s", client.ApartmentNumber),
	}
	if err := h.clients.Create(client, history); err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения записи")
		return
	}

	created, err := h.clients.Get(caller, client.ID)
	if err != nil {
		// запись создана, но перечитать не вышло — отдаём, что есть
		c.JSON(http.StatusCreated, newClientResponse(client))
		return
	}
	c.JSON(http.StatusCreated, newClientResponse(created))
}

// notFoundOrError — один ответ и для чужих записей, и для несуществующих.
func notFoundOrError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Запись не найдена")
		return
	}
	respondError(c, http.StatusInternalServerError, "Ошибка чтения записи")
}
