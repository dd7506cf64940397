package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"oneguard/internal/models"
	"oneguard/internal/store"
)

type ObjectHandler struct {
	objects store.ObjectStore
}

func NewObjectHandler(objects store.ObjectStore) *ObjectHandler {
	return &ObjectHandler{objects: objects}
}

type objectResponse struct {
	ID         uint              `json:"id"`
	Name       string            `json:"name"`
	Address    string            `json:"address"`
	ObjectType models.ObjectType `json:"object_type"`
	City       uint              `json:"city"`
	CityName   string            `json:"city_name"`
}

func newObjectResponse(o *models.BuildingObject) objectResponse {
	return objectResponse{
		ID:         o.ID,
		Name:       o.Name,
		Address:    o.Address,
		ObjectType: o.ObjectType,
		City:       o.CityID,
		CityName:   o.City.Name,
	}
}

func (h *ObjectHandler) Cities(c *gin.Context) {
	cities, err := h.objects.Cities()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка чтения справочника")
		return
	}
	c.JSON(http.StatusOK, cities)
}

// Objects — список объектов с необязательными фильтрами city_id и object_type.
func (h *ObjectHandler) Objects(c *gin.Context) {
	var filter store.ObjectFilter

	if v := c.Query("city_id"); v != "" {
		cityID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Некорректный city_id")
			return
		}
		filter.CityID = uint(cityID)
	}
	if v := c.Query("object_type"); v != "" {
		ot := models.ObjectType(v)
		if !models.ValidObjectType(ot) {
			respondError(c, http.StatusBadRequest, "Некорректный object_type")
			return
		}
		filter.ObjectType = ot
	}

	objects, err := h.objects.Objects(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка чтения справочника")
		return
	}

	out := make([]objectResponse, 0, len(objects))
	for i := range objects {
		out = append(out, newObjectResponse(&objects[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ObjectHandler) ObjectDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusNotFound, "Объект не найден")
		return
	}

	object, err := h.objects.GetObject(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "Объект не найден")
		return
	}
	c.JSON(http.StatusOK, newObjectResponse(object))
}

// ObjectsByCity — все объекты одного города.
func (h *ObjectHandler) ObjectsByCity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusNotFound, "Город не найден")
		return
	}

	objects, err := h.objects.Objects(store.ObjectFilter{CityID: id})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка чтения справочника")
		return
	}

	out := make([]objectResponse, 0, len(objects))
	for i := range objects {
		out = append(out, newObjectResponse(&objects[i]))
	}
	c.JSON(http.StatusOK, out)
}
