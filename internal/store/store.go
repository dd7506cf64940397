package store

import (
	"errors"

	"oneguard/internal/models"
)

// ErrNotFound возвращается и для несуществующих id, и для записей вне
// зоны видимости вызывающего — снаружи это неотличимо (как пустой queryset).
var ErrNotFound = errors.New("record not found")

// ClientStore — хранилище записей клиентов вместе с журналом истории.
// Create и Update пишут запись и строку истории одной транзакцией:
// либо происходит и то и другое, либо ничего.
type ClientStore interface {
	List(caller *models.User) ([]models.ClientData, error)
	Get(caller *models.User, id uint) (*models.ClientData, error)
	Create(c *models.ClientData, h *models.ClientHistory) error
	Update(c *models.ClientData, h *models.ClientHistory) error
	Delete(caller *models.User, id uint) error
	History(clientID uint) ([]models.ClientHistory, error)
}

type UserStore interface {
	List(caller *models.User) ([]models.User, error)
	Get(caller *models.User, id uint) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Create(u *models.User) error
	Save(u *models.User) error
}

// ObjectFilter — необязательные фильтры списка объектов.
type ObjectFilter struct {
	CityID     uint
	ObjectType models.ObjectType
}

type ObjectStore interface {
	Cities() ([]models.City, error)
	Objects(f ObjectFilter) ([]models.BuildingObject, error)
	GetObject(id uint) (*models.BuildingObject, error)
}
