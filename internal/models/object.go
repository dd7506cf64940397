package models

type City struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

type ObjectType string

const (
	ObjectMCD        ObjectType = "mcd" // многоквартирный дом
	ObjectHotel      ObjectType = "hotel"
	ObjectCafe       ObjectType = "cafe"
	ObjectRestaurant ObjectType = "restaurant"
)

// ValidObjectType — допустимые типы объектов для фильтра и валидации.
func ValidObjectType(t ObjectType) bool {
	switch t {
	case ObjectMCD, ObjectHotel, ObjectCafe, ObjectRestaurant:
		return true
	}
	return false
}

type BuildingObject struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"size:200;not null" json:"name"`
	Address    string     `gorm:"type:text" json:"address"`
	ObjectType ObjectType `gorm:"type:varchar(20);not null" json:"object_type"`

	CityID uint `gorm:"not null" json:"city"`
	City   City `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
