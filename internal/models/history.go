package models

import "time"

// ClientHistory — журнал действий над записью клиента.
// Только добавление: строки не правятся и уходят лишь каскадом,
// вместе с самой записью клиента.
type ClientHistory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientDataID uint       `gorm:"not null;index" json:"client_data"`
	ClientData   ClientData `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	UserID uint `gorm:"not null" json:"user"`
	User   User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Action    string    `gorm:"size:200;not null" json:"action"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}
