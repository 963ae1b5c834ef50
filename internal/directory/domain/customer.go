package domain

import (
	"time"
)

// Customer name is the natural key: the spreadsheet reconciler and the
// transaction importer both match customers by name.
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name" binding:"required"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	Remarks       string    `json:"remarks"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CustomerDefaults carries the upsertable fields for lookup-or-create by name.
type CustomerDefaults struct {
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	Remarks       string
}

type CreateCustomerRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Remarks       string `json:"remarks"`
}

// StoreInfo is the single-row shop metadata printed on documents.
type StoreInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" binding:"required"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Remarks   string    `json:"remarks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
