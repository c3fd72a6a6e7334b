package model

import "time"

type Vehicle struct {
	ID             int64
	Plate          string
	ModelName      string
	Color          string
	EnterpriseID   *int64
	ActiveDriverID *int64
	PurchaseDate   time.Time
}

type Driver struct {
	ID           int64
	Name         string
	EnterpriseID *int64
}
