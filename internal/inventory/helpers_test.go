package inventory

import (
	"github.com/shopspring/decimal"

	"school_ops_backend/internal/models"
)

func ptr[T any](v T) *T { return &v }

func schoolItem(id int64, name string, schoolID int64, schoolName string) models.InventoryItem {
	return models.InventoryItem{
		ID:       id,
		Name:     name,
		Location: models.LocationSchool,
		SchoolID: &schoolID,
		School:   &models.School{ID: schoolID, Name: schoolName},
		Status:   models.StatusAvailable,
	}
}

func hqItem(id int64, name string) models.InventoryItem {
	return models.InventoryItem{
		ID:       id,
		Name:     name,
		Location: models.LocationHeadquarters,
		Status:   models.StatusAvailable,
	}
}

func value(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
