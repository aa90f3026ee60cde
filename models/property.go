package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PropertyStatus string

const (
	PropertyAvailable   PropertyStatus = "available"
	PropertyOccupied    PropertyStatus = "occupied"
	PropertyMaintenance PropertyStatus = "maintenance"
	PropertyUnavailable PropertyStatus = "unavailable"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyAvailable, PropertyOccupied, PropertyMaintenance, PropertyUnavailable:
		return true
	}
	return false
}

type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "pending"
	MaintenanceInProgress MaintenanceStatus = "in-progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenancePending, MaintenanceInProgress, MaintenanceCompleted:
		return true
	}
	return false
}

// MaintenanceRecord entries are append-only; only Status and UpdatedAt change
// after creation.
type MaintenanceRecord struct {
	ID          primitive.ObjectID `bson:"id" json:"id"`
	Description string             `bson:"description" json:"description"`
	Status      MaintenanceStatus  `bson:"status" json:"status"`
	ReportedAt  time.Time          `bson:"reportedAt" json:"reportedAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LeaseTerms is only meaningful while the property is occupied.
type LeaseTerms struct {
	StartDate time.Time `bson:"startDate" json:"startDate"`
	EndDate   time.Time `bson:"endDate" json:"endDate"`
}

type Property struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title              string              `bson:"title" json:"title"`
	Address            string              `bson:"address" json:"address"`
	City               string              `bson:"city" json:"city"`
	State              string              `bson:"state" json:"state"`
	RentAmount         float64             `bson:"rentAmount" json:"rentAmount"`
	Bedrooms           int                 `bson:"bedrooms" json:"bedrooms"`
	Bathrooms          int                 `bson:"bathrooms" json:"bathrooms"`
	AreaSqFt           int                 `bson:"areaSqFt" json:"areaSqFt"`
	LandlordID         primitive.ObjectID  `bson:"landlordID" json:"landlordID"`
	CurrentTenantID    *primitive.ObjectID `bson:"currentTenantID,omitempty" json:"currentTenantID,omitempty"`
	Status             PropertyStatus      `bson:"status" json:"status"`
	LeaseTerms         *LeaseTerms         `bson:"leaseTerms,omitempty" json:"leaseTerms,omitempty"`
	MaintenanceHistory []MaintenanceRecord `bson:"maintenanceHistory" json:"maintenanceHistory"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
}

type PropertySummary struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Title   string             `bson:"title" json:"title"`
	Address string             `bson:"address" json:"address"`
	City    string             `bson:"city" json:"city"`
}

func (p *Property) Summary() PropertySummary {
	return PropertySummary{ID: p.ID, Title: p.Title, Address: p.Address, City: p.City}
}
