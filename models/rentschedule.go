package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ScheduleStatus string

const (
	SchedulePending ScheduleStatus = "pending"
	SchedulePaid    ScheduleStatus = "paid"
	ScheduleOverdue ScheduleStatus = "overdue"
	SchedulePartial ScheduleStatus = "partial"
)

func (s ScheduleStatus) Valid() bool {
	switch s {
	case SchedulePending, SchedulePaid, ScheduleOverdue, SchedulePartial:
		return true
	}
	return false
}

type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// RentSchedule is one due obligation. Recurring/Frequency describe how it was
// generated; once created each schedule is an independent record with no link
// back to its series. LandlordID is denormalized from the property so landlord
// list queries do not need a join.
type RentSchedule struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID    primitive.ObjectID `bson:"propertyID" json:"propertyID"`
	TenantID      primitive.ObjectID `bson:"tenantID" json:"tenantID"`
	LandlordID    primitive.ObjectID `bson:"landlordID" json:"landlordID"`
	Amount        float64            `bson:"amount" json:"amount"`
	DueDate       time.Time          `bson:"dueDate" json:"dueDate"`
	Status        ScheduleStatus     `bson:"status" json:"status"`
	LateFee       float64            `bson:"lateFee" json:"lateFee"`
	Recurring     bool               `bson:"recurring" json:"recurring"`
	Frequency     Frequency          `bson:"frequency,omitempty" json:"frequency,omitempty"`
	PaymentMethod string             `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

type ScheduleSummary struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Amount  float64            `bson:"amount" json:"amount"`
	DueDate time.Time          `bson:"dueDate" json:"dueDate"`
	Status  ScheduleStatus     `bson:"status" json:"status"`
}

func (s *RentSchedule) Summary() ScheduleSummary {
	return ScheduleSummary{ID: s.ID, Amount: s.Amount, DueDate: s.DueDate, Status: s.Status}
}
