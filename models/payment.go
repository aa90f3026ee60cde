package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCheck        PaymentMethod = "check"
	MethodBankTransfer PaymentMethod = "bank-transfer"
	MethodCard         PaymentMethod = "card"
	MethodOnline       PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCheck, MethodBankTransfer, MethodCard, MethodOnline:
		return true
	}
	return false
}

// Payment records money received against one rent schedule. PropertyID,
// TenantID and LandlordID are copied from the schedule at creation time for
// query efficiency. Payments are immutable after creation except for the
// refund status change.
type Payment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RentScheduleID primitive.ObjectID `bson:"rentScheduleID" json:"rentScheduleID"`
	PropertyID     primitive.ObjectID `bson:"propertyID" json:"propertyID"`
	TenantID       primitive.ObjectID `bson:"tenantID" json:"tenantID"`
	LandlordID     primitive.ObjectID `bson:"landlordID" json:"landlordID"`
	Amount         float64            `bson:"amount" json:"amount"`
	Method         PaymentMethod      `bson:"method" json:"method"`
	Status         PaymentStatus      `bson:"status" json:"status"`
	TransactionID  string             `bson:"transactionId" json:"transactionId"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PaidAt         time.Time          `bson:"paidAt" json:"paidAt"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// PaymentReceipt is the joined view returned after recording a payment.
type PaymentReceipt struct {
	Payment  Payment         `json:"payment"`
	Schedule ScheduleSummary `json:"schedule"`
	Property PropertySummary `json:"property"`
	Tenant   UserSummary     `json:"tenant"`
}
