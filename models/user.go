package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLandlord Role = "landlord"
	RoleTenant   Role = "tenant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLandlord, RoleTenant:
		return true
	}
	return false
}

// TenantInfo is only meaningful when Role == tenant.
type TenantInfo struct {
	EmergencyContact string     `bson:"emergencyContact,omitempty" json:"emergencyContact,omitempty"`
	MoveInDate       *time.Time `bson:"moveInDate,omitempty" json:"moveInDate,omitempty"`
	LeaseEndDate     *time.Time `bson:"leaseEndDate,omitempty" json:"leaseEndDate,omitempty"`
}

// LandlordInfo is only meaningful when Role == landlord.
type LandlordInfo struct {
	CompanyName    string `bson:"companyName,omitempty" json:"companyName,omitempty"`
	CompanyAddress string `bson:"companyAddress,omitempty" json:"companyAddress,omitempty"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string             `bson:"userID" json:"userID"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      Role               `bson:"role" json:"role"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`

	// Exactly one of these is set, matching Role.
	TenantInfo   *TenantInfo   `bson:"tenantInfo,omitempty" json:"tenantInfo,omitempty"`
	LandlordInfo *LandlordInfo `bson:"landlordInfo,omitempty" json:"landlordInfo,omitempty"`
}

// Summary strips credentials and sub-records for embedding in joined responses.
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Role  Role               `bson:"role" json:"role"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
