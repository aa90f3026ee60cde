// Package policy is the access-control matrix for the three roles. CanAccess
// gates direct-by-id operations; ScopeFilter narrows list queries. Both are
// pure functions of the principal and the target snapshot, so they can be
// tested without a live store.
package policy

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propdesk/rental_management_system/backend/apperr"
	"github.com/propdesk/rental_management_system/backend/models"
)

// Principal is the authenticated actor. The auth middleware guarantees both
// fields are set before any handler runs.
type Principal struct {
	ID   primitive.ObjectID
	Role models.Role
}

func (p Principal) IsAdmin() bool    { return p.Role == models.RoleAdmin }
func (p Principal) IsLandlord() bool { return p.Role == models.RoleLandlord }
func (p Principal) IsTenant() bool   { return p.Role == models.RoleTenant }

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionAssign Action = "assign"
)

type EntityKind string

const (
	KindProperty EntityKind = "property"
	KindSchedule EntityKind = "rent_schedule"
	KindPayment  EntityKind = "payment"
)

// CanAccessProperty gates direct property operations. Tenants may read their
// assigned property and nothing else; landlords own their properties; admins
// bypass everything.
func CanAccessProperty(p Principal, action Action, prop *models.Property) error {
	if p.IsAdmin() {
		return nil
	}
	if p.IsLandlord() {
		if prop.LandlordID == p.ID {
			return nil
		}
		return apperr.New(apperr.Forbidden, "property belongs to another landlord")
	}
	// tenant
	if action == ActionRead && prop.CurrentTenantID != nil && *prop.CurrentTenantID == p.ID {
		return nil
	}
	return apperr.New(apperr.Forbidden, "tenants may only view their assigned property")
}

// CanCreateProperty checks who the new property may be created for.
func CanCreateProperty(p Principal, landlordID primitive.ObjectID) error {
	if p.IsAdmin() {
		return nil
	}
	if p.IsLandlord() {
		if landlordID == p.ID {
			return nil
		}
		return apperr.New(apperr.Forbidden, "landlords may only create properties for themselves")
	}
	return apperr.New(apperr.Forbidden, "tenants may not create properties")
}

// CanManageTenancy gates assign/remove tenant on a property.
func CanManageTenancy(p Principal, prop *models.Property) error {
	if p.IsAdmin() {
		return nil
	}
	if p.IsLandlord() && prop.LandlordID == p.ID {
		return nil
	}
	return apperr.New(apperr.Forbidden, "only the property's landlord or an admin may manage tenancy")
}

// CanAccessSchedule gates direct rent-schedule operations. Tenants may read
// and update (limited fields, enforced by the handler) their own schedules but
// never create or delete them.
func CanAccessSchedule(p Principal, action Action, sched *models.RentSchedule) error {
	if p.IsAdmin() {
		return nil
	}
	if p.IsLandlord() {
		if sched.LandlordID == p.ID {
			return nil
		}
		return apperr.New(apperr.Forbidden, "schedule belongs to another landlord's property")
	}
	// tenant
	if sched.TenantID != p.ID {
		return apperr.New(apperr.Forbidden, "schedule belongs to another tenant")
	}
	switch action {
	case ActionRead, ActionUpdate:
		return nil
	}
	return apperr.Newf(apperr.Forbidden, "tenants may not %s rent schedules", action)
}

// CanCreateSchedule checks schedule creation against the target property.
func CanCreateSchedule(p Principal, prop *models.Property) error {
	if p.IsAdmin() {
		return nil
	}
	if p.IsLandlord() {
		if prop.LandlordID == p.ID {
			return nil
		}
		return apperr.New(apperr.Forbidden, "schedules may only be created for your own properties")
	}
	return apperr.New(apperr.Forbidden, "tenants may not create rent schedules")
}

// CanRecordPayment gates recording a payment against a schedule: admin, the
// owning landlord, or the schedule's own tenant.
func CanRecordPayment(p Principal, sched *models.RentSchedule) error {
	if p.IsAdmin() {
		return nil
	}
	if p.IsLandlord() && sched.LandlordID == p.ID {
		return nil
	}
	if p.IsTenant() && sched.TenantID == p.ID {
		return nil
	}
	return apperr.New(apperr.Forbidden, "not permitted to record payments for this schedule")
}

// CanAccessPayment gates direct payment reads and the refund status change.
func CanAccessPayment(p Principal, action Action, pay *models.Payment) error {
	if p.IsAdmin() {
		return nil
	}
	if p.IsLandlord() {
		if pay.LandlordID == p.ID {
			return nil
		}
		return apperr.New(apperr.Forbidden, "payment belongs to another landlord's property")
	}
	// tenant: read own payments only
	if action == ActionRead && pay.TenantID == p.ID {
		return nil
	}
	return apperr.New(apperr.Forbidden, "not permitted for this payment")
}

// CanAccessTenantProfile gates reading/updating a tenant's profile. The
// assigned check for landlords needs the tenant's current property, supplied
// by the caller (nil when the tenant is not assigned anywhere).
func CanAccessTenantProfile(p Principal, tenantID primitive.ObjectID, assignedProperty *models.Property) error {
	if p.IsAdmin() {
		return nil
	}
	if p.IsTenant() {
		if tenantID == p.ID {
			return nil
		}
		return apperr.New(apperr.Forbidden, "tenants may only access their own profile")
	}
	// landlord: only tenants currently assigned to one of their properties
	if assignedProperty != nil && assignedProperty.LandlordID == p.ID {
		return nil
	}
	return apperr.New(apperr.Forbidden, "tenant is not assigned to any of your properties")
}

// ScopeFilter returns the Mongo predicate narrowing a list query to what the
// principal may see. It never errors: an over-narrow filter simply yields an
// empty list, which is a valid result.
func ScopeFilter(p Principal, kind EntityKind) bson.M {
	if p.IsAdmin() {
		return bson.M{}
	}
	switch kind {
	case KindProperty:
		if p.IsLandlord() {
			return bson.M{"landlordID": p.ID}
		}
		return bson.M{"currentTenantID": p.ID}
	case KindSchedule, KindPayment:
		if p.IsLandlord() {
			return bson.M{"landlordID": p.ID}
		}
		return bson.M{"tenantID": p.ID}
	}
	// Unknown kinds match nothing rather than everything.
	return bson.M{"_id": bson.M{"$exists": false}}
}
