// Package occupancy is the property occupancy state machine. It validates the
// two named transitions (assign tenant, remove tenant) against a property
// snapshot; the handlers apply the effects through a conditional update so a
// concurrent transition cannot double-apply.
package occupancy

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propdesk/rental_management_system/backend/apperr"
	"github.com/propdesk/rental_management_system/backend/models"
)

// CanAssign checks the available -> occupied preconditions. The tenant's
// existence and role are checked by the caller against the user store.
func CanAssign(prop *models.Property) error {
	if prop.Status != models.PropertyAvailable {
		return apperr.Newf(apperr.InvalidState,
			"property is %s, only available properties can be assigned", prop.Status)
	}
	return nil
}

// CanRemove checks the occupied -> available preconditions.
func CanRemove(prop *models.Property, tenantID primitive.ObjectID) error {
	if prop.CurrentTenantID == nil || *prop.CurrentTenantID != tenantID {
		return apperr.New(apperr.InvalidState, "tenant is not currently assigned to this property")
	}
	return nil
}

// AssignUpdate builds the conditional update applying the assign transition.
// The filter re-checks status == available so two concurrent assignments
// cannot both succeed; a MatchedCount of zero means the property changed
// under us.
func AssignUpdate(propertyID, tenantID primitive.ObjectID, moveIn, leaseEnd *time.Time) (filter, update bson.M) {
	filter = bson.M{"_id": propertyID, "status": models.PropertyAvailable}
	set := bson.M{
		"status":          models.PropertyOccupied,
		"currentTenantID": tenantID,
	}
	if moveIn != nil && leaseEnd != nil {
		set["leaseTerms"] = models.LeaseTerms{StartDate: *moveIn, EndDate: *leaseEnd}
	}
	return filter, bson.M{"$set": set}
}

// RemoveUpdate builds the conditional update applying the remove transition,
// keyed on the tenant currently holding the property.
func RemoveUpdate(propertyID, tenantID primitive.ObjectID) (filter, update bson.M) {
	filter = bson.M{"_id": propertyID, "currentTenantID": tenantID}
	update = bson.M{
		"$set":   bson.M{"status": models.PropertyAvailable},
		"$unset": bson.M{"currentTenantID": "", "leaseTerms": ""},
	}
	return filter, update
}

// ValidateStatusEdit guards free-form status edits made through the generic
// property update endpoint. Occupied is reserved for the assign transition,
// and a property cannot be marked available while a tenant still holds it;
// maintenance and unavailable remain free administrative edits.
func ValidateStatusEdit(prop *models.Property, next models.PropertyStatus) error {
	if !next.Valid() {
		return apperr.Newf(apperr.ValidationFailed, "unknown property status %q", next)
	}
	if next == models.PropertyOccupied && prop.Status != models.PropertyOccupied {
		return apperr.New(apperr.ValidationFailed, "status occupied can only be set by assigning a tenant")
	}
	if next == models.PropertyAvailable && prop.CurrentTenantID != nil {
		return apperr.New(apperr.ValidationFailed, "remove the current tenant before marking the property available")
	}
	return nil
}
