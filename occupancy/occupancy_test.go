package occupancy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propdesk/rental_management_system/backend/apperr"
	"github.com/propdesk/rental_management_system/backend/models"
	"github.com/propdesk/rental_management_system/backend/occupancy"
)

func TestCanAssignOnlyFromAvailable(t *testing.T) {
	assert.NoError(t, occupancy.CanAssign(&models.Property{Status: models.PropertyAvailable}))

	for _, status := range []models.PropertyStatus{
		models.PropertyOccupied, models.PropertyMaintenance, models.PropertyUnavailable,
	} {
		err := occupancy.CanAssign(&models.Property{Status: status})
		assert.True(t, apperr.IsKind(err, apperr.InvalidState), "assign from %s must fail", status)
	}
}

func TestCanRemoveRequiresMatchingTenant(t *testing.T) {
	tenantID := primitive.NewObjectID()
	other := primitive.NewObjectID()

	occupied := &models.Property{Status: models.PropertyOccupied, CurrentTenantID: &tenantID}
	assert.NoError(t, occupancy.CanRemove(occupied, tenantID))

	err := occupancy.CanRemove(occupied, other)
	assert.True(t, apperr.IsKind(err, apperr.InvalidState))

	vacant := &models.Property{Status: models.PropertyAvailable}
	err = occupancy.CanRemove(vacant, tenantID)
	assert.True(t, apperr.IsKind(err, apperr.InvalidState))
}

// The assign filter re-checks status so two concurrent assignments cannot
// both match the same available property.
func TestAssignUpdateIsConditionalOnAvailable(t *testing.T) {
	propID := primitive.NewObjectID()
	tenantID := primitive.NewObjectID()
	moveIn := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	leaseEnd := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	filter, update := occupancy.AssignUpdate(propID, tenantID, &moveIn, &leaseEnd)

	assert.Equal(t, bson.M{"_id": propID, "status": models.PropertyAvailable}, filter)
	set := update["$set"].(bson.M)
	assert.Equal(t, models.PropertyOccupied, set["status"])
	assert.Equal(t, tenantID, set["currentTenantID"])
	assert.Equal(t, models.LeaseTerms{StartDate: moveIn, EndDate: leaseEnd}, set["leaseTerms"])
}

func TestAssignUpdateWithoutLeaseDates(t *testing.T) {
	filter, update := occupancy.AssignUpdate(primitive.NewObjectID(), primitive.NewObjectID(), nil, nil)

	assert.Equal(t, models.PropertyAvailable, filter["status"])
	set := update["$set"].(bson.M)
	_, hasLease := set["leaseTerms"]
	assert.False(t, hasLease)
}

func TestRemoveUpdateIsConditionalOnTenant(t *testing.T) {
	propID := primitive.NewObjectID()
	tenantID := primitive.NewObjectID()

	filter, update := occupancy.RemoveUpdate(propID, tenantID)

	assert.Equal(t, bson.M{"_id": propID, "currentTenantID": tenantID}, filter)
	set := update["$set"].(bson.M)
	assert.Equal(t, models.PropertyAvailable, set["status"])
	unset := update["$unset"].(bson.M)
	assert.Contains(t, unset, "currentTenantID")
	assert.Contains(t, unset, "leaseTerms")
}

func TestValidateStatusEdit(t *testing.T) {
	tenantID := primitive.NewObjectID()
	vacant := &models.Property{Status: models.PropertyAvailable}
	occupied := &models.Property{Status: models.PropertyOccupied, CurrentTenantID: &tenantID}

	// free administrative edits
	assert.NoError(t, occupancy.ValidateStatusEdit(vacant, models.PropertyMaintenance))
	assert.NoError(t, occupancy.ValidateStatusEdit(vacant, models.PropertyUnavailable))
	assert.NoError(t, occupancy.ValidateStatusEdit(occupied, models.PropertyMaintenance))

	// occupied is reserved for the assign transition
	err := occupancy.ValidateStatusEdit(vacant, models.PropertyOccupied)
	assert.True(t, apperr.IsKind(err, apperr.ValidationFailed))

	// cannot mark available while a tenant still holds the property
	err = occupancy.ValidateStatusEdit(occupied, models.PropertyAvailable)
	assert.True(t, apperr.IsKind(err, apperr.ValidationFailed))

	err = occupancy.ValidateStatusEdit(vacant, models.PropertyStatus("bogus"))
	assert.True(t, apperr.IsKind(err, apperr.ValidationFailed))
}
