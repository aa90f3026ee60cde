package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propdesk/rental_management_system/backend/apperr"
	"github.com/propdesk/rental_management_system/backend/models"
	"github.com/propdesk/rental_management_system/backend/policy"
)

var (
	adminID    = primitive.NewObjectID()
	landlordID = primitive.NewObjectID()
	otherLLID  = primitive.NewObjectID()
	tenantID   = primitive.NewObjectID()
	otherTenID = primitive.NewObjectID()

	admin    = policy.Principal{ID: adminID, Role: models.RoleAdmin}
	landlord = policy.Principal{ID: landlordID, Role: models.RoleLandlord}
	otherLL  = policy.Principal{ID: otherLLID, Role: models.RoleLandlord}
	tenant   = policy.Principal{ID: tenantID, Role: models.RoleTenant}
	otherTen = policy.Principal{ID: otherTenID, Role: models.RoleTenant}
)

func ownedProperty() *models.Property {
	tid := tenantID
	return &models.Property{
		ID:              primitive.NewObjectID(),
		LandlordID:      landlordID,
		CurrentTenantID: &tid,
		Status:          models.PropertyOccupied,
	}
}

func TestCanAccessProperty(t *testing.T) {
	prop := ownedProperty()

	assert.NoError(t, policy.CanAccessProperty(admin, policy.ActionDelete, prop))
	assert.NoError(t, policy.CanAccessProperty(landlord, policy.ActionUpdate, prop))

	err := policy.CanAccessProperty(otherLL, policy.ActionUpdate, prop)
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))

	// assigned tenant can read but never write
	assert.NoError(t, policy.CanAccessProperty(tenant, policy.ActionRead, prop))
	err = policy.CanAccessProperty(tenant, policy.ActionUpdate, prop)
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))
	err = policy.CanAccessProperty(otherTen, policy.ActionRead, prop)
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))
}

func TestCanCreateProperty(t *testing.T) {
	assert.NoError(t, policy.CanCreateProperty(admin, otherLLID))
	assert.NoError(t, policy.CanCreateProperty(landlord, landlordID))

	err := policy.CanCreateProperty(landlord, otherLLID)
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))
	err = policy.CanCreateProperty(tenant, landlordID)
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))
}

func TestCanManageTenancy(t *testing.T) {
	prop := ownedProperty()

	assert.NoError(t, policy.CanManageTenancy(admin, prop))
	assert.NoError(t, policy.CanManageTenancy(landlord, prop))
	assert.True(t, apperr.IsKind(policy.CanManageTenancy(otherLL, prop), apperr.Forbidden))
	assert.True(t, apperr.IsKind(policy.CanManageTenancy(tenant, prop), apperr.Forbidden))
}

func TestCanAccessSchedule(t *testing.T) {
	sched := &models.RentSchedule{
		ID:         primitive.NewObjectID(),
		LandlordID: landlordID,
		TenantID:   tenantID,
	}

	assert.NoError(t, policy.CanAccessSchedule(admin, policy.ActionDelete, sched))
	assert.NoError(t, policy.CanAccessSchedule(landlord, policy.ActionDelete, sched))
	assert.True(t, apperr.IsKind(policy.CanAccessSchedule(otherLL, policy.ActionRead, sched), apperr.Forbidden))

	// own schedules: read and (limited) update only
	assert.NoError(t, policy.CanAccessSchedule(tenant, policy.ActionRead, sched))
	assert.NoError(t, policy.CanAccessSchedule(tenant, policy.ActionUpdate, sched))
	assert.True(t, apperr.IsKind(policy.CanAccessSchedule(tenant, policy.ActionDelete, sched), apperr.Forbidden))
	assert.True(t, apperr.IsKind(policy.CanAccessSchedule(otherTen, policy.ActionRead, sched), apperr.Forbidden))
}

func TestCanRecordPayment(t *testing.T) {
	sched := &models.RentSchedule{LandlordID: landlordID, TenantID: tenantID}

	assert.NoError(t, policy.CanRecordPayment(admin, sched))
	assert.NoError(t, policy.CanRecordPayment(landlord, sched))
	assert.NoError(t, policy.CanRecordPayment(tenant, sched))
	assert.True(t, apperr.IsKind(policy.CanRecordPayment(otherLL, sched), apperr.Forbidden))
	assert.True(t, apperr.IsKind(policy.CanRecordPayment(otherTen, sched), apperr.Forbidden))
}

func TestCanAccessPayment(t *testing.T) {
	pay := &models.Payment{LandlordID: landlordID, TenantID: tenantID}

	assert.NoError(t, policy.CanAccessPayment(admin, policy.ActionUpdate, pay))
	assert.NoError(t, policy.CanAccessPayment(landlord, policy.ActionUpdate, pay))
	assert.NoError(t, policy.CanAccessPayment(tenant, policy.ActionRead, pay))
	assert.True(t, apperr.IsKind(policy.CanAccessPayment(tenant, policy.ActionUpdate, pay), apperr.Forbidden))
	assert.True(t, apperr.IsKind(policy.CanAccessPayment(otherTen, policy.ActionRead, pay), apperr.Forbidden))
}

func TestCanAccessTenantProfile(t *testing.T) {
	prop := ownedProperty()

	assert.NoError(t, policy.CanAccessTenantProfile(admin, tenantID, nil))
	assert.NoError(t, policy.CanAccessTenantProfile(tenant, tenantID, nil))
	assert.True(t, apperr.IsKind(policy.CanAccessTenantProfile(otherTen, tenantID, nil), apperr.Forbidden))

	// landlord needs the tenant assigned to one of their properties
	assert.NoError(t, policy.CanAccessTenantProfile(landlord, tenantID, prop))
	assert.True(t, apperr.IsKind(policy.CanAccessTenantProfile(landlord, tenantID, nil), apperr.Forbidden))
	assert.True(t, apperr.IsKind(policy.CanAccessTenantProfile(otherLL, tenantID, prop), apperr.Forbidden))
}

// One entity per role: the scope filter is what separates each principal's
// view on list queries.
func TestScopeFilter(t *testing.T) {
	for _, kind := range []policy.EntityKind{policy.KindProperty, policy.KindSchedule, policy.KindPayment} {
		assert.Equal(t, bson.M{}, policy.ScopeFilter(admin, kind), "admin sees everything")
	}

	assert.Equal(t, bson.M{"landlordID": landlordID}, policy.ScopeFilter(landlord, policy.KindProperty))
	assert.Equal(t, bson.M{"landlordID": landlordID}, policy.ScopeFilter(landlord, policy.KindSchedule))
	assert.Equal(t, bson.M{"landlordID": landlordID}, policy.ScopeFilter(landlord, policy.KindPayment))

	assert.Equal(t, bson.M{"currentTenantID": tenantID}, policy.ScopeFilter(tenant, policy.KindProperty))
	assert.Equal(t, bson.M{"tenantID": tenantID}, policy.ScopeFilter(tenant, policy.KindSchedule))
	assert.Equal(t, bson.M{"tenantID": tenantID}, policy.ScopeFilter(tenant, policy.KindPayment))
}

func TestScopeFilterUnknownKindMatchesNothing(t *testing.T) {
	filter := policy.ScopeFilter(tenant, policy.EntityKind("bogus"))
	assert.Equal(t, bson.M{"_id": bson.M{"$exists": false}}, filter)
}
