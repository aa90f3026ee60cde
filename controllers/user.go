package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propdesk/rental_management_system/backend/apperr"
	"github.com/propdesk/rental_management_system/backend/config"
	"github.com/propdesk/rental_management_system/backend/models"
	"github.com/propdesk/rental_management_system/backend/policy"
	"github.com/propdesk/rental_management_system/backend/utils"
)

// GetTenantProfile reads a tenant's profile. Admins see any tenant,
// landlords only tenants currently assigned to one of their properties,
// tenants only themselves.
func GetTenantProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		tenant, err := fetchTenant(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := authorizeTenantAccess(r.Context(), principal, tenant.ID); err != nil {
			utils.RespondError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched tenant profile",
			Data:    tenant,
		})
	}
}

type TenantProfileUpdate struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergencyContact"`
}

// UpdateTenantProfile edits the tenant-specific fields under the same access
// matrix as reads. Lease dates are not editable here; they mirror from the
// occupancy transitions.
func UpdateTenantProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		var req TenantProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		tenant, err := fetchTenant(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := authorizeTenantAccess(r.Context(), principal, tenant.ID); err != nil {
			utils.RespondError(w, err)
			return
		}

		set := bson.M{}
		if req.Name != "" {
			set["name"] = req.Name
		}
		if req.Phone != "" {
			set["phone"] = req.Phone
		}
		if req.EmergencyContact != "" {
			set["tenantInfo.emergencyContact"] = req.EmergencyContact
		}
		if len(set) == 0 {
			http.Error(w, "No updatable fields supplied", http.StatusBadRequest)
			return
		}

		_, err = config.UserCollection.UpdateOne(r.Context(), bson.M{"_id": tenant.ID}, bson.M{"$set": set})
		if err != nil {
			utils.RespondError(w, apperr.Wrap("updating tenant profile", err))
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Tenant profile updated",
		})
	}
}

func fetchTenant(ctx context.Context, idHex string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "invalid tenant ID")
	}
	var tenant models.User
	err = config.UserCollection.FindOne(ctx, bson.M{"_id": id, "role": models.RoleTenant}).Decode(&tenant)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "tenant not found")
	}
	if err != nil {
		return nil, apperr.Wrap("fetching tenant", err)
	}
	return &tenant, nil
}

// authorizeTenantAccess resolves the tenant's current property (if any) so
// the policy can apply the landlord's assigned-tenant rule.
func authorizeTenantAccess(ctx context.Context, principal policy.Principal, tenantID primitive.ObjectID) error {
	var assigned *models.Property
	if principal.IsLandlord() {
		var property models.Property
		err := config.PropertyCollection.FindOne(ctx, bson.M{"currentTenantID": tenantID}).Decode(&property)
		if err == nil {
			assigned = &property
		} else if err != mongo.ErrNoDocuments {
			return apperr.Wrap("resolving tenant assignment", err)
		}
	}
	return policy.CanAccessTenantProfile(principal, tenantID, assigned)
}
