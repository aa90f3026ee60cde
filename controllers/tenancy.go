package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propdesk/rental_management_system/backend/apperr"
	"github.com/propdesk/rental_management_system/backend/config"
	"github.com/propdesk/rental_management_system/backend/models"
	"github.com/propdesk/rental_management_system/backend/occupancy"
	"github.com/propdesk/rental_management_system/backend/policy"
	"github.com/propdesk/rental_management_system/backend/utils"
)

type AssignTenantRequest struct {
	TenantID     string     `json:"tenantID" validate:"required"`
	MoveInDate   *time.Time `json:"moveInDate"`
	LeaseEndDate *time.Time `json:"leaseEndDate"`
}

// AssignTenant drives the available -> occupied transition. The final update
// is conditional on status still being available, so two concurrent
// assignments against the same property cannot both succeed.
func AssignTenant(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		var req AssignTenantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid assignment payload: "+err.Error(), http.StatusBadRequest)
			return
		}

		property, err := fetchProperty(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanManageTenancy(principal, property); err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := occupancy.CanAssign(property); err != nil {
			utils.RespondError(w, err)
			return
		}

		tenantID, err := primitive.ObjectIDFromHex(req.TenantID)
		if err != nil {
			utils.RespondError(w, apperr.New(apperr.NotFound, "invalid tenant ID"))
			return
		}
		var tenant models.User
		err = config.UserCollection.FindOne(r.Context(), bson.M{"_id": tenantID, "role": models.RoleTenant}).Decode(&tenant)
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, apperr.New(apperr.NotFound, "tenant not found"))
			return
		}
		if err != nil {
			utils.RespondError(w, apperr.Wrap("fetching tenant", err))
			return
		}

		filter, update := occupancy.AssignUpdate(property.ID, tenantID, req.MoveInDate, req.LeaseEndDate)
		res, err := config.PropertyCollection.UpdateOne(r.Context(), filter, update)
		if err != nil {
			utils.RespondError(w, apperr.Wrap("assigning tenant", err))
			return
		}
		if res.MatchedCount == 0 {
			// Lost the race: the property left available between our read
			// and the conditional write.
			utils.RespondError(w, apperr.New(apperr.InvalidState, "property is no longer available"))
			return
		}

		// Mirror the lease dates onto the tenant's profile.
		tenantSet := bson.M{}
		if req.MoveInDate != nil {
			tenantSet["tenantInfo.moveInDate"] = req.MoveInDate
		}
		if req.LeaseEndDate != nil {
			tenantSet["tenantInfo.leaseEndDate"] = req.LeaseEndDate
		}
		if len(tenantSet) > 0 {
			if _, err := config.UserCollection.UpdateOne(r.Context(), bson.M{"_id": tenantID}, bson.M{"$set": tenantSet}); err != nil {
				log.Printf("Failed to mirror lease dates onto tenant %s: %v", tenantID.Hex(), err)
			}
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Tenant assigned to property",
		})
	}
}

type RemoveTenantRequest struct {
	TenantID string `json:"tenantID" validate:"required"`
}

// RemoveTenant drives the occupied -> available transition, conditional on
// the supplied tenant still holding the property.
func RemoveTenant(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		var req RemoveTenantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid removal payload: "+err.Error(), http.StatusBadRequest)
			return
		}

		property, err := fetchProperty(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanManageTenancy(principal, property); err != nil {
			utils.RespondError(w, err)
			return
		}

		tenantID, err := primitive.ObjectIDFromHex(req.TenantID)
		if err != nil {
			utils.RespondError(w, apperr.New(apperr.InvalidState, "tenant is not currently assigned to this property"))
			return
		}
		if err := occupancy.CanRemove(property, tenantID); err != nil {
			utils.RespondError(w, err)
			return
		}

		filter, update := occupancy.RemoveUpdate(property.ID, tenantID)
		res, err := config.PropertyCollection.UpdateOne(r.Context(), filter, update)
		if err != nil {
			utils.RespondError(w, apperr.Wrap("removing tenant", err))
			return
		}
		if res.MatchedCount == 0 {
			utils.RespondError(w, apperr.New(apperr.InvalidState, "tenant is not currently assigned to this property"))
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Tenant removed from property",
		})
	}
}
