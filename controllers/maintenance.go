package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propdesk/rental_management_system/backend/apperr"
	"github.com/propdesk/rental_management_system/backend/config"
	"github.com/propdesk/rental_management_system/backend/models"
	"github.com/propdesk/rental_management_system/backend/policy"
	"github.com/propdesk/rental_management_system/backend/utils"
)

type MaintenanceRequest struct {
	Description string `json:"description" validate:"required"`
}

// AddMaintenanceRecord appends to the property's maintenance history. The
// history is append-only; records are never removed.
func AddMaintenanceRecord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		var req MaintenanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid maintenance payload: "+err.Error(), http.StatusBadRequest)
			return
		}

		property, err := fetchProperty(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanAccessProperty(principal, policy.ActionUpdate, property); err != nil {
			utils.RespondError(w, err)
			return
		}

		now := time.Now()
		record := models.MaintenanceRecord{
			ID:          primitive.NewObjectID(),
			Description: req.Description,
			Status:      models.MaintenancePending,
			ReportedAt:  now,
			UpdatedAt:   now,
		}

		_, err = config.PropertyCollection.UpdateOne(r.Context(),
			bson.M{"_id": property.ID},
			bson.M{"$push": bson.M{"maintenanceHistory": record}})
		if err != nil {
			utils.RespondError(w, apperr.Wrap("appending maintenance record", err))
			return
		}

		utils.RespondJSON(w, http.StatusCreated, models.APIResponse{
			Success: true,
			Message: "Maintenance record added",
			Data:    record,
		})
	}
}

type MaintenanceStatusRequest struct {
	Status models.MaintenanceStatus `json:"status" validate:"required,oneof=pending in-progress completed"`
}

// UpdateMaintenanceRecord changes one record's sub-status in place.
func UpdateMaintenanceRecord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		var req MaintenanceStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid maintenance payload: "+err.Error(), http.StatusBadRequest)
			return
		}

		property, err := fetchProperty(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanAccessProperty(principal, policy.ActionUpdate, property); err != nil {
			utils.RespondError(w, err)
			return
		}

		recordID, err := primitive.ObjectIDFromHex(mux.Vars(r)["recordId"])
		if err != nil {
			utils.RespondError(w, apperr.New(apperr.NotFound, "invalid maintenance record ID"))
			return
		}

		res, err := config.PropertyCollection.UpdateOne(r.Context(),
			bson.M{"_id": property.ID, "maintenanceHistory.id": recordID},
			bson.M{"$set": bson.M{
				"maintenanceHistory.$.status":    req.Status,
				"maintenanceHistory.$.updatedAt": time.Now(),
			}})
		if err != nil {
			utils.RespondError(w, apperr.Wrap("updating maintenance record", err))
			return
		}
		if res.MatchedCount == 0 {
			utils.RespondError(w, apperr.New(apperr.NotFound, "maintenance record not found"))
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Maintenance record updated",
		})
	}
}
