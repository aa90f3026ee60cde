package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/propdesk/rental_management_system/backend/apperr"
	"github.com/propdesk/rental_management_system/backend/config"
	"github.com/propdesk/rental_management_system/backend/models"
	"github.com/propdesk/rental_management_system/backend/policy"
	"github.com/propdesk/rental_management_system/backend/schedule"
	"github.com/propdesk/rental_management_system/backend/utils"
)

type CreateScheduleRequest struct {
	PropertyID    string    `json:"propertyID" validate:"required"`
	TenantID      string    `json:"tenantID" validate:"required"`
	Amount        float64   `json:"amount" validate:"gte=0"`
	DueDate       time.Time `json:"dueDate" validate:"required"`
	LateFee       float64   `json:"lateFee" validate:"gte=0"`
	PaymentMethod string    `json:"paymentMethod"`
}

func CreateRentSchedule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		var req CreateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid schedule payload: "+err.Error(), http.StatusBadRequest)
			return
		}

		property, tenantID, err := resolveScheduleTarget(r.Context(), principal, req.PropertyID, req.TenantID)
		if err != nil {
			utils.RespondError(w, err)
			return
		}

		sched := models.RentSchedule{
			ID:            primitive.NewObjectID(),
			PropertyID:    property.ID,
			TenantID:      tenantID,
			LandlordID:    property.LandlordID,
			Amount:        req.Amount,
			DueDate:       req.DueDate,
			Status:        models.SchedulePending,
			LateFee:       req.LateFee,
			PaymentMethod: req.PaymentMethod,
			CreatedAt:     time.Now(),
		}

		if _, err := config.ScheduleCollection.InsertOne(r.Context(), sched); err != nil {
			utils.RespondError(w, apperr.Wrap("inserting rent schedule", err))
			return
		}

		utils.RespondJSON(w, http.StatusCreated, models.APIResponse{
			Success: true,
			Message: "Rent schedule created",
			Data:    sched,
		})
	}
}

type BulkScheduleRequest struct {
	PropertyID    string           `json:"propertyID" validate:"required"`
	TenantID      string           `json:"tenantID" validate:"required"`
	Amount        float64          `json:"amount" validate:"gte=0"`
	StartDate     time.Time        `json:"startDate" validate:"required"`
	EndDate       time.Time        `json:"endDate" validate:"required"`
	Frequency     models.Frequency `json:"frequency" validate:"required,oneof=monthly quarterly yearly"`
	LateFee       float64          `json:"lateFee" validate:"gte=0"`
	PaymentMethod string           `json:"paymentMethod"`
}

type BulkScheduleResponse struct {
	Count     int                   `json:"count"`
	Schedules []models.RentSchedule `json:"schedules"`
}

// BulkGenerateSchedules expands a start/end/frequency request into one
// pending schedule per period and inserts them as a batch, preserving
// due-date order. A start date after the end date yields an empty batch,
// not an error.
func BulkGenerateSchedules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		var req BulkScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid bulk schedule payload: "+err.Error(), http.StatusBadRequest)
			return
		}

		property, tenantID, err := resolveScheduleTarget(r.Context(), principal, req.PropertyID, req.TenantID)
		if err != nil {
			utils.RespondError(w, err)
			return
		}

		dueDates := schedule.DueDates(req.StartDate, req.EndDate, req.Frequency)
		now := time.Now()
		schedules := make([]models.RentSchedule, 0, len(dueDates))
		docs := make([]interface{}, 0, len(dueDates))
		for _, due := range dueDates {
			s := models.RentSchedule{
				ID:            primitive.NewObjectID(),
				PropertyID:    property.ID,
				TenantID:      tenantID,
				LandlordID:    property.LandlordID,
				Amount:        req.Amount,
				DueDate:       due,
				Status:        models.SchedulePending,
				LateFee:       req.LateFee,
				Recurring:     true,
				Frequency:     req.Frequency,
				PaymentMethod: req.PaymentMethod,
				CreatedAt:     now,
			}
			schedules = append(schedules, s)
			docs = append(docs, s)
		}

		if len(docs) > 0 {
			// Ordered insert keeps the generated due-date order.
			opts := options.InsertMany().SetOrdered(true)
			if _, err := config.ScheduleCollection.InsertMany(r.Context(), docs, opts); err != nil {
				utils.RespondError(w, apperr.Wrap("inserting rent schedules", err))
				return
			}
		}

		utils.RespondJSON(w, http.StatusCreated, models.APIResponse{
			Success: true,
			Message: "Rent schedules generated",
			Data:    BulkScheduleResponse{Count: len(schedules), Schedules: schedules},
		})
	}
}

func GetRentSchedules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		filter := policy.ScopeFilter(principal, policy.KindSchedule)
		query := r.URL.Query()
		if status := query.Get("status"); status != "" {
			filter["status"] = status
		}
		if propertyID := query.Get("propertyID"); propertyID != "" {
			id, err := primitive.ObjectIDFromHex(propertyID)
			if err == nil {
				filter["propertyID"] = id
			}
		}

		opts := pageOptions(r).SetSort(bson.M{"dueDate": 1})
		cursor, err := config.ScheduleCollection.Find(r.Context(), filter, opts)
		if err != nil {
			utils.RespondError(w, apperr.Wrap("fetching rent schedules", err))
			return
		}
		defer cursor.Close(r.Context())

		schedules := []models.RentSchedule{}
		if err := cursor.All(r.Context(), &schedules); err != nil {
			utils.RespondError(w, apperr.Wrap("decoding rent schedules", err))
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched rent schedules",
			Data:    schedules,
		})
	}
}

func GetRentScheduleByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		sched, err := fetchSchedule(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanAccessSchedule(principal, policy.ActionRead, sched); err != nil {
			utils.RespondError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched rent schedule",
			Data:    sched,
		})
	}
}

func UpdateRentSchedule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		sched, err := fetchSchedule(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanAccessSchedule(principal, policy.ActionUpdate, sched); err != nil {
			utils.RespondError(w, err)
			return
		}

		var updateData map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
			http.Error(w, "Invalid update data", http.StatusBadRequest)
			return
		}

		delete(updateData, "_id")
		delete(updateData, "id")
		delete(updateData, "propertyID")
		delete(updateData, "tenantID")
		delete(updateData, "landlordID")
		delete(updateData, "createdAt")

		// Tenants may only change how they intend to pay.
		if principal.IsTenant() {
			for key := range updateData {
				if key != "paymentMethod" {
					utils.RespondError(w, apperr.New(apperr.Forbidden, "tenants may only update the payment method"))
					return
				}
			}
		}

		if rawStatus, ok := updateData["status"].(string); ok {
			if !models.ScheduleStatus(rawStatus).Valid() {
				utils.RespondError(w, apperr.Newf(apperr.ValidationFailed, "unknown schedule status %q", rawStatus))
				return
			}
		}
		if rawAmount, ok := updateData["amount"].(float64); ok && rawAmount < 0 {
			utils.RespondError(w, apperr.New(apperr.ValidationFailed, "amount must not be negative"))
			return
		}
		if len(updateData) == 0 {
			http.Error(w, "No updatable fields supplied", http.StatusBadRequest)
			return
		}

		res, err := config.ScheduleCollection.UpdateOne(r.Context(),
			bson.M{"_id": sched.ID}, bson.M{"$set": updateData})
		if err != nil {
			utils.RespondError(w, apperr.Wrap("updating rent schedule", err))
			return
		}
		if res.MatchedCount == 0 {
			utils.RespondError(w, apperr.New(apperr.NotFound, "rent schedule not found"))
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Rent schedule updated",
		})
	}
}

func DeleteRentSchedule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		sched, err := fetchSchedule(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanAccessSchedule(principal, policy.ActionDelete, sched); err != nil {
			utils.RespondError(w, err)
			return
		}

		res, err := config.ScheduleCollection.DeleteOne(r.Context(), bson.M{"_id": sched.ID})
		if err != nil {
			utils.RespondError(w, apperr.Wrap("deleting rent schedule", err))
			return
		}
		if res.DeletedCount == 0 {
			utils.RespondError(w, apperr.New(apperr.NotFound, "rent schedule not found"))
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Rent schedule deleted",
		})
	}
}

func fetchSchedule(ctx context.Context, idHex string) (*models.RentSchedule, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "invalid schedule ID")
	}
	var sched models.RentSchedule
	err = config.ScheduleCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&sched)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "rent schedule not found")
	}
	if err != nil {
		return nil, apperr.Wrap("fetching rent schedule", err)
	}
	return &sched, nil
}

// resolveScheduleTarget loads the property and tenant a schedule will be
// created against and checks both the policy and the tenant's role.
func resolveScheduleTarget(ctx context.Context, principal policy.Principal, propertyHex, tenantHex string) (*models.Property, primitive.ObjectID, error) {
	property, err := fetchProperty(ctx, propertyHex)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	if err := policy.CanCreateSchedule(principal, property); err != nil {
		return nil, primitive.NilObjectID, err
	}

	tenantID, err := primitive.ObjectIDFromHex(tenantHex)
	if err != nil {
		return nil, primitive.NilObjectID, apperr.New(apperr.NotFound, "invalid tenant ID")
	}
	count, err := config.UserCollection.CountDocuments(ctx, bson.M{"_id": tenantID, "role": models.RoleTenant})
	if err != nil {
		return nil, primitive.NilObjectID, apperr.Wrap("resolving tenant", err)
	}
	if count == 0 {
		return nil, primitive.NilObjectID, apperr.New(apperr.NotFound, "tenant not found")
	}
	return property, tenantID, nil
}
