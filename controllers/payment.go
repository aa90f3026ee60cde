package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propdesk/rental_management_system/backend/apperr"
	"github.com/propdesk/rental_management_system/backend/config"
	"github.com/propdesk/rental_management_system/backend/models"
	"github.com/propdesk/rental_management_system/backend/policy"
	"github.com/propdesk/rental_management_system/backend/settlement"
	"github.com/propdesk/rental_management_system/backend/utils"
)

type RecordPaymentRequest struct {
	RentScheduleID string               `json:"rentScheduleID" validate:"required"`
	Amount         float64              `json:"amount" validate:"gte=0"`
	Method         models.PaymentMethod `json:"method" validate:"required,oneof=cash check bank-transfer card online"`
	Notes          string               `json:"notes"`
}

// txnInsertAttempts bounds the regenerate-on-collision loop for transaction
// ids; the unique index is the backstop.
const txnInsertAttempts = 3

// RecordPayment persists a payment against a rent schedule and derives the
// schedule's new status from the payment amount. Recorded payments are
// treated as settled immediately; no money moves through this system.
func RecordPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		var req RecordPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid payment payload: "+err.Error(), http.StatusBadRequest)
			return
		}

		sched, err := fetchSchedule(r.Context(), req.RentScheduleID)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanRecordPayment(principal, sched); err != nil {
			utils.RespondError(w, err)
			return
		}

		now := time.Now()
		payment := models.Payment{
			RentScheduleID: sched.ID,
			PropertyID:     sched.PropertyID,
			TenantID:       sched.TenantID,
			LandlordID:     sched.LandlordID,
			Amount:         req.Amount,
			Method:         req.Method,
			Status:         models.PaymentCompleted,
			Notes:          req.Notes,
			PaidAt:         now,
			CreatedAt:      now,
		}

		inserted, err := insertPayment(r.Context(), payment)
		if err != nil {
			utils.RespondError(w, err)
			return
		}

		// Status derivation is a single conditional write: it depends only
		// on the payment amount against the schedule's full amount, so
		// concurrent payments converge on a consistent status instead of
		// racing on a stale read. A zero amount leaves the status alone.
		newStatus := settlement.DeriveStatus(sched.Amount, req.Amount, sched.Status)
		if newStatus != sched.Status {
			_, err := config.ScheduleCollection.UpdateOne(r.Context(),
				bson.M{"_id": sched.ID}, bson.M{"$set": bson.M{"status": newStatus}})
			if err != nil {
				// The payment exists; surface the half-applied settlement
				// loudly instead of pretending it succeeded.
				utils.RespondError(w, apperr.Wrap("updating schedule status after payment", err))
				return
			}
			sched.Status = newStatus
		}

		receipt := models.PaymentReceipt{
			Payment:  *inserted,
			Schedule: sched.Summary(),
		}
		var property models.Property
		if err := config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": sched.PropertyID}).Decode(&property); err == nil {
			receipt.Property = property.Summary()
		}
		var tenant models.User
		if err := config.UserCollection.FindOne(r.Context(), bson.M{"_id": sched.TenantID}).Decode(&tenant); err == nil {
			receipt.Tenant = tenant.Summary()
		}

		utils.RespondJSON(w, http.StatusCreated, models.APIResponse{
			Success: true,
			Message: "Payment recorded",
			Data:    receipt,
		})
	}
}

// insertPayment writes the payment with a fresh transaction id, regenerating
// on the rare collision with an existing one.
func insertPayment(ctx context.Context, payment models.Payment) (*models.Payment, error) {
	for attempt := 0; attempt < txnInsertAttempts; attempt++ {
		payment.ID = primitive.NewObjectID()
		payment.TransactionID = settlement.NewTransactionID()

		_, err := config.PaymentCollection.InsertOne(ctx, payment)
		if err == nil {
			return &payment, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			log.Printf("Transaction id collision on %s, regenerating", payment.TransactionID)
			continue
		}
		return nil, apperr.Wrap("inserting payment", err)
	}
	return nil, apperr.New(apperr.Conflict, "could not generate a unique transaction id")
}

func GetPayments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		filter := policy.ScopeFilter(principal, policy.KindPayment)
		query := r.URL.Query()
		if status := query.Get("status"); status != "" {
			filter["status"] = status
		}
		if scheduleID := query.Get("rentScheduleID"); scheduleID != "" {
			id, err := primitive.ObjectIDFromHex(scheduleID)
			if err == nil {
				filter["rentScheduleID"] = id
			}
		}
		if propertyID := query.Get("propertyID"); propertyID != "" {
			id, err := primitive.ObjectIDFromHex(propertyID)
			if err == nil {
				filter["propertyID"] = id
			}
		}

		opts := pageOptions(r).SetSort(bson.M{"paidAt": -1})
		cursor, err := config.PaymentCollection.Find(r.Context(), filter, opts)
		if err != nil {
			utils.RespondError(w, apperr.Wrap("fetching payments", err))
			return
		}
		defer cursor.Close(r.Context())

		payments := []models.Payment{}
		if err := cursor.All(r.Context(), &payments); err != nil {
			utils.RespondError(w, apperr.Wrap("decoding payments", err))
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched payments",
			Data:    payments,
		})
	}
}

func GetPaymentByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		payment, err := fetchPayment(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanAccessPayment(principal, policy.ActionRead, payment); err != nil {
			utils.RespondError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched payment",
			Data:    payment,
		})
	}
}

// RefundPayment flips a completed payment to refunded. A refund is a status
// change, never a new payment record. The write is conditional on the
// current status so a double refund fails cleanly.
func RefundPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		payment, err := fetchPayment(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanAccessPayment(principal, policy.ActionUpdate, payment); err != nil {
			utils.RespondError(w, err)
			return
		}
		if payment.Status != models.PaymentCompleted {
			utils.RespondError(w, apperr.Newf(apperr.InvalidState, "only completed payments can be refunded, payment is %s", payment.Status))
			return
		}

		res, err := config.PaymentCollection.UpdateOne(r.Context(),
			bson.M{"_id": payment.ID, "status": models.PaymentCompleted},
			bson.M{"$set": bson.M{"status": models.PaymentRefunded}})
		if err != nil {
			utils.RespondError(w, apperr.Wrap("refunding payment", err))
			return
		}
		if res.MatchedCount == 0 {
			utils.RespondError(w, apperr.New(apperr.InvalidState, "payment is no longer refundable"))
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Payment refunded",
		})
	}
}

func fetchPayment(ctx context.Context, idHex string) (*models.Payment, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "invalid payment ID")
	}
	var payment models.Payment
	err = config.PaymentCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "payment not found")
	}
	if err != nil {
		return nil, apperr.Wrap("fetching payment", err)
	}
	return &payment, nil
}
