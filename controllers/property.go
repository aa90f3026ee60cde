package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
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

type CreatePropertyRequest struct {
	Title      string  `json:"title" validate:"required"`
	Address    string  `json:"address" validate:"required"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	RentAmount float64 `json:"rentAmount" validate:"gte=0"`
	Bedrooms   int     `json:"bedrooms"`
	Bathrooms  int     `json:"bathrooms"`
	AreaSqFt   int     `json:"areaSqFt"`
	LandlordID string  `json:"landlordID"`
	Status     string  `json:"status"`
}

func CreateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		var req CreatePropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Invalid request body: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid property payload: "+err.Error(), http.StatusBadRequest)
			return
		}

		// Landlords always create for themselves; admins may name any
		// landlord explicitly.
		landlordID := principal.ID
		if req.LandlordID != "" {
			id, err := primitive.ObjectIDFromHex(req.LandlordID)
			if err != nil {
				http.Error(w, "Invalid landlord ID", http.StatusBadRequest)
				return
			}
			landlordID = id
		}
		if err := policy.CanCreateProperty(principal, landlordID); err != nil {
			utils.RespondError(w, err)
			return
		}

		var landlord models.User
		err := config.UserCollection.FindOne(r.Context(), bson.M{"_id": landlordID, "role": models.RoleLandlord}).Decode(&landlord)
		if err != nil {
			utils.RespondError(w, apperr.New(apperr.NotFound, "landlord not found"))
			return
		}

		status := models.PropertyAvailable
		if req.Status != "" {
			status = models.PropertyStatus(req.Status)
			if !status.Valid() || status == models.PropertyOccupied {
				utils.RespondError(w, apperr.New(apperr.ValidationFailed, "status occupied can only be set by assigning a tenant"))
				return
			}
		}

		property := models.Property{
			ID:                 primitive.NewObjectID(),
			Title:              req.Title,
			Address:            req.Address,
			City:               req.City,
			State:              req.State,
			RentAmount:         req.RentAmount,
			Bedrooms:           req.Bedrooms,
			Bathrooms:          req.Bathrooms,
			AreaSqFt:           req.AreaSqFt,
			LandlordID:         landlordID,
			Status:             status,
			MaintenanceHistory: []models.MaintenanceRecord{},
			CreatedAt:          time.Now(),
		}

		if _, err := config.PropertyCollection.InsertOne(r.Context(), property); err != nil {
			log.Printf("Insert failed: %v", err)
			http.Error(w, "Failed to create property", http.StatusInternalServerError)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		utils.RespondJSON(w, http.StatusCreated, models.APIResponse{
			Success: true,
			Message: "Property created",
			Data:    property,
		})
	}
}

func GetProperties(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		query := r.URL.Query()
		cacheKey := generateCacheKey(principal, query)

		cachedData, err := redisClient.Get(r.Context(), cacheKey).Result()
		if err == nil {
			log.Printf("Cache Hit for key: %s", cacheKey)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cachedData))
			return
		}
		if err != redis.Nil {
			log.Printf("Redis GET error for key %s: %v", cacheKey, err)
		}

		// The scope filter is the principal's visibility boundary; user
		// filters can only narrow it further.
		filter := policy.ScopeFilter(principal, policy.KindProperty)
		if city := query.Get("city"); city != "" {
			filter["city"] = city
		}
		if state := query.Get("state"); state != "" {
			filter["state"] = state
		}
		if status := query.Get("status"); status != "" {
			filter["status"] = status
		}

		cursor, err := config.PropertyCollection.Find(r.Context(), filter, pageOptions(r))
		if err != nil {
			log.Printf("Error fetching properties with filter %+v: %v", filter, err)
			http.Error(w, "Error fetching properties", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		properties := []models.Property{}
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding properties: %v", err)
			http.Error(w, "Error decoding properties", http.StatusInternalServerError)
			return
		}

		resultBytes, err := json.Marshal(properties)
		if err != nil {
			log.Printf("Failed to serialize properties: %v", err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}

		if err := redisClient.Set(r.Context(), cacheKey, resultBytes, 10*time.Minute).Err(); err != nil {
			log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(resultBytes)
	}
}

func GetPropertyByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		property, err := fetchProperty(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanAccessProperty(principal, policy.ActionRead, property); err != nil {
			utils.RespondError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched property",
			Data:    property,
		})
	}
}

func UpdateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
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

		var updateData map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
			log.Printf("Invalid update data: %v", err)
			http.Error(w, "Invalid update data", http.StatusBadRequest)
			return
		}

		// Identity and tenancy fields never change through the generic
		// update; tenancy moves through the assign/remove transitions.
		delete(updateData, "_id")
		delete(updateData, "id")
		delete(updateData, "landlordID")
		delete(updateData, "currentTenantID")
		delete(updateData, "maintenanceHistory")
		delete(updateData, "createdAt")

		if rawStatus, ok := updateData["status"].(string); ok {
			if err := occupancy.ValidateStatusEdit(property, models.PropertyStatus(rawStatus)); err != nil {
				utils.RespondError(w, err)
				return
			}
		}
		if len(updateData) == 0 {
			http.Error(w, "No updatable fields supplied", http.StatusBadRequest)
			return
		}

		res, err := config.PropertyCollection.UpdateOne(r.Context(),
			bson.M{"_id": property.ID}, bson.M{"$set": updateData})
		if err != nil {
			log.Printf("Update failed for property %s: %v", property.ID.Hex(), err)
			http.Error(w, "Update failed", http.StatusInternalServerError)
			return
		}
		if res.MatchedCount == 0 {
			utils.RespondError(w, apperr.New(apperr.NotFound, "property not found"))
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Property updated successfully",
		})
	}
}

func DeleteProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFrom(r)
		if !ok {
			http.Error(w, "Principal missing in context", http.StatusUnauthorized)
			return
		}

		property, err := fetchProperty(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := policy.CanAccessProperty(principal, policy.ActionDelete, property); err != nil {
			utils.RespondError(w, err)
			return
		}

		res, err := config.PropertyCollection.DeleteOne(r.Context(), bson.M{"_id": property.ID})
		if err != nil {
			log.Printf("Delete failed for property %s: %v", property.ID.Hex(), err)
			http.Error(w, "Delete failed", http.StatusInternalServerError)
			return
		}
		if res.DeletedCount == 0 {
			utils.RespondError(w, apperr.New(apperr.NotFound, "property not found"))
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		utils.RespondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Property deleted successfully",
		})
	}
}

// fetchProperty resolves a path id to a property, mapping a bad hex or a
// missing document to NotFound.
func fetchProperty(ctx context.Context, idHex string) (*models.Property, error) {
	objID, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "invalid property ID")
	}
	var property models.Property
	err = config.PropertyCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "property not found")
	}
	if err != nil {
		return nil, apperr.Wrap("fetching property", err)
	}
	return &property, nil
}

func generateCacheKey(principal policy.Principal, queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(principal.ID.Hex())
	sb.WriteString(":")
	sb.WriteString(string(principal.Role))
	sb.WriteString(":")

	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return "property:" + hex.EncodeToString(sum[:])
}

func deletePropertyCache(redisClient *redis.Client) {
	ctx := context.Background()
	const scanPattern = "property:*"
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = redisClient.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := redisClient.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, execErr := pipe.Exec(ctx); execErr != nil {
		log.Printf("Error executing pipeline for deleting %d property cache keys: %v", len(keysToDelete), execErr)
	} else {
		log.Printf("Property cache invalidated: deleted %d keys matching '%s'", len(keysToDelete), scanPattern)
	}
}
