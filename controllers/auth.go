package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propdesk/rental_management_system/backend/config"
	"github.com/propdesk/rental_management_system/backend/models"
	"github.com/propdesk/rental_management_system/backend/utils"
)

type Response struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

type RegisterRequest struct {
	UserID   string               `json:"userID" validate:"required"`
	Name     string               `json:"name" validate:"required"`
	Email    string               `json:"email" validate:"required,email"`
	Password string               `json:"password" validate:"required,min=8"`
	Role     models.Role          `json:"role" validate:"required,oneof=admin landlord tenant"`
	Phone    string               `json:"phone"`
	Tenant   *models.TenantInfo   `json:"tenantInfo"`
	Landlord *models.LandlordInfo `json:"landlordInfo"`
}

func RegisterUser(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Error decoding user data: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			log.Printf("Invalid registration payload: %v", err)
			http.Error(w, "Invalid registration payload: "+err.Error(), http.StatusBadRequest)
			return
		}

		// The role determines which sub-record is meaningful; a mismatched
		// one is rejected rather than silently dropped.
		if req.Tenant != nil && req.Role != models.RoleTenant {
			http.Error(w, "tenantInfo is only valid for tenant accounts", http.StatusBadRequest)
			return
		}
		if req.Landlord != nil && req.Role != models.RoleLandlord {
			http.Error(w, "landlordInfo is only valid for landlord accounts", http.StatusBadRequest)
			return
		}

		exists := config.UserCollection.FindOne(context.TODO(), bson.M{"userID": req.UserID})
		if exists.Err() == nil {
			log.Printf("UserID already exists: %s", req.UserID)
			http.Error(w, "UserID already exists", http.StatusConflict)
			return
		}

		exists = config.UserCollection.FindOne(context.TODO(), bson.M{"email": req.Email})
		if exists.Err() == nil {
			log.Printf("User email already exists: %s", req.Email)
			http.Error(w, "Email already exists", http.StatusConflict)
			return
		}

		hashedPwd, err := utils.HashPassword(req.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			http.Error(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}

		user := models.User{
			UserID:       req.UserID,
			Name:         req.Name,
			Email:        req.Email,
			Password:     hashedPwd,
			Role:         req.Role,
			Phone:        req.Phone,
			CreatedAt:    time.Now(),
			TenantInfo:   req.Tenant,
			LandlordInfo: req.Landlord,
		}

		if _, err := config.UserCollection.InsertOne(context.TODO(), user); err != nil {
			log.Printf("Error inserting user into the database: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Response{Message: "User registered successfully"})
	}
}

type loginRequest struct {
	UserID   string `json:"userID"`
	Password string `json:"password"`
}

func LoginUser(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials loginRequest
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("Error decoding login credentials: %v", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		var dbUser models.User
		err := config.UserCollection.FindOne(context.TODO(), bson.M{"userID": credentials.UserID}).Decode(&dbUser)
		if err != nil {
			log.Printf("User not found: %s", credentials.UserID)
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		if !utils.CheckPasswordHash(credentials.Password, dbUser.Password) {
			log.Printf("Invalid credentials for user: %s", credentials.UserID)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		// The token carries the Mongo id so handlers can build the principal
		// without a lookup.
		token, err := utils.GenerateJWT(dbUser.ID.Hex(), dbUser.Role)
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(Response{Message: "Login successful", Token: token})
	}
}
