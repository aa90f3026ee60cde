package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propdesk/rental_management_system/backend/controllers"
	"github.com/propdesk/rental_management_system/backend/policy"
	"github.com/propdesk/rental_management_system/backend/utils"
)

// AuthMiddleware resolves the bearer token to a principal {id, role} and puts
// it on the request context. Everything behind it can assume an authenticated
// actor; an invalid or missing token never reaches a handler.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		tokenHeader := r.Header.Get("Authorization")
		if tokenHeader == "" {
			log.Printf("Missing Authorization header from request %s %s", r.Method, r.URL)
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(tokenHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			log.Printf("Invalid Authorization header format from request %s %s", r.Method, r.URL)
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateJWT(tokenParts[1])
		if err != nil {
			log.Printf("Invalid or expired token: %v", err)
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil || !claims.Role.Valid() {
			log.Printf("Malformed principal in token: id=%q role=%q", claims.UserID, claims.Role)
			http.Error(w, "Invalid token claims", http.StatusUnauthorized)
			return
		}

		principal := policy.Principal{ID: id, Role: claims.Role}
		ctx := context.WithValue(r.Context(), controllers.PrincipalKey, principal)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
