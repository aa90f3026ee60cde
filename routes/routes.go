package routes

import (
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propdesk/rental_management_system/backend/controllers"
	"github.com/propdesk/rental_management_system/backend/middleware"
)

func Routes(router *mux.Router, client *mongo.Client, redisClient *redis.Client) {
	// Auth routes
	router.HandleFunc("/register", controllers.RegisterUser(client)).Methods("POST")
	router.HandleFunc("/login", controllers.LoginUser(client)).Methods("POST")

	// Routes that require authentication
	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(middleware.AuthMiddleware)

	// Property routes
	authenticated.HandleFunc("/properties", controllers.CreateProperty(redisClient)).Methods("POST")
	authenticated.HandleFunc("/properties", controllers.GetProperties(redisClient)).Methods("GET")
	authenticated.HandleFunc("/properties/{id}", controllers.GetPropertyByID()).Methods("GET")
	authenticated.HandleFunc("/properties/{id}", controllers.UpdateProperty(redisClient)).Methods("PUT")
	authenticated.HandleFunc("/properties/{id}", controllers.DeleteProperty(redisClient)).Methods("DELETE")

	// Occupancy transitions
	authenticated.HandleFunc("/properties/{id}/tenant", controllers.AssignTenant(redisClient)).Methods("POST")
	authenticated.HandleFunc("/properties/{id}/tenant", controllers.RemoveTenant(redisClient)).Methods("DELETE")

	// Maintenance history
	authenticated.HandleFunc("/properties/{id}/maintenance", controllers.AddMaintenanceRecord()).Methods("POST")
	authenticated.HandleFunc("/properties/{id}/maintenance/{recordId}", controllers.UpdateMaintenanceRecord()).Methods("PUT")

	// Rent schedule routes
	authenticated.HandleFunc("/schedules", controllers.CreateRentSchedule()).Methods("POST")
	authenticated.HandleFunc("/schedules/bulk", controllers.BulkGenerateSchedules()).Methods("POST")
	authenticated.HandleFunc("/schedules", controllers.GetRentSchedules()).Methods("GET")
	authenticated.HandleFunc("/schedules/{id}", controllers.GetRentScheduleByID()).Methods("GET")
	authenticated.HandleFunc("/schedules/{id}", controllers.UpdateRentSchedule()).Methods("PUT")
	authenticated.HandleFunc("/schedules/{id}", controllers.DeleteRentSchedule()).Methods("DELETE")

	// Payment routes
	authenticated.HandleFunc("/payments", controllers.RecordPayment()).Methods("POST")
	authenticated.HandleFunc("/payments", controllers.GetPayments()).Methods("GET")
	authenticated.HandleFunc("/payments/{id}", controllers.GetPaymentByID()).Methods("GET")
	authenticated.HandleFunc("/payments/{id}/refund", controllers.RefundPayment()).Methods("PUT")

	// Tenant profile routes
	authenticated.HandleFunc("/tenants/{id}", controllers.GetTenantProfile()).Methods("GET")
	authenticated.HandleFunc("/tenants/{id}", controllers.UpdateTenantProfile()).Methods("PUT")
}
