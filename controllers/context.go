package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/propdesk/rental_management_system/backend/policy"
)

type ContextKey string

const PrincipalKey = ContextKey("principal")

var validate = validator.New()

// principalFrom pulls the authenticated principal off the request context.
// The auth middleware always sets it; a miss means a route was wired outside
// the authenticated subrouter.
func principalFrom(r *http.Request) (policy.Principal, bool) {
	p, ok := r.Context().Value(PrincipalKey).(policy.Principal)
	return p, ok
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pageOptions translates page/limit query params into skip/limit find
// options.
func pageOptions(r *http.Request) *options.FindOptions {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return options.Find().SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
}
