package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Oleksa-32/car-sharing-app/api/responses"
	"github.com/Oleksa-32/car-sharing-app/api/validators"
	rentalsvc "github.com/Oleksa-32/car-sharing-app/internal/rentals"
	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
)

type createRentalRequest struct {
	VehicleID uuid.UUID  `json:"vehicle_id" validate:"required"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	RentalAt  *time.Time `json:"rental_at,omitempty"`
	DueAt     time.Time  `json:"due_at" validate:"required"`
}

// CreateRental reserves a unit of the vehicle for the caller. Managers may
// open a rental on behalf of another user via user_id.
func CreateRental(svc rentalsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rental service unavailable"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createRentalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := actor.UserID
		if payload.UserID != nil && *payload.UserID != actor.UserID {
			if !actor.IsManager() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot rent on behalf of another user"))
				return
			}
			userID = *payload.UserID
		}

		rentalAt := time.Now().UTC()
		if payload.RentalAt != nil {
			rentalAt = *payload.RentalAt
		}

		rental, err := svc.Create(r.Context(), rentalsvc.CreateInput{
			VehicleID: payload.VehicleID,
			UserID:    userID,
			RentalAt:  rentalAt,
			DueAt:     payload.DueAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rental)
	}
}

func GetRental(svc rentalsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rental service unavailable"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rental, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := ensureOwnerOrManager(actor, rental.UserID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rental)
	}
}

// ListRentals filters a user's rentals by ?is_active (default true).
func ListRentals(svc rentalsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rental service unavailable"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := resolveUserScope(r, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		active, err := validators.ParseQueryBool(r, "is_active", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rentals, err := svc.ListForUser(r.Context(), userID, active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rentals)
	}
}

// ReturnRental closes the rental and restocks the vehicle.
func ReturnRental(svc rentalsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rental service unavailable"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		existing, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := ensureOwnerOrManager(actor, existing.UserID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Return(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
