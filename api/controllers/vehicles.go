package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Oleksa-32/car-sharing-app/api/responses"
	"github.com/Oleksa-32/car-sharing-app/api/validators"
	vehiclesvc "github.com/Oleksa-32/car-sharing-app/internal/vehicles"
	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/Oleksa-32/car-sharing-app/pkg/pagination"
)

const maxVehicleTextLen = 120

type createVehicleRequest struct {
	Model          string            `json:"model" validate:"required,max=120"`
	Brand          string            `json:"brand" validate:"required,max=120"`
	Type           enums.VehicleType `json:"type" validate:"required"`
	AvailableUnits int               `json:"available_units" validate:"gte=0"`
	DailyFee       decimal.Decimal   `json:"daily_fee" validate:"gt=0"`
}

func (r createVehicleRequest) toInput() vehiclesvc.CreateInput {
	return vehiclesvc.CreateInput{
		Model:          validators.SanitizeString(r.Model, maxVehicleTextLen),
		Brand:          validators.SanitizeString(r.Brand, maxVehicleTextLen),
		Type:           r.Type,
		AvailableUnits: r.AvailableUnits,
		DailyFee:       r.DailyFee,
	}
}

type updateVehicleRequest struct {
	Model          *string            `json:"model,omitempty" validate:"omitempty,max=120"`
	Brand          *string            `json:"brand,omitempty" validate:"omitempty,max=120"`
	Type           *enums.VehicleType `json:"type,omitempty"`
	AvailableUnits *int               `json:"available_units,omitempty" validate:"omitempty,gte=0"`
	DailyFee       *decimal.Decimal   `json:"daily_fee,omitempty"`
}

func (r updateVehicleRequest) toInput() vehiclesvc.UpdateInput {
	input := vehiclesvc.UpdateInput{
		Type:           r.Type,
		AvailableUnits: r.AvailableUnits,
		DailyFee:       r.DailyFee,
	}
	if r.Model != nil {
		model := validators.SanitizeString(*r.Model, maxVehicleTextLen)
		input.Model = &model
	}
	if r.Brand != nil {
		brand := validators.SanitizeString(*r.Brand, maxVehicleTextLen)
		input.Brand = &brand
	}
	return input
}

// ListVehicles returns one cursor page of the fleet.
func ListVehicles(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: validators.SanitizeString(r.URL.Query().Get("cursor"), 256),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vehicle, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}

// CreateVehicle registers a vehicle. Manager only.
func CreateVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		var payload createVehicleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	}
}

// UpdateVehicle applies a partial update. Manager only.
func UpdateVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateVehicleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}

// DeleteVehicle removes a vehicle with no active rentals. Manager only.
func DeleteVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
