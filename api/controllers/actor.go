package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Oleksa-32/car-sharing-app/api/middleware"
	"github.com/Oleksa-32/car-sharing-app/api/validators"
	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
)

func requireActor(r *http.Request) (middleware.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return middleware.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return actor, nil
}

// resolveUserScope picks whose records a request targets: customers are pinned
// to themselves, managers may pass ?user_id and default to themselves.
func resolveUserScope(r *http.Request, actor middleware.Actor) (uuid.UUID, error) {
	requested, err := validators.ParseQueryUUID(r, "user_id")
	if err != nil {
		return uuid.Nil, err
	}
	if requested == uuid.Nil {
		return actor.UserID, nil
	}
	if requested != actor.UserID && !actor.IsManager() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another user's records")
	}
	return requested, nil
}

func ensureOwnerOrManager(actor middleware.Actor, ownerID uuid.UUID) error {
	if actor.IsManager() || actor.UserID == ownerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
}
