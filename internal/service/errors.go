package service

import (
	"errors"

	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/repository"
	apperrors "github.com/spec-kit/newsroom/pkg/util"
)

// translateRepoErr maps repository sentinels onto the API error taxonomy.
func translateRepoErr(err error, resource string, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, map[string]any{resource + "_id": id})
	case errors.Is(err, repository.ErrReferenced):
		return apperrors.NewConflict(resource+" is still referenced by articles", map[string]any{resource + "_id": id})
	case errors.Is(err, repository.ErrConflict):
		return apperrors.NewConflict(resource+" already exists", map[string]any{resource + "_id": id})
	default:
		return apperrors.MapError(err)
	}
}

// translateWriteErr is translateRepoErr for inserts, where a foreign key
// violation means the referenced row disappeared after it was checked.
func translateWriteErr(err error, resource string, id string) error {
	if errors.Is(err, repository.ErrReferenced) {
		return apperrors.NewNotFound(resource, map[string]any{resource + "_id": id})
	}
	return translateRepoErr(err, resource, id)
}

func requireActor(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

func requireCapability(actor *domain.User, capability domain.Capability) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.Can(capability) {
		return apperrors.NewForbidden("role " + string(actor.Role) + " may not " + string(capability))
	}
	return nil
}

func ptrBool(v bool) *bool {
	return &v
}
