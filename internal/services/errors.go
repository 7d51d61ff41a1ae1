package services

import (
	stderrors "errors"

	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/repository"
)

// Service errors
var (
	ErrInvalidSide         = errors.Validation(`side must be "a" or "b"`)
	ErrEmptyName           = errors.Validation("name is required")
	ErrInvalidAttendance   = errors.Validation(`attendance must be "yes", "no" or "maybe"`)
	ErrNoRosterFeed        = errors.InvalidInput("no roster feed URL configured")
	ErrNoPublishedSchedule = errors.State(errors.CodeNoPublishedSchedule, "no published schedule")
	ErrNoDraft             = errors.State(errors.CodeNoDraft, "nothing to publish: generate a schedule first")
	ErrScoreExists         = errors.ConflictCode(errors.CodeScoreExists, "scores have been entered; publish with force to discard them")
	ErrVersionConflict     = errors.ConflictCode(errors.CodeVersionConflict, "schedule changed concurrently; reload and retry")
)

// fromRepo translates repository sentinels into application errors.
// notFound is the message used for repository.ErrNotFound.
func fromRepo(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NotFound(notFound)
	case stderrors.Is(err, repository.ErrVersionConflict):
		return ErrVersionConflict
	case stderrors.Is(err, repository.ErrInvalidSide):
		return ErrInvalidSide
	}
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		return err
	}
	return errors.Internal(err)
}

func validAttendance(a string) bool {
	switch a {
	case "yes", "no", "maybe":
		return true
	}
	return false
}
