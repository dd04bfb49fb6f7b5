package crud

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// APIError is a request-terminating error carrying the HTTP status to surface.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// NewNotFound reports that no row matched the given id(s).
func NewNotFound(entity string, id any) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s with id %v does not exist", entity, id),
	}
}

// NewValidation reports a request the service refuses before touching storage.
func NewValidation(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

// NewConflict reports a unique-constraint collision on an entity label.
func NewConflict(entity, label string) *APIError {
	return &APIError{
		Status: http.StatusConflict,
		Message: fmt.Sprintf(
			"Object %s with label %s already exists. Please try again with another label.",
			entity, label,
		),
	}
}

// Postgres integrity violation codes (class 23).
const (
	pgUniqueViolation  = pq.ErrorCode("23505")
	pgNotNullViolation = pq.ErrorCode("23502")
)

// Matches the duplicated value inside a unique-violation detail such as
// `Key (libelle)=(Axe Nord) already exists.`
var duplicateLibelleRe = regexp.MustCompile(`\(libelle\)=\((.*?)\)`)

// TranslateIntegrityError maps a flush/commit failure onto the API error
// taxonomy: unique violation -> 409, not-null violation -> 400, any other
// integrity violation -> 500. Errors that are not Postgres integrity
// violations pass through untouched.
func TranslateIntegrityError(err error, entity string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code.Class() != "23" {
		return err
	}
	logrus.WithError(err).WithField("entity", entity).Error("database integrity error")
	switch pqErr.Code {
	case pgUniqueViolation:
		label := ""
		if m := duplicateLibelleRe.FindStringSubmatch(pqErr.Detail); m != nil {
			label = m[1]
		}
		conflict := NewConflict(entity, label)
		conflict.Err = err
		return conflict
	case pgNotNullViolation:
		return &APIError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	default:
		return &APIError{
			Status:  http.StatusInternalServerError,
			Message: fmt.Sprintf("Database integrity error: %v", err),
			Err:     err,
		}
	}
}
