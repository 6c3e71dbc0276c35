package graphql

import (
	"github.com/AlibekovAA/gql-user-auth/internal/auth/service"
	commonerrors "github.com/AlibekovAA/gql-user-auth/internal/common/errors"
)

// apiError is what resolvers hand back to graphql-go. It implements
// gqlerrors.ExtendedError so code and status reach the response extensions.
type apiError struct {
	err commonerrors.DomainError
}

func (e *apiError) Error() string {
	return e.err.Message()
}

func (e *apiError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code":   e.err.Code(),
		"status": e.err.HTTPStatus(),
	}
	if fields := service.FieldErrors(e.err); len(fields) > 0 {
		ext["fields"] = fields
	}
	return ext
}

// toDomainError keeps typed failures as they are and turns anything else into
// the generic internal error.
func toDomainError(err error) commonerrors.DomainError {
	if de, ok := commonerrors.AsDomainError(err); ok && de.HTTPStatus() < 500 {
		return de
	}
	return service.ErrInternal.WithCause(err)
}
