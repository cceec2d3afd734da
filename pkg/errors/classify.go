package errors

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/matzehuels/antnest/pkg/archive"
	"github.com/matzehuels/antnest/pkg/cache"
	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/generate"
	nestio "github.com/matzehuels/antnest/pkg/io"
	"github.com/matzehuels/antnest/pkg/nest"
)

var sentinels = []struct {
	err  error
	code Code
}{
	{nest.ErrMissingSource, ErrCodeMissingSource},
	{nest.ErrMissingSink, ErrCodeMissingSink},
	{nest.ErrDisconnected, ErrCodeDisconnected},
	{nest.ErrInvalidCapacity, ErrCodeInvalidCapacity},
	{nest.ErrInvalidAgents, ErrCodeInvalidNest},
	{nest.ErrTooManyAgents, ErrCodeInvalidNest},
	{nest.ErrInvalidNodeID, ErrCodeInvalidNest},
	{nest.ErrDuplicateNode, ErrCodeInvalidNest},
	{nest.ErrSameTerminal, ErrCodeInvalidNest},
	{nest.ErrUnknownNode, ErrCodeInvalidNest},
	{nest.ErrSelfLoop, ErrCodeInvalidNest},
	{nestio.ErrSyntax, ErrCodeInvalidNest},
	{colony.ErrInvariant, ErrCodeInvariant},
	{colony.ErrInvalidMove, ErrCodeInvariant},
	{generate.ErrInvalidOptions, ErrCodeInvalidInput},
	{archive.ErrNotFound, ErrCodeNotFound},
	{cache.ErrBackend, ErrCodeBackend},
	{fs.ErrNotExist, ErrCodeFileNotFound},
	{context.DeadlineExceeded, ErrCodeTimeout},
	{context.Canceled, ErrCodeCanceled},
}

// Classify returns err as an *Error. Coded errors are returned unchanged;
// known domain errors get their code with the original text as message;
// anything else becomes ErrCodeInternal. Classify(nil) is nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return &Error{Code: s.code, Message: err.Error(), Cause: err}
		}
	}
	return &Error{Code: ErrCodeInternal, Message: err.Error(), Cause: err}
}

// HTTPStatus maps a code to the status the server responds with.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return http.StatusBadRequest
	case ErrCodeInvalidNest, ErrCodeInvalidCapacity, ErrCodeMissingSource,
		ErrCodeMissingSink, ErrCodeDisconnected:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeBackend:
		return http.StatusServiceUnavailable
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
