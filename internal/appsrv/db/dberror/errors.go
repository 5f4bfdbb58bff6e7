package dberror

import (
	"net/http"

	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
)

var (
	ErrDatabase           apperrors.Error = apperrors.New("db error").SetStatusCode(http.StatusInternalServerError)
	ErrAlreadyExists      apperrors.Error = ErrDatabase.New("already exists").SetStatusCode(http.StatusConflict)
	ErrNotFound           apperrors.Error = ErrDatabase.New("not found").SetStatusCode(http.StatusNotFound)
	ErrInvalidInput       apperrors.Error = ErrDatabase.New("invalid input").SetStatusCode(http.StatusBadRequest)
	ErrInvalidApplication apperrors.Error = ErrDatabase.New("invalid application").SetStatusCode(http.StatusBadRequest)
	ErrInvalidVersion     apperrors.Error = ErrDatabase.New("invalid application version").SetStatusCode(http.StatusBadRequest)
	ErrInvalidRuntime     apperrors.Error = ErrDatabase.New("invalid runtime").SetStatusCode(http.StatusBadRequest)
	ErrMissingTenantID    apperrors.Error = ErrInvalidInput.New("missing tenant ID").SetStatusCode(http.StatusBadRequest)
	ErrQuotaExceeded      apperrors.Error = ErrDatabase.New("application quota exceeded").SetStatusCode(http.StatusForbidden)
)
