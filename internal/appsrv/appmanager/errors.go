package appmanager

import (
	"net/http"

	"github.com/appcloud/appcloud-internal/internal/common/apperrors"
)

var (
	ErrInvalidRequest       apperrors.Error = apperrors.New("invalid request").SetStatusCode(http.StatusBadRequest)
	ErrInvalidVersionStatus apperrors.Error = ErrInvalidRequest.New("invalid version status")
	ErrNoDatabase           apperrors.Error = apperrors.New("database unavailable").SetStatusCode(http.StatusInternalServerError)
)
