// Package errors holds the domain errors shared by repositories, services and
// handlers, and their translation into HTTP errors.
package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotEmpty      = errors.New("category still has actualities")
	ErrInvalidImage          = errors.New("uploaded file is not an image")
	ErrImageStoreUnavailable = errors.New("image storage is not configured")
	ErrImageNotFound         = errors.New("image not found")
)

// Map converts err into the HTTP error returned to the client. Unknown errors
// are logged and become a 500 without leaking their message.
func Map(err error) *echo.HTTPError {
	var he *echo.HTTPError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &he):
		return he
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ErrImageNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Ressource introuvable")
	case errors.Is(err, ErrCategoryNotEmpty):
		return echo.NewHTTPError(http.StatusConflict, "La catégorie contient encore des actualités")
	case errors.Is(err, ErrInvalidImage):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Le fichier doit être une image")
	case errors.Is(err, ErrImageStoreUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Le stockage des images est indisponible")
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "Délai dépassé")
	case errors.Is(err, context.Canceled):
		return echo.NewHTTPError(http.StatusRequestTimeout, "Requête annulée")
	default:
		slog.Error("unhandled error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Erreur interne")
	}
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrImageNotFound)
}
