package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/apperr"
)

// writeError maps the error taxonomy onto HTTP statuses. Anything
// unclassified is a 500 with a generic message; the detail was already
// logged by the service layer.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		return message(c, 400, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return message(c, 404, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return message(c, 409, err.Error())
	default:
		return message(c, 500, "something went wrong, please try again")
	}
}

func message(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"message": msg})
}
