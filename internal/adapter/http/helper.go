package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"groupware-approval/internal/domain/document"
	"groupware-approval/internal/domain/member"
	"groupware-approval/internal/domain/route"
	"groupware-approval/internal/domain/uow"
	"groupware-approval/pkg/id"
)

const dateLayout = "2006-01-02"

var errMapping = []struct {
	err    error
	status int
	code   string
}{
	{document.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{route.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{member.ErrInvalidReference, http.StatusUnprocessableEntity, "INVALID_REFERENCE"},
	{route.ErrOutOfSequence, http.StatusConflict, "OUT_OF_SEQUENCE"},
	{route.ErrAlreadyResolved, http.StatusConflict, "ALREADY_RESOLVED"},
	{document.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
	{member.ErrInsufficientBalance, http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"},
	{uow.ErrConflict, http.StatusConflict, "CONFLICT"},
	{document.ErrNotOwner, http.StatusForbidden, "NOT_OWNER"},
	{document.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{route.ErrInvalidAction, http.StatusBadRequest, "INVALID_INPUT"},
}

// writeError maps domain errors to a status and stable code. Anything
// unrecognised is a 500 with a generic message.
func writeError(c echo.Context, err error) error {
	for _, m := range errMapping {
		if errors.Is(err, m.err) {
			return c.JSON(m.status, ErrorResponse{Code: m.code, Error: err.Error()})
		}
	}
	log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("request failed")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL", Error: "internal error"})
}

func badInput(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_INPUT", Error: msg})
}

// bindValid binds the body and runs the registered validator. A non-nil
// response means the request is rejected with that status.
func bindValid(c echo.Context, req any) (int, *ErrorResponse) {
	if err := c.Bind(req); err != nil {
		return http.StatusBadRequest, &ErrorResponse{Code: "INVALID_INPUT", Error: "invalid body"}
	}
	if err := c.Validate(req); err != nil {
		return http.StatusUnprocessableEntity, &ErrorResponse{
			Code:    "VALIDATION_FAILED",
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		}
	}
	return 0, nil
}

func pathID(c echo.Context) (uint64, error) {
	n, err := id.Parse(c.Param("id"))
	if err != nil {
		return 0, fmt.Errorf("invalid document id %q", c.Param("id"))
	}
	return n, nil
}

// queryInt returns def when the parameter is absent.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

func queryStatuses(c echo.Context) ([]document.Status, error) {
	var out []document.Status
	for _, part := range strings.Split(c.QueryParam("status"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s := document.Status(part)
		if !s.Valid() {
			return nil, fmt.Errorf("unknown status %q", part)
		}
		out = append(out, s)
	}
	return out, nil
}

// parseDate reads an optional YYYY-MM-DD value as midnight UTC.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
