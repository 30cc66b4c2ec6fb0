package shared

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var JSONAPI = sonic.Config{
	UseNumber:            true,
	EscapeHTML:           false,
	SortMapKeys:          false,
	CompactMarshaler:     true,
	NoQuoteTextMarshaler: true,
	NoNullSliceOrMap:     true,
}.Froze()

var (
	unauthorizedResponse  = mustMarshal(ErrorResponse{Error: "Unauthorized"})
	notFoundResponse      = mustMarshal(ErrorResponse{Error: "Not Found"})
	internalErrorResponse = mustMarshal(ErrorResponse{Error: "Server error"})
	pongResponse          = mustMarshal(MessageResponse{Success: true, Message: "pong"})
)

func mustMarshal(v interface{}) []byte {
	b, _ := JSONAPI.Marshal(v)
	return b
}

func writeRaw(c *fiber.Ctx, httpCode int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(httpCode).Send(body)
}

func ResponseJSON(c *fiber.Ctx, httpCode int, payload interface{}) error {
	body, err := JSONAPI.Marshal(payload)
	if err != nil {
		return err
	}
	return writeRaw(c, httpCode, body)
}

func ResponseOK(c *fiber.Ctx, payload interface{}) error {
	return ResponseJSON(c, http.StatusOK, payload)
}

func ResponsePong(c *fiber.Ctx) error {
	return writeRaw(c, http.StatusOK, pongResponse)
}

func ResponseError(c *fiber.Ctx, httpCode int, message string) error {
	switch {
	case httpCode == http.StatusInternalServerError:
		return writeRaw(c, httpCode, internalErrorResponse)
	case httpCode == http.StatusForbidden && message == "Unauthorized":
		return writeRaw(c, httpCode, unauthorizedResponse)
	case httpCode == http.StatusNotFound && message == "Not Found":
		return writeRaw(c, httpCode, notFoundResponse)
	}
	return ResponseJSON(c, httpCode, ErrorResponse{Error: message})
}

// ErrorHandler is installed as the fiber error handler; every handler error
// ends up here and is rendered as {"error": "..."}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := GetAppError(err); ok {
		if appErr.RetryAfter > 0 {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(appErr.RetryAfter.Seconds()))))
		}
		if appErr.StatusCode >= http.StatusInternalServerError {
			log.WithFields(log.Fields{
				"path":  c.Path(),
				"kind":  appErr.Kind,
				"error": appErr.Error(),
			}).Error("Request failed")
		}
		return ResponseError(c, appErr.StatusCode, appErr.Message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusNotFound {
			return ResponseError(c, fiberErr.Code, "Not Found")
		}
		return ResponseError(c, fiberErr.Code, fiberErr.Message)
	}

	log.WithFields(log.Fields{
		"path":  c.Path(),
		"error": err.Error(),
	}).Error("Unhandled request error")
	return ResponseError(c, http.StatusInternalServerError, "Server error")
}
