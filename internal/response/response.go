// Package response defines the JSON envelope shared by every endpoint.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"go-cdms-inventory/internal/apperror"
	"go-cdms-inventory/internal/model"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	MsgRouteNotFound = "Route not found"
)

type Envelope struct {
	Status     string                `json:"status"`
	Message    string                `json:"message,omitempty"`
	Data       interface{}           `json:"data,omitempty"`
	Pagination *model.Pagination     `json:"pagination,omitempty"`
	Errors     []apperror.FieldError `json:"errors,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// Result is what a handler produces before it is serialized.
type Result struct {
	Code int
	Body Envelope
}

// Succeeded reports whether the envelope status is "success".
func (r *Result) Succeeded() bool {
	return r != nil && r.Body.Status == StatusSuccess
}

// HandlerFunc returns a structured result instead of writing the response.
type HandlerFunc func(c *fiber.Ctx) (*Result, error)

func OK(data interface{}) *Result {
	return &Result{Code: fiber.StatusOK, Body: Envelope{Status: StatusSuccess, Data: data}}
}

func Created(message string, data interface{}) *Result {
	return &Result{Code: fiber.StatusCreated, Body: Envelope{Status: StatusSuccess, Message: message, Data: data}}
}

func Message(message string) *Result {
	return &Result{Code: fiber.StatusOK, Body: Envelope{Status: StatusSuccess, Message: message}}
}

func Paged(data interface{}, p model.Pagination) *Result {
	return &Result{Code: fiber.StatusOK, Body: Envelope{Status: StatusSuccess, Data: data, Pagination: &p}}
}

// WithMessage sets the envelope message.
func (r *Result) WithMessage(message string) *Result {
	r.Body.Message = message
	return r
}

// Send writes r to the client.
func Send(c *fiber.Ctx, r *Result) error {
	return c.Status(r.Code).JSON(r.Body)
}

// Handle adapts a HandlerFunc to a fiber.Handler. Errors are left to the
// application ErrorHandler.
func Handle(h HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := h(c)
		if err != nil {
			return err
		}
		return Send(c, res)
	}
}

// StatusOf maps an error returned by a handler to its HTTP status.
func StatusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperror.From(err).Status()
}

// ErrorHandler renders every error as an error envelope. Internal detail is
// only exposed when exposeDetail is set.
func ErrorHandler(log *logrus.Logger, exposeDetail bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(Envelope{Status: StatusError, Message: fe.Message})
		}

		appErr := apperror.From(err)
		body := Envelope{Status: StatusError, Message: appErr.Message, Errors: appErr.Fields}

		if appErr.Kind == apperror.KindInternal {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("request failed")
			if exposeDetail {
				body.Error = err.Error()
				if appErr.Err != nil {
					body.Error = appErr.Err.Error()
				}
			}
		}
		return c.Status(appErr.Status()).JSON(body)
	}
}

// NotFound is the catch-all for unmatched routes.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(Envelope{Status: StatusError, Message: MsgRouteNotFound})
}
