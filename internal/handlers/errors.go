package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/programselect/internal/service"
	"go.uber.org/zap"
)

// Operator-facing messages. Each failure needs a different corrective
// action, so they are never merged into one
const (
	msgStudentNotFound = "Student not found. Please check the ID or contact the enrollment office."
	msgNoCapacity      = "All programs are full. No seats remain in any program."
	msgSeatFilled      = "The program you chose has just filled. Please search again and pick another program."
	msgProgramFull     = "The program you chose has no seats available. Please search again and pick another program."
	msgUnknownProgram  = "The chosen program does not exist."
)

type errorResponse struct {
	Success bool     `json:"success"`
	Code    string   `json:"code"`
	Error   string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
}

// requestLogger attaches the request id set by the requestid middleware
func requestLogger(c *fiber.Ctx, logger *zap.Logger) *zap.Logger {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}

// writeError maps a workflow error to a response. Upstream failures are
// logged in full and answered with the opaque message
func writeError(c *fiber.Ctx, logger *zap.Logger, err error, opaque string) error {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Code: "validation_error", Error: "Missing required fields", Fields: vErr.Fields,
		})
	case errors.Is(err, service.ErrStudentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{
			Code: "student_not_found", Error: msgStudentNotFound,
		})
	case errors.Is(err, service.ErrSeatFilled):
		return c.Status(fiber.StatusConflict).JSON(errorResponse{
			Code: "seat_filled", Error: msgSeatFilled,
		})
	case errors.Is(err, service.ErrProgramFull):
		return c.Status(fiber.StatusConflict).JSON(errorResponse{
			Code: "program_full", Error: msgProgramFull,
		})
	case errors.Is(err, service.ErrNoCapacity):
		return c.Status(fiber.StatusConflict).JSON(errorResponse{
			Code: "no_capacity", Error: msgNoCapacity,
		})
	case errors.Is(err, service.ErrUnknownProgram):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Code: "unknown_program", Error: msgUnknownProgram,
		})
	default:
		requestLogger(c, logger).Error(opaque, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Code: "internal_error", Error: opaque,
		})
	}
}
