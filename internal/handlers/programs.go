package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/programselect/internal/service"
	"go.uber.org/zap"
)

type programResponse struct {
	Program   string `json:"program"`
	Capacity  string `json:"capacity"`
	Reserved  string `json:"reserved"`
	Available string `json:"available"`
}

// ProgramsHandler serves GET /program-data with the cells exactly as read
func ProgramsHandler(wf *service.Workflow, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		programs, err := wf.Programs(c.UserContext())
		if err != nil {
			return writeError(c, logger, err, "Error getting program data")
		}

		resp := make([]programResponse, len(programs))
		for i, p := range programs {
			resp[i] = programResponse{
				Program:   p.Name,
				Capacity:  p.Capacity,
				Reserved:  p.Reserved,
				Available: p.Available,
			}
		}
		return c.JSON(resp)
	}
}
