package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/programselect/internal/service"
	"go.uber.org/zap"
)

type submissionResponse struct {
	Timestamp string `json:"timestamp"`
	StudentID string `json:"studentId"`
	Title     string `json:"title"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Program   string `json:"program"`
}

// InputDataHandler serves GET /input-data, optionally filtered with ?program=
func InputDataHandler(wf *service.Workflow, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := wf.Submissions(c.UserContext(), c.Query("program"))
		if err != nil {
			return writeError(c, logger, err, "Error getting input data")
		}

		resp := make([]submissionResponse, len(records))
		for i, r := range records {
			resp[i] = submissionResponse{
				Timestamp: r.Timestamp,
				StudentID: r.StudentID,
				Title:     r.Title,
				Name:      r.GivenName,
				Surname:   r.Surname,
				Program:   r.Program,
			}
		}
		return c.JSON(resp)
	}
}

// SubmitHandler serves POST /submit-data. The body is validated before any
// store call; capacity is re-checked right before the ledger append
func SubmitHandler(wf *service.Workflow, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sub service.Submission
		if err := c.BodyParser(&sub); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
				Code: "invalid_body", Error: "Request body must be a JSON object",
			})
		}

		session, err := wf.Resume(sub)
		if err != nil {
			return writeError(c, logger, err, "Error submitting data")
		}

		rec, err := session.Confirm(c.UserContext())
		if err != nil {
			return writeError(c, logger, err, "Error submitting data")
		}

		return c.JSON(fiber.Map{"success": true, "timestamp": rec.Timestamp})
	}
}
