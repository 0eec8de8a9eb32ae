package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/programselect/internal/service"
	"go.uber.org/zap"
)

type studentResponse struct {
	Found    bool     `json:"found"`
	Status   string   `json:"status"`
	Title    string   `json:"title,omitempty"`
	Name     string   `json:"name,omitempty"`
	Surname  string   `json:"surname,omitempty"`
	Programs []string `json:"programs,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// StudentInfoHandler serves GET /student-info?studentId=ID. It runs the
// search step and reports the programs the student may choose right now
func StudentInfoHandler(wf *service.Workflow, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		studentID := strings.TrimSpace(c.Query("studentId"))
		if studentID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing studentId"})
		}

		session := wf.NewSession()
		err := session.Search(c.UserContext(), studentID)

		switch {
		case err == nil:
		case errors.Is(err, service.ErrStudentNotFound):
			return c.JSON(studentResponse{
				Found:   false,
				Status:  session.State().String(),
				Message: msgStudentNotFound,
			})
		case errors.Is(err, service.ErrNoCapacity):
		default:
			return writeError(c, logger, err, "Error looking up student info")
		}

		identity := session.Identity()
		resp := studentResponse{
			Found:   true,
			Status:  session.State().String(),
			Title:   identity.Title,
			Name:    identity.GivenName,
			Surname: identity.Surname,
		}
		for _, p := range session.Offerable() {
			resp.Programs = append(resp.Programs, p.Name)
		}
		if session.State() == service.StateNoCapacity {
			resp.Message = msgNoCapacity
		}
		return c.JSON(resp)
	}
}
