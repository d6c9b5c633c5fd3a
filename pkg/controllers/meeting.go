package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/miniclay/miniclay-server/pkg/models"
)

// MeetingController holds dependencies for session lifecycle handlers.
type MeetingController struct {
	MeetingModel *models.MeetingModel
}

func NewMeetingController(m *models.MeetingModel) *MeetingController {
	return &MeetingController{
		MeetingModel: m,
	}
}

// HandleJoinMeeting registers the bot for a session, resolving the id from
// an explicit value or a shareable join link.
func (mc *MeetingController) HandleJoinMeeting(c *fiber.Ctx) error {
	req := new(models.JoinRequest)
	if err := c.BodyParser(req); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := mc.MeetingModel.Join(c.UserContext(), req)
	if err != nil {
		return sendError(c, errStatus(err), err.Error())
	}

	return c.JSON(res)
}

// HandleMeetingStatus reports the live view of a session.
func (mc *MeetingController) HandleMeetingStatus(c *fiber.Ctx) error {
	res, err := mc.MeetingModel.Status(c.Params("sessionId"))
	if err != nil {
		return sendError(c, errStatus(err), err.Error())
	}

	return c.JSON(res)
}

// HandleLeaveMeeting removes the session record.
func (mc *MeetingController) HandleLeaveMeeting(c *fiber.Ctx) error {
	sessionId := c.Params("sessionId")
	if err := mc.MeetingModel.Leave(sessionId); err != nil {
		return sendError(c, errStatus(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"status":    "left",
		"sessionId": sessionId,
	})
}
