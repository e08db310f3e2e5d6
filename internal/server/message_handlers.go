package server

import (
	"warbler/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type createMessageRequest struct {
	Text string `json:"text" validate:"required,max=140"`
}

// CreateMessage handles POST /api/messages
// @Summary Post a message
// @Tags messages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createMessageRequest true "Message text, at most 140 characters"
// @Success 201 {object} models.Message
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /messages [post]
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	var req createMessageRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	msg, err := s.messageService.Post(c.UserContext(), currentUserID(c), req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetMessage handles GET /api/messages/:id
// @Summary Get a message
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} models.Message
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id} [get]
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)
	msg, err := s.messageService.Get(c.UserContext(), id, viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msg)
}

// GetMessageLikes handles GET /api/messages/:id/likes
// @Summary Users who liked a message
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {array} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id}/likes [get]
func (s *Server) GetMessageLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.messageService.Likers(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// DeleteMessage handles DELETE /api/messages/:id
// @Summary Delete one of your messages
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id} [delete]
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.messageService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Message deleted"})
}

// ToggleLike handles POST /api/messages/:id/like
// @Summary Like or unlike a message
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} object{liked=bool}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	liked, err := s.messageService.ToggleLike(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// UnlikeMessage handles DELETE /api/messages/:id/like
// @Summary Remove a like
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} object{liked=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id}/like [delete]
func (s *Server) UnlikeMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.messageService.Unlike(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": false})
}

// GetTimeline handles GET /api/timeline
// @Summary Home timeline
// @Description Your messages and those of users you follow, newest first
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size" default(100)
// @Success 200 {array} models.Message
// @Failure 401 {object} models.ErrorResponse
// @Router /timeline [get]
func (s *Server) GetTimeline(c *fiber.Ctx) error {
	page := parsePagination(c, repository.TimelineLimit)
	msgs, err := s.messageService.Timeline(c.UserContext(), currentUserID(c), page.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msgs)
}
