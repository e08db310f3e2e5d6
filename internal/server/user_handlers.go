package server

import (
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateProfileRequest struct {
	Username       string  `json:"username" validate:"omitempty,username"`
	Email          string  `json:"email" validate:"omitempty,email"`
	ImageURL       string  `json:"image_url" validate:"omitempty,max=2048"`
	HeaderImageURL string  `json:"header_image_url" validate:"omitempty,max=2048"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	Location       *string `json:"location" validate:"omitempty,max=100"`
	Password       string  `json:"password" validate:"required"`
}

// GetUsers handles GET /api/users
// @Summary List or search users
// @Description List users, optionally filtered by a username substring
// @Tags users
// @Produce json
// @Param q query string false "Username search"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	users, err := s.userService.ListUsers(c.UserContext(), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get a user profile
// @Description User with messages, following, followers, likes and counts
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} service.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	profile, err := s.userService.GetProfile(c.UserContext(), id, viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetUserFollowing handles GET /api/users/:id/following
// @Summary Users this user follows
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/following [get]
func (s *Server) GetUserFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.userService.Following(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUserFollowers handles GET /api/users/:id/followers
// @Summary Users following this user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/followers [get]
func (s *Server) GetUserFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.userService.Followers(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUserLikes handles GET /api/users/:id/likes
// @Summary Messages this user liked
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Message
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/likes [get]
func (s *Server) GetUserLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	msgs, err := s.userService.LikedMessages(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msgs)
}

// GetUserMessages handles GET /api/users/:id/messages
// @Summary Messages written by this user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Offset"
// @Success 200 {array} models.Message
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/messages [get]
func (s *Server) GetUserMessages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 100)
	msgs, err := s.messageService.UserMessages(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msgs)
}

// FollowUser handles POST /api/users/follow/:id
// @Summary Follow a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID to follow"
// @Success 200 {object} object{following=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/follow/{id} [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.Follow(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"following": true})
}

// StopFollowing handles POST /api/users/stop-following/:id
// @Summary Stop following a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID to unfollow"
// @Success 200 {object} object{following=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/stop-following/{id} [post]
func (s *Server) StopFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.Unfollow(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"following": false})
}

// GetMyProfile handles GET /api/users/me
// @Summary Current user's profile
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.Profile
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)
	profile, err := s.userService.GetProfile(c.UserContext(), userID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Edit the current user's profile
// @Description Requires the current password. Omitted fields are left unchanged.
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body updateProfileRequest true "Profile changes"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:          currentUserID(c),
		CurrentPassword: req.Password,
		Username:        req.Username,
		Email:           req.Email,
		ImageURL:        req.ImageURL,
		HeaderImageURL:  req.HeaderImageURL,
		Bio:             req.Bio,
		Location:        req.Location,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteMyAccount handles DELETE /api/users/me
// @Summary Delete the current user
// @Description Removes the account with its messages, likes and follows, then ends the session
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [delete]
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	if err := s.userService.DeleteUser(c.UserContext(), currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	s.endSession(c)
	return c.JSON(fiber.Map{"message": "Account deleted"})
}
