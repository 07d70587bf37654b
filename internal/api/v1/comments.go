package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ssko7098/Harmonize/internal/auth"
	comments "github.com/ssko7098/Harmonize/internal/models/comments"
	"github.com/ssko7098/Harmonize/pkg/utils"
)

func commentID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, utils.NewError(utils.ErrBadRequest.Code, "Invalid comment id")
	}
	return id, nil
}

// PostComment writes a top-level comment on a profile wall.
func PostComment(c *fiber.Ctx) error {
	type CommentInput struct {
		Message string `json:"message" validate:"required,min=1,max=1000"`
	}
	ci := new(CommentInput)
	if err := utils.StrictBodyParser(c, ci); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if errs := Validator.Validate(ci); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": errs,
		})
	}

	u := auth.CurrentUser(c)
	comment, err := comments.NewComment(c.Context(), Redis, DB, u.ID, c.Params("username"), ci.Message, nil)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment posted",
		"comment": comment,
	})
}

// ReplyComment answers an existing comment in the same thread.
func ReplyComment(c *fiber.Ctx) error {
	type ReplyInput struct {
		Message string `json:"message" validate:"required,min=1,max=1000"`
	}
	ri := new(ReplyInput)
	if err := utils.StrictBodyParser(c, ri); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if errs := Validator.Validate(ri); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": errs,
		})
	}

	parentID, err := commentID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	u := auth.CurrentUser(c)
	comment, err := comments.NewComment(c.Context(), Redis, DB, u.ID, c.Params("username"), ri.Message, &parentID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Reply posted",
		"comment": comment,
	})
}

// DeleteComment removes a comment thread. Callers without the right to
// delete get the same success response as everyone else.
func DeleteComment(c *fiber.Ctx) error {
	id, err := commentID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	u := auth.CurrentUser(c)
	if err := comments.DeleteComment(c.Context(), Redis, DB, u, id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Comment deleted").Send()
}

// LikeComment presses the like button: likes toggle off, and a like
// replaces a standing dislike.
func LikeComment(c *fiber.Ctx) error {
	id, err := commentID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	u := auth.CurrentUser(c)
	if err := comments.ToggleCommentLike(c.Context(), Redis, DB, u.ID, id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Reaction updated").Send()
}

// DislikeComment presses the dislike button, mirror of LikeComment.
func DislikeComment(c *fiber.Ctx) error {
	id, err := commentID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	u := auth.CurrentUser(c)
	if err := comments.ToggleCommentDislike(c.Context(), Redis, DB, u.ID, id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Reaction updated").Send()
}

// ReportComment flags a comment for moderation, once per reporter.
func ReportComment(c *fiber.Ctx) error {
	id, err := commentID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	u := auth.CurrentUser(c)
	if err := comments.ReportComment(c.Context(), Redis, DB, u.ID, id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Comment reported").Send()
}
