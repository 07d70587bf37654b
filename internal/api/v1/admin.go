package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ssko7098/Harmonize/internal/auth"
	models "github.com/ssko7098/Harmonize/internal/models"
	comments "github.com/ssko7098/Harmonize/internal/models/comments"
	music "github.com/ssko7098/Harmonize/internal/models/music"
	user "github.com/ssko7098/Harmonize/internal/models/user"
	"github.com/ssko7098/Harmonize/internal/moderation"
	"github.com/ssko7098/Harmonize/pkg/utils"
)

// ReportedContent feeds the moderation dashboard with every comment,
// profile and song carrying an open report, most-reported first.
func ReportedContent(c *fiber.Ctx) error {
	reportedComments, err := moderation.ReportedComments(c.Context(), DB)
	if err != nil {
		return utils.SendError(c, err)
	}
	reportedProfiles, err := moderation.ReportedProfiles(c.Context(), DB)
	if err != nil {
		return utils.SendError(c, err)
	}
	reportedSongs, err := moderation.ReportedSongs(c.Context(), DB)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.Success(c).WithData(fiber.Map{
		"comments": reportedComments,
		"profiles": reportedProfiles,
		"songs":    reportedSongs,
	}).Send()
}

// ClearCommentReports dismisses every report on a comment.
func ClearCommentReports(c *fiber.Ctx) error {
	id, err := commentID(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := comments.ClearCommentReports(c.Context(), Redis, DB, id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Reports cleared").Send()
}

// ClearProfileReports dismisses every report on a profile.
func ClearProfileReports(c *fiber.Ctx) error {
	profile, _, err := user.GetProfileByUsername(c.Context(), DB, c.Params("username"))
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := user.ClearProfileReports(c.Context(), Redis, DB, profile.ID); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Reports cleared").Send()
}

// ClearSongReports dismisses every report on a song.
func ClearSongReports(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "song")
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := music.ClearSongReports(c.Context(), Redis, DB, id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Reports cleared").Send()
}

// DeactivateUser retires another user's account. Admin counterpart of
// the self-service DeactivateAccount.
func DeactivateUser(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid user id"))
	}

	u := auth.CurrentUser(c)
	if err := models.DeactivateUser(c.Context(), Redis, DB, u, targetID, Media); err != nil {
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithFields("admin_id", u.ID.String(), "target_id", targetID.String()).Logs("User deactivated by admin")
	return utils.Success(c).WithMessage("User deactivated").Send()
}
