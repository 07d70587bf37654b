package models

import (
	"context"

	"github.com/google/uuid"
	storage "github.com/ssko7098/Harmonize/pkg/redis"
	"github.com/ssko7098/Harmonize/pkg/utils"
	"gorm.io/gorm"
)

// ReactionState is the per-(comment, user) vote state. A user is never
// in both membership sets at once.
type ReactionState uint8

const (
	Neutral ReactionState = iota
	Liked
	Disliked
)

// ReactionAction is a press of the like or dislike button.
type ReactionAction uint8

const (
	ActionLike ReactionAction = iota
	ActionDislike
)

// transition implements the toggle/switch state machine:
//
//	NEUTRAL  --like-->    LIKED      LIKED    --like-->    NEUTRAL
//	NEUTRAL  --dislike--> DISLIKED   DISLIKED --dislike--> NEUTRAL
//	LIKED    --dislike--> DISLIKED   DISLIKED --like-->    LIKED
func transition(state ReactionState, action ReactionAction) ReactionState {
	switch action {
	case ActionLike:
		if state == Liked {
			return Neutral
		}
		return Liked
	default:
		if state == Disliked {
			return Neutral
		}
		return Disliked
	}
}

// ToggleCommentLike presses the like button for actorID on a comment.
func ToggleCommentLike(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, actorID, commentID uuid.UUID) error {
	return toggleReaction(ctx, rclient, db, actorID, commentID, ActionLike)
}

// ToggleCommentDislike presses the dislike button for actorID on a comment.
func ToggleCommentDislike(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, actorID, commentID uuid.UUID) error {
	return toggleReaction(ctx, rclient, db, actorID, commentID, ActionDislike)
}

func toggleReaction(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, actorID, commentID uuid.UUID, action ReactionAction) error {
	c, err := GetCommentByID(ctx, db, commentID)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var likes, dislikes int64
		if err := tx.Model(&CommentLike{}).
			Where("comment_id = ? AND user_id = ?", c.ID, actorID).
			Count(&likes).Error; err != nil {
			return err
		}
		if err := tx.Model(&CommentDislike{}).
			Where("comment_id = ? AND user_id = ?", c.ID, actorID).
			Count(&dislikes).Error; err != nil {
			return err
		}

		state := Neutral
		if likes > 0 {
			state = Liked
		} else if dislikes > 0 {
			state = Disliked
		}
		next := transition(state, action)
		if next == state {
			return nil
		}

		// Leave the old set first, then join the new one, bumping the
		// paired counter with each membership change.
		if state == Liked && next != Liked {
			if err := tx.Where("comment_id = ? AND user_id = ?", c.ID, actorID).
				Delete(&CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&Comment{}).Where("id = ?", c.ID).
				UpdateColumn("likes", gorm.Expr("likes - 1")).Error; err != nil {
				return err
			}
		}
		if state == Disliked && next != Disliked {
			if err := tx.Where("comment_id = ? AND user_id = ?", c.ID, actorID).
				Delete(&CommentDislike{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&Comment{}).Where("id = ?", c.ID).
				UpdateColumn("dislikes", gorm.Expr("dislikes - 1")).Error; err != nil {
				return err
			}
		}
		if next == Liked && state != Liked {
			if err := tx.Create(&CommentLike{CommentID: c.ID, UserID: actorID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&Comment{}).Where("id = ?", c.ID).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return err
			}
		}
		if next == Disliked && state != Disliked {
			if err := tx.Create(&CommentDislike{CommentID: c.ID, UserID: actorID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&Comment{}).Where("id = ?", c.ID).
				UpdateColumn("dislikes", gorm.Expr("dislikes + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update reaction")
	}

	invalidateComment(ctx, rclient, c.ID)
	invalidateWall(ctx, rclient, c.ProfileID)
	return nil
}

// ReportComment flags a comment for moderation. The first report from a
// user bumps the counter; repeats are no-ops.
func ReportComment(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, actorID, commentID uuid.UUID) error {
	c, err := GetCommentByID(ctx, db, commentID)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&CommentReport{}).
			Where("comment_id = ? AND user_id = ?", c.ID, actorID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		if err := tx.Create(&CommentReport{CommentID: c.ID, UserID: actorID}).Error; err != nil {
			return err
		}
		return tx.Model(&Comment{}).Where("id = ?", c.ID).
			UpdateColumn("report_count", gorm.Expr("report_count + 1")).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to report comment")
	}

	invalidateComment(ctx, rclient, c.ID)
	invalidateWall(ctx, rclient, c.ProfileID)
	return nil
}

// ClearCommentReports wipes the reporter set and zeroes the counter.
// Callers must gate this behind the admin flag.
func ClearCommentReports(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, commentID uuid.UUID) error {
	c, err := GetCommentByID(ctx, db, commentID)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", commentID).Delete(&CommentReport{}).Error; err != nil {
			return err
		}
		return tx.Model(&Comment{}).Where("id = ?", commentID).
			UpdateColumn("report_count", 0).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to clear comment reports")
	}

	invalidateComment(ctx, rclient, commentID)
	invalidateWall(ctx, rclient, c.ProfileID)
	return nil
}

func invalidateComment(ctx context.Context, rclient *storage.RedisClient, id uuid.UUID) {
	if rclient == nil {
		return
	}
	rclient.Del(ctx, "comment:"+id.String())
}
