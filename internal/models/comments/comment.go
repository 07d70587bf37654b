package models

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	user "github.com/ssko7098/Harmonize/internal/models/user"
	storage "github.com/ssko7098/Harmonize/pkg/redis"
	"github.com/ssko7098/Harmonize/pkg/utils"
	"gorm.io/gorm"
)

// Comment lives on a profile wall and is written by some other user.
// ParentCommentID forms the reply tree; the UI only ever shows one level
// but nothing here caps the depth.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	ProfileID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_comment_profile" json:"profile_id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_comment_author" json:"user_id"`
	Message         string     `gorm:"type:text;not null" json:"message" validate:"required,min=1,max=1000"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid;index:idx_comment_parent" json:"parent_comment_id"`

	Likes       int `gorm:"default:0" json:"likes"`
	Dislikes    int `gorm:"default:0" json:"dislikes"`
	ReportCount int `gorm:"default:0" json:"report_count"`

	Author        user.User    `gorm:"foreignKey:UserID" json:"author"`
	Profile       user.Profile `gorm:"foreignKey:ProfileID" json:"-"`
	ParentComment *Comment     `gorm:"foreignKey:ParentCommentID" json:"-"`
	Replies       []Comment    `gorm:"foreignKey:ParentCommentID" json:"replies"`
}

// Per-user membership sets. The composite primary keys double as the
// uniqueness guarantee behind the idempotent operations.
type CommentLike struct {
	CommentID uuid.UUID `gorm:"type:uuid;primaryKey" json:"comment_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
}

type CommentDislike struct {
	CommentID uuid.UUID `gorm:"type:uuid;primaryKey" json:"comment_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
}

type CommentReport struct {
	CommentID uuid.UUID `gorm:"type:uuid;primaryKey" json:"comment_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
}

// NewComment posts a comment on the wall belonging to targetUsername.
// Top-level comments on your own wall are blocked; replying inside a
// thread on your own wall is fine.
func NewComment(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, authorID uuid.UUID, targetUsername, message string, parentID *uuid.UUID) (*Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "Message cannot be empty")
	}

	profile, owner, err := user.GetProfileByUsername(ctx, db, targetUsername)
	if err != nil {
		return nil, err
	}

	if parentID == nil && owner.ID == authorID {
		return nil, utils.NewError(utils.ErrForbidden.Code, "You cannot comment on your own profile")
	}

	if parentID != nil {
		var parent Comment
		if err := db.WithContext(ctx).Where("id = ?", *parentID).First(&parent).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, utils.NewError(utils.ErrNotFound.Code, "Parent comment not found")
			}
			return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load parent comment")
		}
		if parent.ProfileID != profile.ID {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Parent comment does not belong to this profile")
		}
	}

	c := &Comment{
		ProfileID:       profile.ID,
		UserID:          authorID,
		Message:         message,
		ParentCommentID: parentID,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to post comment")
	}

	invalidateWall(ctx, rclient, profile.ID)
	return c, nil
}

// GetCommentByID loads one comment.
func GetCommentByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Comment, error) {
	var c Comment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Comment not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get comment")
	}
	return &c, nil
}

// DeleteComment removes a comment and every reply under it. Only the
// author, the wall owner, or an admin may delete; anyone else gets a
// silent no-op, matching the original behavior of redirecting without
// touching the row.
func DeleteComment(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, actor *user.User, commentID uuid.UUID) error {
	c, err := GetCommentByID(ctx, db, commentID)
	if err != nil {
		return err
	}

	var wall user.Profile
	if err := db.WithContext(ctx).Where("id = ?", c.ProfileID).First(&wall).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load profile")
	}

	if actor.ID != c.UserID && actor.ID != wall.UserID && !actor.IsAdmin {
		return nil
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := CollectThreadIDs(tx, []uuid.UUID{c.ID})
		if err != nil {
			return err
		}
		return DeleteCommentRows(tx, ids)
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete comment")
	}

	invalidateWall(ctx, rclient, c.ProfileID)
	user.InvalidateUserCache(ctx, rclient, wall.UserID)
	return nil
}

// CollectThreadIDs walks the reply tree below roots, frontier by
// frontier, and returns every comment id in the subtree including the
// roots themselves.
func CollectThreadIDs(tx *gorm.DB, roots []uuid.UUID) ([]uuid.UUID, error) {
	all := append([]uuid.UUID{}, roots...)
	frontier := roots
	for len(frontier) > 0 {
		var next []uuid.UUID
		if err := tx.Model(&Comment{}).
			Where("parent_comment_id IN ?", frontier).
			Pluck("id", &next).Error; err != nil {
			return nil, err
		}
		all = append(all, next...)
		frontier = next
	}
	return all, nil
}

// DeleteCommentRows drops the comments and their membership sets. Must
// run inside the caller's transaction.
func DeleteCommentRows(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("comment_id IN ?", ids).Delete(&CommentLike{}).Error; err != nil {
		return err
	}
	if err := tx.Where("comment_id IN ?", ids).Delete(&CommentDislike{}).Error; err != nil {
		return err
	}
	if err := tx.Where("comment_id IN ?", ids).Delete(&CommentReport{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&Comment{}).Error
}

// ProfileWall returns the top-level comments of a wall, newest first,
// with their direct replies nested. The assembled wall is cached per
// profile; every comment mutation on the wall drops the cached copy.
func ProfileWall(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, username string) ([]Comment, error) {
	profile, _, err := user.GetProfileByUsername(ctx, db, username)
	if err != nil {
		return nil, err
	}

	if rclient != nil {
		if cached, err := rclient.Get(ctx, wallKey(profile.ID)).Result(); err == nil {
			var comments []Comment
			if json.Unmarshal([]byte(cached), &comments) == nil {
				return comments, nil
			}
		}
	}

	var comments []Comment
	if err := db.WithContext(ctx).
		Where("profile_id = ? AND parent_comment_id IS NULL", profile.ID).
		Order("created_at DESC").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Find(&comments).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load comments")
	}

	if rclient != nil {
		if wallJSON, err := json.Marshal(comments); err == nil {
			rclient.Set(ctx, wallKey(profile.ID), wallJSON, 10*time.Minute)
		}
	}
	return comments, nil
}

func wallKey(profileID uuid.UUID) string {
	return "wall:" + profileID.String()
}

func invalidateWall(ctx context.Context, rclient *storage.RedisClient, profileID uuid.UUID) {
	if rclient == nil {
		return
	}
	rclient.Del(ctx, wallKey(profileID))
}
