package services

import (
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ReactionOutcome tells the client what a reaction request actually did.
type ReactionOutcome string

const (
	ReactionAdded   ReactionOutcome = "added"
	ReactionUpdated ReactionOutcome = "updated"
	ReactionRemoved ReactionOutcome = "removed"
)

var ErrInvalidReactionType = errors.New("invalid reaction type")

// ReactionService records at most one like/dislike per (comment, identity)
// with toggle semantics. The unique index on the pair is the backstop against
// concurrent double-adds.
type ReactionService struct {
	db *gorm.DB
}

func NewReactionService(gdb *gorm.DB) *ReactionService {
	return &ReactionService{db: gdb}
}

// React toggles or replaces the identity's reaction on a comment.
func (s *ReactionService) React(commentID, identity, reactionType string) (ReactionOutcome, error) {
	if !models.ValidReactionType(reactionType) {
		return "", ErrInvalidReactionType
	}

	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		return "", ErrCommentNotFound
	}

	var existing models.Reaction
	err := s.db.Where("comment_id = ? AND identity = ?", commentID, identity).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		reaction := models.Reaction{
			CommentID: commentID,
			Identity:  identity,
			Type:      reactionType,
		}
		if createErr := s.db.Create(&reaction).Error; createErr != nil {
			// A concurrent request won the insert. Fall through to the
			// existing-row semantics against the row it created.
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return s.reactOnExisting(commentID, identity, reactionType)
			}
			return "", createErr
		}
		return ReactionAdded, nil
	}
	if err != nil {
		return "", err
	}

	return s.applyToExisting(&existing, reactionType)
}

func (s *ReactionService) reactOnExisting(commentID, identity, reactionType string) (ReactionOutcome, error) {
	var existing models.Reaction
	if err := s.db.Where("comment_id = ? AND identity = ?", commentID, identity).First(&existing).Error; err != nil {
		return "", err
	}
	return s.applyToExisting(&existing, reactionType)
}

func (s *ReactionService) applyToExisting(existing *models.Reaction, reactionType string) (ReactionOutcome, error) {
	if existing.Type == reactionType {
		// Same type twice toggles the reaction off.
		if err := s.db.Delete(existing).Error; err != nil {
			return "", err
		}
		return ReactionRemoved, nil
	}

	if err := s.db.Model(existing).Update("type", reactionType).Error; err != nil {
		return "", err
	}
	return ReactionUpdated, nil
}

// GetCounts derives counts from the live rows every time; nothing is
// denormalized that could drift from the row set.
func (s *ReactionService) GetCounts(commentID string) (likes, dislikes int64, err error) {
	if err = s.db.Model(&models.Reaction{}).
		Where("comment_id = ? AND type = ?", commentID, models.ReactionLike).
		Count(&likes).Error; err != nil {
		return 0, 0, err
	}
	err = s.db.Model(&models.Reaction{}).
		Where("comment_id = ? AND type = ?", commentID, models.ReactionDislike).
		Count(&dislikes).Error
	return likes, dislikes, err
}
