package services

import (
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrantService owns the deletion_grants table: the only channel through which
// an anonymous visitor holds any write capability besides "create".
type GrantService struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewGrantService(gdb *gorm.DB, ttl time.Duration) *GrantService {
	return &GrantService{db: gdb, ttl: ttl, now: time.Now}
}

// Grant issues a fresh deletion capability for a just-created comment. The TTL
// is always measured from now, so a grant can never be born expired.
func (s *GrantService) Grant(commentID, identity string) error {
	grant := models.DeletionGrant{
		CommentID: commentID,
		Identity:  identity,
		ExpiresAt: s.now().Add(s.ttl),
	}
	// One grant per comment. A second insert for the same comment replaces the
	// original rather than stacking capabilities.
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"identity", "expires_at"}),
	}).Create(&grant).Error
}

// CanDelete reports whether the acting identity may delete the comment.
// Admins bypass grants entirely.
func (s *GrantService) CanDelete(commentID, identity string, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	if identity == "" {
		return false
	}

	var grant models.DeletionGrant
	err := s.db.Where("comment_id = ? AND identity = ?", commentID, identity).First(&grant).Error
	if err != nil {
		return false
	}
	return !grant.Expired(s.now())
}

// DeletableIDs filters the given comment ids down to those the identity holds
// an unexpired grant for. Used to tell a requester which comments on a page
// they may still delete.
func (s *GrantService) DeletableIDs(commentIDs []string, identity string) []string {
	ids := []string{}
	if identity == "" || len(commentIDs) == 0 {
		return ids
	}

	s.db.Model(&models.DeletionGrant{}).
		Where("comment_id IN ? AND identity = ? AND expires_at > ?", commentIDs, identity, s.now()).
		Pluck("comment_id", &ids)
	return ids
}

// Revoke drops the grant once the comment is gone.
func (s *GrantService) Revoke(commentID string) {
	s.db.Where("comment_id = ?", commentID).Delete(&models.DeletionGrant{})
}

// SweepExpired discards grants past their expiry. Invoked opportunistically
// from read paths; a grant a few seconds stale either way is acceptable.
func (s *GrantService) SweepExpired() {
	s.db.Where("expires_at <= ?", s.now()).Delete(&models.DeletionGrant{})
}
