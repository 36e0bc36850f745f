package services

import (
	"yatube/internal/db"
	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowService manages the directed subscription edges between users.
type FollowService struct{}

func NewFollowService() *FollowService {
	return &FollowService{}
}

// Follow creates a subscription edge from user to author. Self-follow
// is silently ignored. The insert goes through ON CONFLICT DO NOTHING
// against the (user_id, author_id) unique index, so repeated calls and
// concurrent requests leave exactly one edge.
func (s *FollowService) Follow(user, author *models.User) error {
	if user.ID == author.ID {
		return nil
	}

	follow := models.Follow{
		UserID:   user.ID,
		AuthorID: author.ID,
	}
	return db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Create(&follow).Error
}

// Unfollow removes the edge for the pair. Returns
// gorm.ErrRecordNotFound when no such edge exists.
func (s *FollowService) Unfollow(user, author *models.User) error {
	result := db.DB.Where("user_id = ? AND author_id = ?", user.ID, author.ID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsFollowing reports whether user has an edge to author.
func (s *FollowService) IsFollowing(user, author *models.User) bool {
	var count int64
	db.DB.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", user.ID, author.ID).
		Count(&count)
	return count > 0
}

// FeedQuery returns the query for every post authored by someone the
// user follows, newest first. Callers paginate it.
func (s *FollowService) FeedQuery(user *models.User) *gorm.DB {
	return db.DB.Model(&models.Post{}).
		Preload("User").Preload("Group").
		Where("user_id IN (?)",
			db.DB.Model(&models.Follow{}).
				Select("author_id").
				Where("user_id = ?", user.ID)).
		Order("pub_date DESC")
}
