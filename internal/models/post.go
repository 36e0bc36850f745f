package models

import (
	"time"
)

type Post struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Text   string `gorm:"type:text;not null" json:"text"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	// Optional group. Deleting a group must not delete its posts,
	// so the reference is nulled instead.
	GroupID *uint     `gorm:"index" json:"group_id"`
	Group   *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group"`
	Image   string    `json:"image"` // media path, optional
	PubDate time.Time `gorm:"column:pub_date;autoCreateTime;index" json:"pub_date"`

	// 非数据库字段，用于查询时填充
	CommentCount int `gorm:"-" json:"comment_count"`
}
