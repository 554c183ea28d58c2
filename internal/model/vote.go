package model

import "time"

type VoteItemType string

const (
	VoteItemQuestion VoteItemType = "question"
	VoteItemAnswer   VoteItemType = "answer"
)

const (
	VoteValueUp   = 1
	VoteValueDown = -1
)

// Vote 每个 (用户, 内容) 最多一行，由唯一索引保证，
// 因此 upvotes 与 downvotes 永远互斥，换票只是一次原地更新
type Vote struct {
	ID        uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	UserID    uint         `gorm:"uniqueIndex:idx_user_item;type:bigint unsigned" json:"userId"`
	ItemType  VoteItemType `gorm:"uniqueIndex:idx_user_item;size:20" json:"itemType"`
	ItemID    string       `gorm:"uniqueIndex:idx_user_item;size:36" json:"itemId"`
	Value     int          `gorm:"not null" json:"value"` // +1 或 -1
}

func (Vote) TableName() string {
	return "votes"
}
