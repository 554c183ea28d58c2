package model

// swagger:model
type Question struct {
	UUIDBase
	Title    string `gorm:"size:255;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"index;type:bigint unsigned" json:"authorId"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	// Tags 只能通过 TagService.ReconcileTags 维护，保证和 Tag 侧的反向引用一致
	Tags          []Tag    `gorm:"many2many:question_tags" json:"tags"`
	Views         int64    `gorm:"default:0" json:"views"`
	UpvoteCount   int      `gorm:"default:0" json:"upvotes"`
	DownvoteCount int      `gorm:"default:0" json:"downvotes"`
	Answers       []Answer `gorm:"foreignKey:QuestionID" json:"answers"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model
type Answer struct {
	UUIDBase
	QuestionID    string `gorm:"index;type:varchar(36)" json:"questionId"`
	AuthorID      uint   `gorm:"index;type:bigint unsigned" json:"authorId"`
	Author        User   `gorm:"foreignKey:AuthorID" json:"author"`
	Content       string `gorm:"type:text;not null" json:"content"`
	UpvoteCount   int    `gorm:"default:0" json:"upvotes"`
	DownvoteCount int    `gorm:"default:0" json:"downvotes"`
}

func (Answer) TableName() string {
	return "answers"
}
