package model

import "strings"

// swagger:model
type Tag struct {
	UUIDBase
	// Name 保留首次创建时的展示大小写，Slug 是小写形式并携带唯一索引，
	// 并发创建 "rust" 和 "Rust" 时由索引保证只落下一个文档
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"-"`
	// Questions 是 Question.Tags 的反向引用集合，同样只允许 TagService 修改
	Questions []Question `gorm:"many2many:question_tags" json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}

func TagSlug(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TagCount 标签及其引用的问题数，用于热门标签排序
type TagCount struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QuestionCount int64  `json:"questionCount"`
}
