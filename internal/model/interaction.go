package model

type InteractionAction string

const (
	ActionView        InteractionAction = "view"
	ActionAskQuestion InteractionAction = "ask_question"
	ActionAnswer      InteractionAction = "answer"
)

// Interaction 只追加的行为日志：用于浏览去重和推荐信号，随用户或问题级联删除
// swagger:model
type Interaction struct {
	UUIDBase
	UserID     uint              `gorm:"index;type:bigint unsigned" json:"userId"`
	Action     InteractionAction `gorm:"size:20;index;not null" json:"action"`
	QuestionID *string           `gorm:"index;type:varchar(36)" json:"questionId"`
	AnswerID   *string           `gorm:"index;type:varchar(36)" json:"answerId"`
	// Tags 在记录时从问题冗余一份，聚合兴趣标签时不用再回表
	Tags []Tag `gorm:"many2many:interaction_tags" json:"tags"`
}

func (Interaction) TableName() string {
	return "interactions"
}
