package model

// swagger:model User
type User struct {
	BaseModel
	// ClerkID 外部身份提供商的用户标识，所有身份事件以它为键
	ClerkID          string     `gorm:"size:64;uniqueIndex;not null" json:"clerkId"`
	Name             string     `gorm:"size:100;not null" json:"name"`
	Username         string     `gorm:"size:100;uniqueIndex" json:"username"`
	Email            string     `gorm:"size:100" json:"email"`
	Bio              string     `gorm:"type:text" json:"bio"`
	Picture          string     `gorm:"size:255" json:"picture"`
	Location         string     `gorm:"size:100" json:"location"`
	PortfolioWebsite string     `gorm:"size:255" json:"portfolioWebsite"`
	Reputation       int        `gorm:"default:0" json:"reputation"` // 可为负
	Saved            []Question `gorm:"many2many:saved_questions" json:"-"`
}

func (User) TableName() string {
	return "users"
}
