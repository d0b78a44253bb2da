package model

// Resource 资源库条目（冥想、文章、练习等）
type Resource struct {
	ID          int      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title       string   `gorm:"type:varchar(255);not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Category    string   `gorm:"type:varchar(64);index" json:"category"`
	Type        string   `gorm:"type:varchar(32)" json:"type"`
	Difficulty  string   `gorm:"type:varchar(32);index" json:"difficulty"`
	Duration    string   `gorm:"type:varchar(32)" json:"duration"`
	Content     string   `gorm:"type:text" json:"content"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	Rating      float64  `json:"rating"`
	Views       int      `json:"views"`
}

// TableName 指定表名
func (Resource) TableName() string {
	return "resources"
}
