package model

// Role 用户角色
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// User 用户记录；Password 只用于登录比对，对外一律返回 PublicUser
type User struct {
	ID         string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name       string `gorm:"type:varchar(128);not null" json:"name"`
	Email      string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password   string `gorm:"type:varchar(255);not null" json:"password"`
	Role       Role   `gorm:"type:varchar(16);not null;default:'employee'" json:"role"`
	Department string `gorm:"type:varchar(128);index" json:"department"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 是否为管理员
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser 去除密码后的用户信息
type PublicUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

// Public 返回不含密码的用户视图
func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}
}
