package model

import "gorm.io/gorm"

// User 运维账号 (用于登录后导入邮编区域数据)
type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;not null"` // 用户名唯一且不为空
	Password string `json:"-" gorm:"not null"`                    // bcrypt 加密后的密码
	Email    string `json:"email"`
}
