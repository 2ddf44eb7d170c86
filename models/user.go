package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 用户角色（闭合枚举，只有admin和user两种）
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User 用户模型
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"type:varchar(20);not null;comment:名" json:"first_name"`
	LastName  string    `gorm:"type:varchar(20);not null;comment:姓" json:"last_name"`
	Email     string    `gorm:"type:varchar(100);uniqueIndex;not null;comment:邮箱" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null;comment:密码哈希" json:"-"` // 不返回给前端
	Role      string    `gorm:"type:varchar(10);default:user;comment:角色: admin或user" json:"role"`
	IsActive  bool      `gorm:"default:true;comment:账号是否可用" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联关系
	Reviews []Review `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
	Orders  []Order  `gorm:"foreignKey:UserID" json:"orders,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// BeforeSave 保存前钩子：密码如果还是明文则自动加密
// 新建用户或更新时传入明文密码都会走到这里，库里永远只存bcrypt哈希
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password == "" || IsHashedPassword(u.Password) {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword 校验明文密码是否与存储的哈希匹配
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// IsAdmin 是否为管理员（大小写不敏感）
func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// IsHashedPassword 判断字符串是否已经是bcrypt哈希
func IsHashedPassword(s string) bool {
	return strings.HasPrefix(s, "$2a$") ||
		strings.HasPrefix(s, "$2b$") ||
		strings.HasPrefix(s, "$2y$")
}

// IsValidRole 校验角色取值
func IsValidRole(role string) bool {
	return strings.EqualFold(role, RoleAdmin) || strings.EqualFold(role, RoleUser)
}
