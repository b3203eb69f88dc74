package models

import "time"

// AdminModel is a dashboard account.
type AdminModel struct {
	Base        `bson:",inline"`
	Email       string     `bson:"email"               json:"email"`
	Name        string     `bson:"name"                json:"name"`
	Avatar      string     `bson:"avatar,omitempty"    json:"avatar,omitempty"`
	AvatarRef   string     `bson:"avatarRef,omitempty" json:"-"`
	Password    string     `bson:"password"            json:"-"`
	LastLoginAt *time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
}
