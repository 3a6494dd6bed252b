package models

import "time"

// PasswordResetOTP одноразовый код восстановления пароля
type PasswordResetOTP struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	UserID    string    `gorm:"column:user_id;type:char(5);not null;index"`
	Token     string    `gorm:"column:token;size:6;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName задает имя таблицы
func (PasswordResetOTP) TableName() string { return "password_reset_otps" }

// Expired сообщает, истек ли код к моменту now
func (o *PasswordResetOTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// OTPLength длина кода восстановления
const OTPLength = 6

// OTPTTL время жизни кода восстановления
const OTPTTL = 10 * time.Minute
