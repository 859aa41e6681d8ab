package model

import "time"

// Lector は朗読奉仕者（レクター）を表す。
// 連絡先は任意項目で、欠けているチャネルはリマインダー送信時にスキップされる。
type Lector struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
