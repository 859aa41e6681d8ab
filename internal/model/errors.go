// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。メッセージはスロバキア語。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, schedule, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidMonth      = "INVALID_MONTH"
	ErrCodeInvalidDate       = "INVALID_DATE"
	ErrCodeInvalidTime       = "INVALID_TIME"
	ErrCodeMassNotFound      = "MASS_NOT_FOUND"
	ErrCodeDuplicateMass     = "DUPLICATE_MASS"
	ErrCodeLectorNotFound    = "LECTOR_NOT_FOUND"
	ErrCodeInvalidReading    = "INVALID_READING"
	ErrCodeAddedMassNotFound = "ADDED_MASS_NOT_FOUND"
	ErrCodeInvalidLectorName = "INVALID_LECTOR_NAME"
	ErrCodeDuplicateLector   = "DUPLICATE_LECTOR"
)

// NewInvalidMonthError は無効な年月エラーを生成する。
func NewInvalidMonthError(year, month int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidMonth,
		Message:  fmt.Sprintf("Neplatný mesiac: %d/%d", year, month),
		Category: "validation",
		Action:   "Zadajte rok a mesiac v rozsahu 1–12.",
	}
}

// NewInvalidDateError は無効な日付エラーを生成する。
func NewInvalidDateError(date string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("Neplatný dátum: %s", date),
		Category: "validation",
		Action:   "Zadajte dátum vo formáte RRRR-MM-DD.",
	}
}

// NewInvalidTimeError は無効な時刻エラーを生成する。
func NewInvalidTimeError(t string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTime,
		Message:  fmt.Sprintf("Neplatný čas: %s", t),
		Category: "validation",
		Action:   "Zadajte čas vo formáte HH:MM.",
	}
}

// NewMassNotFoundError は対象ミサ未検出エラーを生成する。
func NewMassNotFoundError(date, time string) *APIError {
	return &APIError{
		Code:     ErrCodeMassNotFound,
		Message:  fmt.Sprintf("Svätá omša %s o %s sa v rozpise nenachádza.", date, time),
		Category: "schedule",
		Action:   "Skontrolujte dátum a čas omše v kalendári.",
	}
}

// NewDuplicateMassError は(date, time)衝突エラーを生成する。
func NewDuplicateMassError(date, time string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateMass,
		Message:  fmt.Sprintf("Svätá omša %s o %s už v rozpise existuje.", date, time),
		Category: "validation",
		Action:   "Zvoľte iný čas alebo upravte existujúcu omšu.",
	}
}

// NewLectorNotFoundError はレクター未検出エラーを生成する。
func NewLectorNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeLectorNotFound,
		Message:  fmt.Sprintf("Lektor sa nenašiel: %s", id),
		Category: "schedule",
		Action:   "Skontrolujte zoznam lektorov.",
	}
}

// NewInvalidReadingError は無効な朗読番号エラーを生成する。
func NewInvalidReadingError(reading int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidReading,
		Message:  fmt.Sprintf("Neplatné číslo čítania: %d", reading),
		Category: "validation",
		Action:   "Číslo čítania musí byť 1 alebo vyššie.",
	}
}

// NewInvalidLectorNameError は無効な朗読者名エラーを生成する。
func NewInvalidLectorNameError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLectorName,
		Message:  "Meno lektora nesmie byť prázdne.",
		Category: "validation",
		Action:   "Zadajte meno lektora.",
	}
}

// NewDuplicateLectorError は朗読者名の重複エラーを生成する。
func NewDuplicateLectorError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateLector,
		Message:  fmt.Sprintf("Lektor s menom %q už existuje.", name),
		Category: "validation",
		Action:   "Zvoľte iné meno alebo upravte existujúceho lektora.",
	}
}

// NewAddedMassNotFoundError は追加ミサ未検出エラーを生成する。
func NewAddedMassNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeAddedMassNotFound,
		Message:  fmt.Sprintf("Pridaná omša sa nenašla: %s", id),
		Category: "schedule",
		Action:   "Omša už mohla byť odstránená. Obnovte kalendár.",
	}
}
