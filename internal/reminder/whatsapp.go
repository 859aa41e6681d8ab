package reminder

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mgrega/lektori/internal/model"
)

// slovakCountryCode はスロバキアの国番号。国内形式（0始まり）の番号に補完される。
const slovakCountryCode = "421"

// NormalizePhone は電話番号をwa.meリンク用の国際形式（数字のみ）に正規化する。
// 空白・ハイフン・括弧は除去し、"+421..."は"421..."に、"0905..."は"421905..."に、
// "00421..."は"421..."に変換する。数字以外が残る番号は空文字列を返す。
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+':
			// 区切り記号は読み飛ばす。+は後で位置から復元できるため不要
		default:
			return ""
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(phone, "+"):
		return digits
	case strings.HasPrefix(digits, "00"):
		return digits[2:]
	case strings.HasPrefix(digits, "0"):
		return slovakCountryCode + digits[1:]
	default:
		return digits
	}
}

// ComposeMessage はリマインダー本文を組み立てる。
// 例: "Pripomienka: zajtra v nedeľu 2026-03-01 o 9:00 máte 1. čítanie (Nedeľná omša)."
func ComposeMessage(entry model.MassEntry, reading int, lectorName string) string {
	return fmt.Sprintf(
		"Ahoj %s! Pripomienka: zajtra (%s %s) o %s máte %d. čítanie – %s. Ďakujeme!",
		lectorName, entry.DayName, entry.Date, entry.Time, reading, entry.TypeName,
	)
}

// BuildWhatsAppLink は正規化済み番号とメッセージからwa.meリンクを生成する。
// 番号が正規化できない場合は空文字列を返す。
func BuildWhatsAppLink(phone, message string) string {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return ""
	}
	return "https://wa.me/" + normalized + "?text=" + url.QueryEscape(message)
}
