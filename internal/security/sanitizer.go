// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は朗読者名やミサ表示名などの自由入力テキストを
// サニタイズし、保存されたテキストがUIに表示される際のXSSを防止する。
// bluemondayのStrictPolicyで全てのHTMLタグを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService は自由入力テキストのサニタイズ機能のインターフェースを定義する。
// 朗読者・ミサ表示名の保存前に使用される。
type TextSanitizerService interface {
	// SanitizeName はテキストから全てのHTMLタグを除去し、前後の空白を削る。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeName(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグを一切許可しないため、scriptタグやon*イベント属性を含む
// 入力からプレーンテキストのみが残る。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// SanitizeName はテキストから全てのHTMLタグを除去し、前後の空白を削る。
func (s *textSanitizer) SanitizeName(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

// compile-time interface check
var _ TextSanitizerService = (*textSanitizer)(nil)
