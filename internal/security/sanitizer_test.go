package security

import "testing"

// タグ除去と空白トリムを検証
func TestSanitizeName_StripsTags(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストは変更されない", "Mária Kováčová", "Mária Kováčová"},
		{"scriptタグが除去される", `<script>alert(1)</script>Ján`, "Ján"},
		{"装飾タグも除去される", "<b>Peter</b> Novák", "Peter Novák"},
		{"imgのイベント属性ごと除去される", `<img src=x onerror=alert(1)>Eva`, "Eva"},
		{"前後の空白がトリムされる", "  Anna  ", "Anna"},
		{"空入力は空のまま", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// 冪等性: 一度サニタイズした出力を再度通しても変化しないことを検証
func TestSanitizeName_Idempotent(t *testing.T) {
	s := NewTextSanitizer()
	once := s.SanitizeName(`<i>Lektor</i> č. 1`)
	twice := s.SanitizeName(once)
	if once != twice {
		t.Errorf("sanitize not idempotent: %q != %q", once, twice)
	}
}
