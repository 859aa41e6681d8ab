package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/mgrega/lektori/internal/model"
)

// NewAdminAuthMiddleware は管理者トークンによる認可ミドルウェアを返す。
// 変更系ルートに適用し、Authorization: Bearer <token> を環境変数の
// 管理者トークンと定数時間比較で照合する。
func NewAdminAuthMiddleware(adminToken string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeUnauthorized(w)
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusUnauthorized, &model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "Na túto operáciu je potrebné prihlásenie správcu.",
		Category: "auth",
		Action:   "Prihláste sa ako správca a skúste to znova.",
	})
}
