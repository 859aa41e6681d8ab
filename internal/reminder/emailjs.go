package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mgrega/lektori/internal/model"
	"github.com/mgrega/lektori/internal/security"
)

// defaultEmailEndpoint はEmailJSの送信APIエンドポイント。
// 設定でエンドポイントが上書きされていない場合に使われる。
const defaultEmailEndpoint = "https://api.emailjs.com/api/v1.6/email/send"

// EmailClient はEmailJS APIのクライアント。
// エンドポイントは管理者が設定で変更できるため、送信前にSSRF検証を行う。
type EmailClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	guard      security.EndpointGuardService
}

// NewEmailClient はEmailClientの新しいインスタンスを生成する。
// httpClientにはEndpointGuardService.NewSafeClientで生成したクライアントを渡す。
func NewEmailClient(httpClient *http.Client, guard security.EndpointGuardService, logger *slog.Logger) *EmailClient {
	return &EmailClient{
		httpClient: httpClient,
		logger:     logger,
		guard:      guard,
	}
}

// emailRequest はEmailJS送信APIのリクエストボディ。
type emailRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send はリマインダーメールを1通送信する。
// EmailJSの設定が不完全な場合、エンドポイントが危険な場合、
// APIがエラーステータスを返した場合はエラーを返す。リトライは行わない。
func (c *EmailClient) Send(ctx context.Context, settings model.ReminderSettings, entry model.MassEntry, reading int, lector model.Lector) error {
	if settings.EmailJSServiceID == "" || settings.EmailJSTemplateID == "" || settings.EmailJSPublicKey == "" {
		return fmt.Errorf("EmailJSの設定が不完全です")
	}
	if lector.Email == "" {
		return fmt.Errorf("朗読者 %s にメールアドレスが設定されていません", lector.Name)
	}

	endpoint := settings.EmailEndpoint
	if endpoint == "" {
		endpoint = defaultEmailEndpoint
	}
	if err := c.guard.ValidateEndpoint(endpoint); err != nil {
		return fmt.Errorf("メールエンドポイントの検証に失敗しました: %w", err)
	}

	payload := emailRequest{
		ServiceID:  settings.EmailJSServiceID,
		TemplateID: settings.EmailJSTemplateID,
		UserID:     settings.EmailJSPublicKey,
		TemplateParams: map[string]string{
			"to_name":   lector.Name,
			"to_email":  lector.Email,
			"mass_date": entry.Date,
			"mass_day":  entry.DayName,
			"mass_time": entry.Time,
			"mass_type": entry.TypeName,
			"reading":   strconv.Itoa(reading),
			"message":   ComposeMessage(entry, reading, lector.Name),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("リクエストボディの生成に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("メール送信APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("lector", lector.Name),
		)
		return fmt.Errorf("メール送信APIの呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("メール送信APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("body", string(respBody)),
			slog.String("lector", lector.Name),
		)
		return fmt.Errorf("メール送信APIがステータス %d を返しました", resp.StatusCode)
	}

	return nil
}
