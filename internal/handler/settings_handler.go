package handler

import (
	"net/http"

	"github.com/mgrega/lektori/internal/liturgical"
	"github.com/mgrega/lektori/internal/model"
	"github.com/mgrega/lektori/internal/repository"
	"github.com/mgrega/lektori/internal/security"
)

// SettingsHandler はリマインダー設定のHTTPハンドラー。
type SettingsHandler struct {
	repo  repository.SettingsRepository
	guard security.EndpointGuardService
}

// NewSettingsHandler はSettingsHandlerを生成する。
func NewSettingsHandler(repo repository.SettingsRepository, guard security.EndpointGuardService) *SettingsHandler {
	return &SettingsHandler{repo: repo, guard: guard}
}

// settingsBody はリマインダー設定のリクエスト兼レスポンスボディ。
type settingsBody struct {
	WhatsAppEnabled      bool   `json:"whatsapp_enabled"`
	EmailEnabled         bool   `json:"email_enabled"`
	AutoSchedulerEnabled bool   `json:"auto_scheduler_enabled"`
	SundayReminderTime   string `json:"sunday_reminder_time"`
	WeekdayReminderTime  string `json:"weekday_reminder_time"`
	EmailJSServiceID     string `json:"emailjs_service_id"`
	EmailJSTemplateID    string `json:"emailjs_template_id"`
	EmailJSPublicKey     string `json:"emailjs_public_key"`
	EmailEndpoint        string `json:"email_endpoint"`
}

// GetSettings は現在のリマインダー設定を返す。
// GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repo.Load(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsBody(settings))
}

// UpdateSettings はリマインダー設定を上書き保存する。
// 送信時刻はHH:MM形式、メールエンドポイントは公開HTTPS URLであることを検証する。
// PUT /api/settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsBody
	if !decodeBody(w, r, &req) {
		return
	}

	if !liturgical.ValidTime(req.SundayReminderTime) {
		handleServiceError(w, model.NewInvalidTimeError(req.SundayReminderTime))
		return
	}
	if !liturgical.ValidTime(req.WeekdayReminderTime) {
		handleServiceError(w, model.NewInvalidTimeError(req.WeekdayReminderTime))
		return
	}

	// エンドポイントは管理者が変更できるため、保存前にSSRFガードで検証する
	if req.EmailEndpoint != "" {
		if err := h.guard.ValidateEndpoint(req.EmailEndpoint); err != nil {
			handleServiceError(w, &model.APIError{
				Code:     "INVALID_ENDPOINT",
				Message:  "Zadaná adresa e-mailovej služby nie je povolená.",
				Category: "validation",
				Action:   "Zadajte verejnú HTTPS adresu e-mailovej služby.",
			})
			return
		}
	}

	settings := model.ReminderSettings{
		WhatsAppEnabled:      req.WhatsAppEnabled,
		EmailEnabled:         req.EmailEnabled,
		AutoSchedulerEnabled: req.AutoSchedulerEnabled,
		SundayReminderTime:   req.SundayReminderTime,
		WeekdayReminderTime:  req.WeekdayReminderTime,
		EmailJSServiceID:     req.EmailJSServiceID,
		EmailJSTemplateID:    req.EmailJSTemplateID,
		EmailJSPublicKey:     req.EmailJSPublicKey,
		EmailEndpoint:        req.EmailEndpoint,
	}

	if err := h.repo.Save(r.Context(), settings); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsBody(settings))
}

// toSettingsBody はmodel.ReminderSettingsからAPIレスポンスに変換する。
func toSettingsBody(s model.ReminderSettings) settingsBody {
	return settingsBody{
		WhatsAppEnabled:      s.WhatsAppEnabled,
		EmailEnabled:         s.EmailEnabled,
		AutoSchedulerEnabled: s.AutoSchedulerEnabled,
		SundayReminderTime:   s.SundayReminderTime,
		WeekdayReminderTime:  s.WeekdayReminderTime,
		EmailJSServiceID:     s.EmailJSServiceID,
		EmailJSTemplateID:    s.EmailJSTemplateID,
		EmailJSPublicKey:     s.EmailJSPublicKey,
		EmailEndpoint:        s.EmailEndpoint,
	}
}
