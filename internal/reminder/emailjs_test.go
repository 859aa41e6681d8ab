package reminder

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mgrega/lektori/internal/model"
)

// allowAllGuard はテスト用にローカルのテストサーバーを許可するガード。
type allowAllGuard struct{}

func (allowAllGuard) NewSafeClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (allowAllGuard) ValidateEndpoint(string) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testSettings(endpoint string) model.ReminderSettings {
	s := model.DefaultReminderSettings()
	s.EmailJSServiceID = "service_1"
	s.EmailJSTemplateID = "template_1"
	s.EmailJSPublicKey = "public_key_1"
	s.EmailEndpoint = endpoint
	return s
}

var testEntry = model.MassEntry{
	Date:     "2026-03-01",
	DayName:  "Nedeľa",
	Time:     "9:00",
	TypeName: "Nedeľná omša",
	Readings: 2,
}

// 送信リクエストのボディ構造を検証
func TestEmailClient_Send_RequestBody(t *testing.T) {
	var received emailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewEmailClient(server.Client(), allowAllGuard{}, testLogger())
	lector := model.Lector{Name: "Mária", Email: "maria@example.com", Phone: "+421900123456"}

	if err := client.Send(context.Background(), testSettings(server.URL), testEntry, 1, lector); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if received.ServiceID != "service_1" || received.TemplateID != "template_1" || received.UserID != "public_key_1" {
		t.Errorf("identifiers = (%s, %s, %s)", received.ServiceID, received.TemplateID, received.UserID)
	}
	if received.TemplateParams["to_email"] != "maria@example.com" {
		t.Errorf("to_email = %q", received.TemplateParams["to_email"])
	}
	if received.TemplateParams["mass_date"] != "2026-03-01" || received.TemplateParams["reading"] != "1" {
		t.Errorf("params = %v", received.TemplateParams)
	}
}

// APIのエラーステータスがエラーとして返ることを検証
func TestEmailClient_Send_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewEmailClient(server.Client(), allowAllGuard{}, testLogger())
	lector := model.Lector{Name: "Mária", Email: "maria@example.com"}

	if err := client.Send(context.Background(), testSettings(server.URL), testEntry, 1, lector); err == nil {
		t.Error("expected error on 403 response")
	}
}

// 設定やメールアドレスが不完全な場合は送信せずエラーを返すことを検証
func TestEmailClient_Send_IncompleteConfig(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewEmailClient(server.Client(), allowAllGuard{}, testLogger())

	// EmailJS設定なし
	settings := model.DefaultReminderSettings()
	settings.EmailEndpoint = server.URL
	lector := model.Lector{Name: "Mária", Email: "maria@example.com"}
	if err := client.Send(context.Background(), settings, testEntry, 1, lector); err == nil {
		t.Error("expected error with missing EmailJS config")
	}

	// メールアドレスなし
	if err := client.Send(context.Background(), testSettings(server.URL), testEntry, 1, model.Lector{Name: "Bez Mailu"}); err == nil {
		t.Error("expected error with missing email address")
	}

	if called {
		t.Error("no HTTP request should be made for invalid input")
	}
}
