package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleSendMessage(t *testing.T) {
	service, _ := newTestService()
	handler := NewHandler(service)

	body, _ := json.Marshal(SendMessageRequest{Content: "my weight is 70 kg"})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/messages", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleSendMessage(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}

	var resp SendMessageResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if resp.AssistantMessage.Role != "assistant" {
		t.Errorf("expected assistant message, got %+v", resp.AssistantMessage)
	}
}

func TestHandleSendMessageEmptyBody(t *testing.T) {
	service, _ := newTestService()
	handler := NewHandler(service)

	body, _ := json.Marshal(SendMessageRequest{Content: ""})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/messages", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleSendMessage(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestHandleStartSessionWelcome(t *testing.T) {
	service, _ := newTestService()
	handler := NewHandler(service)

	body := []byte(`{"resume": false}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/session", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleStartSession(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}

	var resp StartSessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if len(resp.Messages) != 1 || resp.Messages[0].ID != WelcomeMessageID {
		t.Fatalf("expected welcome message, got %+v", resp.Messages)
	}
}

func TestHandleListMessagesPagination(t *testing.T) {
	service, _ := newTestService()
	handler := NewHandler(service)

	for _, text := range []string{"hello there", "how are you", "tell me about the plan"} {
		body, _ := json.Marshal(SendMessageRequest{Content: text})
		req := httptest.NewRequest(http.MethodPost, "/v1/chat/messages", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.HandleSendMessage(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("send failed with %d", w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/messages?limit=4", nil)
	w := httptest.NewRecorder()
	handler.HandleListMessages(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp ListMessagesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	// 6 messages total, page of 4 leaves older ones behind a cursor
	if len(resp.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(resp.Messages))
	}
	if resp.NextCursor == nil {
		t.Fatal("expected next_cursor for remaining messages")
	}

	reqOlder := httptest.NewRequest(http.MethodGet, "/v1/chat/messages?limit=4&before="+*resp.NextCursor, nil)
	wOlder := httptest.NewRecorder()
	handler.HandleListMessages(wOlder, reqOlder)

	var older ListMessagesResponse
	if err := json.NewDecoder(wOlder.Body).Decode(&older); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if len(older.Messages) != 2 {
		t.Fatalf("expected 2 older messages, got %d", len(older.Messages))
	}
	if older.NextCursor != nil {
		t.Error("expected no further cursor")
	}
}
