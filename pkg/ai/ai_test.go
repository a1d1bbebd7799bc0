package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := NewClient("test-key", "test-model")
	c.endpoint = srv.URL
	return c, srv
}

func TestChatReturnsReply(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hola!"}}]}`))
	})
	defer srv.Close()

	reply, err := c.Chat(context.Background(), "saluda")
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if reply != "hola!" {
		t.Errorf("reply = %q, want %q", reply, "hola!")
	}
}

func TestChatDegradesOnServerError(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	reply, err := c.Chat(context.Background(), "hola")
	if err == nil {
		t.Error("expected an error for a 500 response")
	}
	if reply != DegradedMessage {
		t.Errorf("reply = %q, want the degraded message", reply)
	}
}

func TestChatDegradesOnEmptyChoices(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})
	defer srv.Close()

	reply, err := c.Chat(context.Background(), "hola")
	if err == nil {
		t.Error("expected an error for an empty response")
	}
	if reply != DegradedMessage {
		t.Errorf("reply = %q, want the degraded message", reply)
	}
}

func TestChatWithoutAPIKey(t *testing.T) {
	c := NewClient("", "test-model")

	reply, err := c.Chat(context.Background(), "hola")
	if err == nil {
		t.Error("expected an error without an API key")
	}
	if reply != DegradedMessage {
		t.Errorf("reply = %q, want the degraded message", reply)
	}
}
