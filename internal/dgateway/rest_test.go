package dgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(srvURL string) *Client {
	return New(GatewayConfig{Token: "tok", AppID: "app1", BaseURL: srvURL}, 0)
}

func TestRegisterCommands(t *testing.T) {
	var got []ApplicationCommand
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if want := "/applications/app1/commands"; r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bot tok" {
			t.Errorf("Authorization = %q, want %q", auth, "Bot tok")
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID missing")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cmds := []ApplicationCommand{{Name: "votacion", Description: "d"}}
	if err := testClient(srv.URL).RegisterCommands(context.Background(), cmds); err != nil {
		t.Fatalf("RegisterCommands() = %v", err)
	}
	if len(got) != 1 || got[0].Name != "votacion" {
		t.Errorf("sent commands = %+v", got)
	}
}

func TestRespondInteractionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unknown interaction"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	i := &Interaction{ID: "1", Token: "t"}
	err := testClient(srv.URL).RespondInteraction(context.Background(), i,
		&InteractionResponse{Type: ResponseChannelMessage})
	if err == nil {
		t.Error("RespondInteraction() = nil error on 404")
	}
}

func TestCreateMessageSetsNonce(t *testing.T) {
	var got MessagePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := "/channels/c1/messages"; r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(Message{ID: "m1", ChannelID: "c1"})
	}))
	defer srv.Close()

	m, err := testClient(srv.URL).CreateMessage(context.Background(), "c1",
		&MessagePayload{Content: "hola"})
	if err != nil {
		t.Fatalf("CreateMessage() = %v", err)
	}
	if m.ID != "m1" {
		t.Errorf("message id = %s, want m1", m.ID)
	}
	if got.Nonce == "" {
		t.Error("nonce not set")
	}
}

func TestCreateReactionEscapesEmoji(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
	}))
	defer srv.Close()

	if err := testClient(srv.URL).CreateReaction(context.Background(), "c1", "m1", "✅"); err != nil {
		t.Fatalf("CreateReaction() = %v", err)
	}
	if want := "/channels/c1/messages/m1/reactions/%E2%9C%85/@me"; path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
}
