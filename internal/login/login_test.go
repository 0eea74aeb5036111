package login

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestURL(t *testing.T) {
	got := URL("http://127.0.0.1:5000/", "google", "127.0.0.1:8791")
	want := "http://127.0.0.1:5000/login/google?redirect=http%3A%2F%2F127.0.0.1%3A8791%2Flogin-success"
	if got != want {
		t.Errorf("URL = %q; want %q", got, want)
	}
}

func TestCallbackRouter_CapturesToken(t *testing.T) {
	tokenCh := make(chan string, 1)
	srv := httptest.NewServer(callbackRouter(zap.NewNop(), tokenCh))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/login-success?token=abc-123")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 {
		t.Error("empty success page")
	}

	select {
	case token := <-tokenCh:
		if token != "abc-123" {
			t.Errorf("token = %q", token)
		}
	default:
		t.Fatal("no token captured")
	}
}

func TestCallbackRouter_MissingToken(t *testing.T) {
	tokenCh := make(chan string, 1)
	srv := httptest.NewServer(callbackRouter(zap.NewNop(), tokenCh))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/login-success")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", resp.StatusCode)
	}
	select {
	case token := <-tokenCh:
		t.Errorf("captured token %q from a redirect without one", token)
	default:
	}
}

func TestCallbackRouter_FirstTokenWins(t *testing.T) {
	tokenCh := make(chan string, 1)
	srv := httptest.NewServer(callbackRouter(zap.NewNop(), tokenCh))
	defer srv.Close()

	for _, token := range []string{"first", "second"} {
		resp, err := http.Get(srv.URL + "/login-success?token=" + token)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	if token := <-tokenCh; token != "first" {
		t.Errorf("token = %q; want %q", token, "first")
	}
}
