package dummy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerEndpoints(t *testing.T) {
	srv := httptest.NewServer(Handler(ServerConfig{Delay: 0.001}))
	defer srv.Close()

	for _, path := range Endpoints {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if path != "/error" && resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct == "" {
			t.Errorf("GET %s has no Content-Type", path)
		}
	}
}

func TestHandlerErrorMix(t *testing.T) {
	srv := httptest.NewServer(Handler(ServerConfig{Delay: 0.001}))
	defer srv.Close()

	codes := map[int]int{}
	for i := 0; i < 200; i++ {
		resp, err := http.Get(srv.URL + "/error")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		codes[resp.StatusCode]++
	}
	for code := range codes {
		if code != 200 && code != 429 && code != 500 {
			t.Errorf("unexpected status %d", code)
		}
	}
	if codes[200] == 0 || codes[200] == 200 {
		t.Errorf("codes = %v, want a mix", codes)
	}
}

func TestJSONEchoesRequestID(t *testing.T) {
	srv := httptest.NewServer(Handler(ServerConfig{Delay: 0.001}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/json", nil)
	req.Header.Set("X-Request-ID", "abc")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `"abc"`) {
		t.Errorf("body = %q, want the request id", body)
	}
}
