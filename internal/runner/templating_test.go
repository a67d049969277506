package runner

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestBodyTemplateRender(t *testing.T) {
	lines := filepath.Join(t.TempDir(), "users.txt")
	if err := os.WriteFile(lines, []byte("alice\n\n  bob  \n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		text string
		want func(string) bool
	}{
		{"fields", `{"thread":"{{thread}}","id":"{{requestID}}","seq":{{seq}}}`, func(s string) bool {
			return s == `{"thread":"Users 1-2","id":"abc","seq":7}`
		}},
		{"randomInt", `{{randomInt 3 4}}`, func(s string) bool { return s == "3" }},
		{"randomChoice", `{{randomChoice "x" "y"}}`, func(s string) bool { return s == "x" || s == "y" }},
		{"randomLine", `{{randomLine "` + lines + `"}}`, func(s string) bool { return s == "alice" || s == "bob" }},
		{"uuid", `{{uuid}}`, func(s string) bool { return len(s) == 36 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBody(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			got, err := b.Render(RequestData{Thread: "Users 1-2", RequestID: "abc", Seq: 7})
			if err != nil {
				t.Fatal(err)
			}
			if !tt.want(got) {
				t.Errorf("Render(%q) = %q", tt.text, got)
			}
		})
	}
}

func TestBodyTemplateErrors(t *testing.T) {
	if _, err := ParseBody("{{.Thread"); err == nil {
		t.Error("ParseBody of an unclosed action succeeded")
	}
	b, err := ParseBody(`{{randomLine "/does/not/exist"}}`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Render(RequestData{}); err == nil {
		t.Error("Render with a missing file succeeded")
	}
	if HasTemplate(`{"plain":true}`) || !HasTemplate("{{seq}}") {
		t.Error("HasTemplate misjudged a body")
	}
}

func TestExecuteRequestRendersBody(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		if !strings.HasSuffix(string(data), r.Header.Get("X-Request-ID")) {
			http.Error(w, "request id mismatch", http.StatusBadRequest)
			return
		}
		mu.Lock()
		bodies = append(bodies, string(data))
		mu.Unlock()
	}))
	defer srv.Close()

	tmpl, err := ParseBody("{{thread}}/{{seq}}/{{requestID}}")
	if err != nil {
		t.Fatal(err)
	}
	sink := &memSink{}
	r := NewRunner(Config{URL: srv.URL, Method: http.MethodPost, BodyTmpl: tmpl, TimeoutSec: 5}, sink, nil)
	for _, thread := range []string{"Users 1-1", "Users 1-2"} {
		if res := r.executeRequest(context.Background(), thread); !res.Success {
			t.Fatalf("%s: code %s %s", thread, res.ResponseCode, res.ResponseMessage)
		}
	}

	if len(bodies) != 2 {
		t.Fatalf("server saw %d bodies, want 2", len(bodies))
	}
	for i, prefix := range []string{"Users 1-1/1/", "Users 1-2/2/"} {
		if !strings.HasPrefix(bodies[i], prefix) {
			t.Errorf("body %d = %q, want prefix %q", i, bodies[i], prefix)
		}
	}
	if len(sink.rows) != 2 {
		t.Errorf("sink got %d rows, want 2", len(sink.rows))
	}
}

func TestExecuteRequestBodyRenderFailure(t *testing.T) {
	tmpl, err := ParseBody(`{{randomInt 5 5}}`)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(Config{URL: "http://127.0.0.1:1/", BodyTmpl: tmpl, TimeoutSec: 1}, nil, nil)
	res := r.executeRequest(context.Background(), "Users 1-1")
	if res.Success || res.ResponseCode != "Non HTTP response code" {
		t.Errorf("code/success = %s/%v, want a failed sample", res.ResponseCode, res.Success)
	}
	if !strings.Contains(res.ResponseMessage, "empty range") {
		t.Errorf("ResponseMessage = %q, want the render error", res.ResponseMessage)
	}
}
