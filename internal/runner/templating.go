package runner

import (
	"bufio"
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"text/template"

	"github.com/google/uuid"
)

// BodyTemplate renders a request body per sample. Besides the fields of
// RequestData it offers randomInt, randomChoice, randomLine and uuid.
type BodyTemplate struct {
	tmpl *template.Template

	mu    sync.RWMutex
	lines map[string][]string
}

// RequestData is what a body template sees for one request.
type RequestData struct {
	Thread    string // thread name, as saved in the threadName column
	RequestID string // also sent as X-Request-ID
	Seq       int64  // 1-based request number within the run
}

// HasTemplate reports whether body uses template actions.
func HasTemplate(body string) bool {
	return strings.Contains(body, "{{")
}

// ParseBody compiles text. The shorthands {{thread}}, {{requestID}} and
// {{seq}} stand for the RequestData fields.
func ParseBody(text string) (*BodyTemplate, error) {
	b := &BodyTemplate{lines: make(map[string][]string)}
	r := strings.NewReplacer(
		"{{thread}}", "{{.Thread}}",
		"{{requestID}}", "{{.RequestID}}",
		"{{seq}}", "{{.Seq}}",
	)
	t, err := template.New("body").Funcs(template.FuncMap{
		"randomInt":    randomInt,
		"randomChoice": randomChoice,
		"randomLine":   b.randomLine,
		"uuid":         uuid.NewString,
	}).Parse(r.Replace(text))
	if err != nil {
		return nil, fmt.Errorf("request body: %w", err)
	}
	b.tmpl = t
	return b, nil
}

// Render executes the template for one request.
func (b *BodyTemplate) Render(d RequestData) (string, error) {
	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// randomInt returns a number in [min, max).
func randomInt(min, max int) (int, error) {
	if max <= min {
		return 0, fmt.Errorf("randomInt: empty range [%d, %d)", min, max)
	}
	return rand.IntN(max-min) + min, nil
}

func randomChoice(choices ...string) string {
	if len(choices) == 0 {
		return ""
	}
	return choices[rand.IntN(len(choices))]
}

// randomLine picks a non-blank line of filename. Files are read once.
func (b *BodyTemplate) randomLine(filename string) (string, error) {
	b.mu.RLock()
	lines, ok := b.lines[filename]
	b.mu.RUnlock()

	if !ok {
		b.mu.Lock()
		defer b.mu.Unlock()
		if lines, ok = b.lines[filename]; !ok {
			content, err := os.ReadFile(filename)
			if err != nil {
				return "", fmt.Errorf("randomLine: %w", err)
			}
			s := bufio.NewScanner(bytes.NewReader(content))
			for s.Scan() {
				if line := strings.TrimSpace(s.Text()); line != "" {
					lines = append(lines, line)
				}
			}
			b.lines[filename] = lines
		}
	}
	if len(lines) == 0 {
		return "", nil
	}
	return lines[rand.IntN(len(lines))], nil
}
