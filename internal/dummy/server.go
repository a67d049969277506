// Package dummy serves a local target with known response shapes, for
// trying out runs without a real system under test.
package dummy

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"
)

type ServerConfig struct {
	Addr string

	// Delay scales every sleep; tests set it near zero.
	Delay float64
}

// Endpoints lists the paths Handler serves.
var Endpoints = []string{"/fast", "/medium", "/slow", "/spike", "/error", "/json"}

func Handler(cfg ServerConfig) http.Handler {
	scale := cfg.Delay
	if scale == 0 {
		scale = 1
	}
	sleep := func(ms int) {
		time.Sleep(time.Duration(float64(ms)*scale) * time.Millisecond)
	}
	text := func(w http.ResponseWriter, code int, body string) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(code)
		w.Write([]byte(body))
	}

	mux := http.NewServeMux()

	// 10-50ms
	mux.HandleFunc("/fast", func(w http.ResponseWriter, r *http.Request) {
		sleep(rand.IntN(40) + 10)
		text(w, http.StatusOK, "Fast response")
	})

	// 100-300ms
	mux.HandleFunc("/medium", func(w http.ResponseWriter, r *http.Request) {
		sleep(rand.IntN(200) + 100)
		text(w, http.StatusOK, "Medium response")
	})

	// 1s-2s, good for timeouts
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		sleep(rand.IntN(1000) + 1000)
		text(w, http.StatusOK, "Slow response")
	})

	// Usually fast, 5% of the time very slow. P99 is terrible, P50 fine.
	mux.HandleFunc("/spike", func(w http.ResponseWriter, r *http.Request) {
		if rand.Float32() < 0.05 {
			sleep(2000)
		} else {
			sleep(20)
		}
		text(w, http.StatusOK, "Spikey response")
	})

	// 20% 500, 20% 429
	mux.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) {
		switch rnd := rand.Float32(); {
		case rnd < 0.2:
			text(w, http.StatusInternalServerError, "500 Internal Server Error")
		case rnd < 0.4:
			text(w, http.StatusTooManyRequests, "429 Too Many Requests")
		default:
			text(w, http.StatusOK, "OK")
		}
	})

	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		sleep(rand.IntN(20) + 5)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"request_id":"` + r.Header.Get("X-Request-ID") + `"}`))
	})

	return mux
}

// Serve runs the server until ctx is done.
func Serve(ctx context.Context, cfg ServerConfig) error {
	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: Handler(cfg),
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("dummy target listening", "addr", cfg.Addr, "endpoints", Endpoints)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
