/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

const sessionCookieName = "kniffel_session"

// getOrSetSessionID returns the caller's session id, issuing a new cookie
// on first contact.
func getOrSetSessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

type scoreboardFunc func(ctx context.Context, sessionID string, r *http.Request, p httprouter.Params) (Scoreboard, error)

// serveScoreboard runs op against the caller's session and responds with
// the rendered scoreboard fragment.
func serveScoreboard(cfg *Config, name string, op scoreboardFunc, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		sessionID := getOrSetSessionID(w, r)

		board, err := op(r.Context(), sessionID, r, p)
		if err != nil {
			errs <- err

			http.Error(w, "failed to update scorepad", http.StatusInternalServerError)

			return
		}

		fragment, err := renderFragment(board)
		if err != nil {
			errs <- err

			http.Error(w, "failed to render scorepad", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		written, err := w.Write(fragment)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: %s (%s) to %s in %s",
			name,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func registerScorepad(cfg *Config, sp *Scorepad, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+"/score-table", serveScoreboard(cfg, "Scoreboard",
		func(ctx context.Context, id string, _ *http.Request, _ httprouter.Params) (Scoreboard, error) {
			return sp.Scoreboard(ctx, id)
		}, errs))

	mux.POST(cfg.prefix+"/add-user", serveScoreboard(cfg, "Add player",
		func(ctx context.Context, id string, r *http.Request, _ httprouter.Params) (Scoreboard, error) {
			return sp.AddPlayer(ctx, id, r.PostFormValue("username"))
		}, errs))

	mux.POST(cfg.prefix+"/delete-user/:username", serveScoreboard(cfg, "Remove player",
		func(ctx context.Context, id string, _ *http.Request, p httprouter.Params) (Scoreboard, error) {
			return sp.RemovePlayer(ctx, id, p.ByName("username"))
		}, errs))

	mux.POST(cfg.prefix+"/update-score/:user/:category", serveScoreboard(cfg, "Update score",
		func(ctx context.Context, id string, r *http.Request, p httprouter.Params) (Scoreboard, error) {
			return sp.SetScore(ctx, id, p.ByName("user"), p.ByName("category"), r.PostFormValue("value"))
		}, errs))

	mux.POST(cfg.prefix+"/reset-scores", serveScoreboard(cfg, "Reset scores",
		func(ctx context.Context, id string, _ *http.Request, _ httprouter.Params) (Scoreboard, error) {
			return sp.ResetScores(ctx, id)
		}, errs))

	mux.GET(cfg.prefix+"/ws", serveWebsocket(cfg, sp, errs))

	mux.GET(cfg.prefix+"/qr", serveQRCode(cfg, errs))
}
