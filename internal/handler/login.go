// internal/handler/login.go
//
// Tenant login view.
//
// Context
// -------
// The gate sends every failed tenant resolution here with the original
// destination in the `redirect` query parameter.  The form posts back to
// the same URL so the parameter survives the round trip; after a
// successful sign-in the viewer is sent to the guarded destination.
//
// Note
// ----
// Credential failures return the same generic message whether the email
// is unknown or the password wrong.
package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/matija2209/obrtnik-platform/internal/access"
	"github.com/matija2209/obrtnik-platform/internal/forms"
	"github.com/matija2209/obrtnik-platform/internal/gate"
	"github.com/matija2209/obrtnik-platform/internal/viewer"
)

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Sign in</title></head>
<body>
  <h1>Sign in</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <form method="post" action="{{.Action}}">
    <input type="hidden" name="csrf_token" value="{{.Token}}">
    <label>Email <input type="email" name="email" required></label>
    <label>Password <input type="password" name="password" required></label>
    <button type="submit">Sign in</button>
  </form>
</body>
</html>
`))

type loginData struct {
	Action string
	Token  string
	Error  string
}

type loginRow struct {
	ID           uint64 `db:"id"`
	PasswordHash string `db:"password_hash"`
	IsAdmin      bool   `db:"is_admin"`
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, "")
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, msg string) {
	tok, err := forms.GenerateToken()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	action := gate.LoginPath
	if q := r.URL.RawQuery; q != "" {
		action += "?" + q
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if msg != "" {
		w.WriteHeader(http.StatusUnauthorized)
	}
	_ = loginTmpl.Execute(w, loginData{Action: action, Token: tok, Error: msg})
}

func (h *Handler) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !forms.VerifyToken(r.PostForm.Get("csrf_token")) {
		h.renderLogin(w, r, "Session expired, please try again.")
		return
	}

	email := r.PostForm.Get("email")
	pass := r.PostForm.Get("password")

	var row loginRow
	err := h.db.GetContext(r.Context(), &row, `
        SELECT id, password_hash, is_admin
        FROM   user
        WHERE  email      = ?
          AND  deleted_at IS NULL
        LIMIT  1`, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			zap.S().Errorw("login lookup failed", "err", err)
		}
		h.renderLogin(w, r, "Invalid email or password.")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(pass)) != nil {
		h.renderLogin(w, r, "Invalid email or password.")
		return
	}

	roles := []string{}
	if row.IsAdmin {
		roles = append(roles, viewer.RoleAdmin)
	}
	if ids, err := access.MemberTenantIDs(r.Context(), h.db, row.ID); err == nil && len(ids) > 0 {
		roles = append(roles, viewer.RoleEditor)
	}

	if err := h.sessions.Issue(w, r, row.ID, roles); err != nil {
		zap.S().Errorw("session issue failed", "user_id", row.ID, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	zap.S().Infow("viewer signed in", "user_id", row.ID, "roles", fmt.Sprint(roles))
	http.Redirect(w, r, gate.Destination(r), http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
}
