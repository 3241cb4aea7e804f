package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rcardoso/feedbase/internal/form"
	"github.com/rcardoso/feedbase/internal/validation"
)

// formPage is the data every form template renders: the previously entered
// values, the inline field errors, and an optional global notice.
type formPage struct {
	User   *webUser
	Values map[string]string
	Errors map[string]string
	Notice string
	Flash  string
}

// ==========================
// Login page
// ==========================
func loginForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "login.html", formPage{Values: map[string]string{}})
}

func loginSubmit(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		values := map[string]string{
			"email":    r.PostFormValue("email"),
			"password": r.PostFormValue("password"),
		}

		var token string
		var user webUser
		signIn := func(ctx context.Context, values map[string]string) error {
			body, _ := json.Marshal(map[string]string{
				"email":    values["email"],
				"password": values["password"],
			})
			data, status, err := apiPost(apiBase, "/auth/login", "", body)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return remoteError(status, data)
			}
			var out struct {
				Token string  `json:"token"`
				User  webUser `json:"user"`
			}
			if err := json.Unmarshal(data, &out); err != nil {
				return err
			}
			token = out.Token
			user = out.User
			return nil
		}

		ctrl := form.NewController(validation.LoginSchema(), signIn,
			form.WithClearOnFailure("password"),
			form.WithFailureNotice("Login failed."))

		res, err := ctrl.Submit(r.Context(), values)
		if err != nil {
			// Canceled request or double submit; nothing to render.
			return
		}

		switch res.State {
		case form.Succeeded:
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
			})
			setFlash(w, "Welcome "+user.Name+"!")
			http.Redirect(w, r, "/feeds", http.StatusFound)
		case form.ValidationFailed:
			renderTemplate(w, "login.html", formPage{Values: res.Values, Errors: res.FieldErrors})
		default:
			renderTemplate(w, "login.html", formPage{Values: res.Values, Notice: res.Notice})
		}
	}
}

// ==========================
// Feeds list page
// ==========================
func feedsList(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())
		token, _ := r.Cookie(cookieName)

		data, status, err := apiGet(apiBase, "/feeds", token.Value)
		if err != nil {
			renderTemplate(w, "feeds.html", map[string]interface{}{"User": user, "Notice": "Could not load feeds."})
			return
		}
		if status == http.StatusUnauthorized {
			clearAuthAndRedirectToLogin(w, r)
			return
		}
		if status != http.StatusOK {
			renderTemplate(w, "feeds.html", map[string]interface{}{"User": user, "Notice": "Could not load feeds."})
			return
		}

		var feeds []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			URL      string `json:"url"`
			IsActive bool   `json:"is_active"`
			IsPublic bool   `json:"is_public"`
		}
		if err := json.Unmarshal(data, &feeds); err != nil {
			renderTemplate(w, "feeds.html", map[string]interface{}{"User": user, "Notice": "Could not load feeds."})
			return
		}

		renderTemplate(w, "feeds.html", map[string]interface{}{
			"User":  user,
			"Feeds": feeds,
			"Flash": takeFlash(w, r),
		})
	}
}

// ==========================
// Feed create page
// ==========================
func feedCreateForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "feed_new.html", formPage{
		User:   currentUser(r.Context()),
		Values: map[string]string{"is_active": "on"},
	})
}

func feedCreate(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())
		token, _ := r.Cookie(cookieName)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		values := map[string]string{
			"name":      r.PostFormValue("name"),
			"url":       r.PostFormValue("url"),
			"is_active": r.PostFormValue("is_active"),
			"is_public": r.PostFormValue("is_public"),
		}

		save := func(ctx context.Context, values map[string]string) error {
			body, _ := json.Marshal(map[string]interface{}{
				"name":      values["name"],
				"url":       values["url"],
				"is_active": values["is_active"] == "on",
				"is_public": values["is_public"] == "on",
			})
			data, status, err := apiPost(apiBase, "/feeds", token.Value, body)
			if err != nil {
				return err
			}
			if status != http.StatusCreated {
				return remoteError(status, data)
			}
			return nil
		}

		ctrl := form.NewController(validation.FeedSchema(), save,
			form.WithFailureNotice("Resource creation failed."))

		res, err := ctrl.Submit(r.Context(), values)
		if err != nil {
			return
		}

		switch res.State {
		case form.Succeeded:
			setFlash(w, "Feed "+values["name"]+" created successfully!")
			http.Redirect(w, r, "/feeds", http.StatusFound)
		case form.ValidationFailed:
			renderTemplate(w, "feed_new.html", formPage{User: user, Values: res.Values, Errors: res.FieldErrors})
		default:
			renderTemplate(w, "feed_new.html", formPage{User: user, Values: res.Values, Notice: res.Notice})
		}
	}
}
