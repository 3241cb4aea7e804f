package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rcardoso/feedbase/internal/form"
)

// apiGet performs GET to the API with the token from the request cookie.
func apiGet(apiBase, path, token string) ([]byte, int, error) {
	req, _ := http.NewRequest("GET", apiBase+path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

// apiPost performs POST to the API with token and JSON body.
func apiPost(apiBase, path, token string, body []byte) ([]byte, int, error) {
	req, _ := http.NewRequest("POST", apiBase+path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

// remoteError unpacks a non-2xx API body into the structured rejection the
// form controller understands: a field-error map when present, otherwise the
// global message.
func remoteError(status int, body []byte) *form.RemoteError {
	var payload struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	// An unparseable body still yields a usable rejection; the controller
	// falls back to its generic notice.
	_ = json.Unmarshal(body, &payload)
	return &form.RemoteError{
		StatusCode: status,
		Message:    payload.Message,
		Fields:     payload.Errors,
	}
}
