package httpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pair struct {
	A int `json:"a"`
}

func TestDoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "want json", http.StatusUnsupportedMediaType)
			return
		}
		var in pair
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(pair{A: in.A * 2})
	}))
	defer srv.Close()

	var out pair
	if err := DoJSON(context.Background(), http.MethodPut, srv.URL, pair{A: 21}, &out); err != nil {
		t.Fatal(err)
	}
	if out.A != 42 {
		t.Errorf("out = %+v", out)
	}
}

func TestGetJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := GetJSON(context.Background(), srv.URL, &pair{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusServiceUnavailable || se.Body != "queue full" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\x89PNG"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	n, err := Download(context.Background(), srv.URL, &buf)
	if err != nil || n != 4 || buf.String() != "\x89PNG" {
		t.Errorf("Download = %d, %v, %q", n, err, buf.String())
	}
}
