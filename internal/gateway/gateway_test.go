package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFetchStampList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/src/api/stampList.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"stampList":[
			{"stampId":"A1","stampName":"Gym","stampLocation":"1F","stampDesc":"By the door"},
			{"stampId":"B2","stampName":"Library","stampLocation":"2F","stampDesc":""}
		]}`))
	}))
	defer srv.Close()

	stamps, err := New(srv.URL).FetchStampList(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(stamps) != 2 {
		t.Fatalf("got %d stamps, want 2", len(stamps))
	}
	if stamps[0].ID != "A1" || stamps[0].Location != "1F" {
		t.Fatalf("first stamp = %+v", stamps[0])
	}
}

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			http.NotFound(w, r)
			return
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"user_id":   "c0ffee",
			"user_name": req["user_name"],
		})
	}))
	defer srv.Close()

	user, err := New(srv.URL).Login(context.Background(), "12345Momo")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.UserID != "c0ffee" || user.UserName != "12345Momo" {
		t.Fatalf("user = %+v", user)
	}
}

func TestLoginFailureCarriesStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "12345Momo")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.Status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", se.Status)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("server called %d times, want exactly 1 (no retry)", n)
	}
}

func TestFetchClassList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"classList":[{"classId":"3-1"},{"classId":"3-2"}]}`))
	}))
	defer srv.Close()

	classes, err := New(srv.URL).FetchClassList(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(classes) != 2 || classes[1].ID != "3-2" {
		t.Fatalf("classes = %+v", classes)
	}
}
