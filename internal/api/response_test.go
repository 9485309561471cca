package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponse_Payload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want any
	}{
		{name: "json object", body: `{"a":"b"}`, want: map[string]any{"a": "b"}},
		{name: "json array", body: `[1]`, want: []any{float64(1)}},
		{name: "html error page", body: "<html>bad gateway</html>", want: "<html>bad gateway</html>"},
		{name: "truncated json", body: `{"a":`, want: `{"a":`},
		{name: "empty", body: "  ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Response{StatusCode: 200, Body: []byte(tt.body)}
			got := r.Payload()
			switch want := tt.want.(type) {
			case nil:
				if got != nil {
					t.Errorf("Payload() = %v, want nil", got)
				}
			case string:
				if got != want {
					t.Errorf("Payload() = %v, want %q", got, want)
				}
			case map[string]any:
				obj, ok := got.(map[string]any)
				if !ok || obj["a"] != want["a"] {
					t.Errorf("Payload() = %v, want %v", got, want)
				}
			case []any:
				arr, ok := got.([]any)
				if !ok || len(arr) != len(want) {
					t.Errorf("Payload() = %v, want %v", got, want)
				}
			}
		})
	}
}

func TestResponse_Object(t *testing.T) {
	if obj := (&Response{Body: []byte(`[1,2]`)}).Object(); obj != nil {
		t.Errorf("expected nil for array body, got %v", obj)
	}
	if obj := (&Response{Body: []byte(`{"k":"v"}`)}).Object(); obj["k"] != "v" {
		t.Errorf("unexpected object %v", obj)
	}
}

func TestResponse_OK(t *testing.T) {
	for status, want := range map[int]bool{200: true, 201: true, 299: true, 199: false, 302: false, 409: false, 500: false} {
		if got := (&Response{StatusCode: status}).OK(); got != want {
			t.Errorf("OK() for %d = %v, want %v", status, got, want)
		}
	}
}

func TestString(t *testing.T) {
	obj := map[string]any{"a": "", "b": 3, "c": "found", "d": "later"}
	if got := String(obj, "a", "b", "c", "d"); got != "found" {
		t.Errorf("String() = %q, want %q", got, "found")
	}
	if got := String(obj, "missing"); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
	if got := String(map[string]any{"client_key": "  ck_x \n"}, "client_key"); got != "ck_x" {
		t.Errorf("String() = %q, want trimmed %q", got, "ck_x")
	}
	if got := String(map[string]any{"a": "   ", "b": "next"}, "a", "b"); got != "next" {
		t.Errorf("String() = %q, want %q", got, "next")
	}
	if got := String(nil, "a"); got != "" {
		t.Errorf("String(nil) = %q, want empty", got)
	}
}

func TestDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"description":"exists"}`))
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := Do(srv.Client(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
	if resp.OK() {
		t.Error("expected non-OK response")
	}
	if got := String(resp.Object(), "description"); got != "exists" {
		t.Errorf("description = %q", got)
	}
}

func TestDo_BodyLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "at limit", size: maxBodyBytes, wantErr: false},
		{name: "over limit", size: maxBodyBytes + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write(bytes.Repeat([]byte("a"), tt.size))
			}))
			defer srv.Close()

			req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
			resp, err := Do(srv.Client(), req)

			if tt.wantErr {
				if !errors.Is(err, ErrBodyTooLarge) {
					t.Fatalf("error = %v, want ErrBodyTooLarge", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(resp.Body) != tt.size {
				t.Errorf("body length = %d, want %d", len(resp.Body), tt.size)
			}
		})
	}
}
