package did

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/denis-hade/hade-avatar-server/internal/api"
	"github.com/denis-hade/hade-avatar-server/internal/testutil"
)

func TestGetClientKey_Replay(t *testing.T) {
	client := NewClient("user", "pass", WithHTTPClient(testutil.NewVCRClient(t, "did_get_client_key")))

	resp, err := client.GetClientKey(context.Background())
	if err != nil {
		t.Fatalf("GetClientKey() error = %v", err)
	}
	if !resp.OK() {
		t.Fatalf("expected 2xx, got %d", resp.StatusCode)
	}
	if got := api.String(resp.Object(), "client_key"); got != "Y2tfdmNyX3JlY29yZGVk" {
		t.Errorf("client_key = %q", got)
	}
}

func TestCreateClientKey_Replay(t *testing.T) {
	client := NewClient("user", "pass", WithHTTPClient(testutil.NewVCRClient(t, "did_create_client_key")))

	resp, err := client.CreateClientKey(context.Background(), []string{"https://avatar.example.com"})
	if err != nil {
		t.Fatalf("CreateClientKey() error = %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("StatusCode = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
	if got := api.String(resp.Object(), "description"); got != "Client key already exists" {
		t.Errorf("description = %q", got)
	}
}

func TestClient_SendsBasicAuthAndDomains(t *testing.T) {
	var (
		gotUser, gotPass string
		gotMethod        string
		gotBody          CreateClientKeyRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		gotMethod = r.Method
		if r.URL.Path != ClientKeyPath {
			t.Errorf("path = %q", r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"client_key":"new"}`))
	}))
	defer srv.Close()

	client := NewClient("alice", "s3cret", WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))
	resp, err := client.CreateClientKey(context.Background(), []string{"https://a.example", "https://b.example"})
	if err != nil {
		t.Fatalf("CreateClientKey() error = %v", err)
	}

	if gotUser != "alice" || gotPass != "s3cret" {
		t.Errorf("basic auth = %q:%q", gotUser, gotPass)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q", gotMethod)
	}
	if !reflect.DeepEqual(gotBody.AllowedDomains, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("allowed_domains = %v", gotBody.AllowedDomains)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
}

func TestSplitDomains(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "https://a.example", want: []string{"https://a.example"}},
		{in: " https://a.example , https://b.example ,", want: []string{"https://a.example", "https://b.example"}},
		{in: "", want: []string{}},
	}
	for _, tt := range tests {
		if got := SplitDomains(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitDomains(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
