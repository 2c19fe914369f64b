package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v82/github"

	"github.com/ochairo/decant/internal/domain/interfaces/gateways"
)

func testForgeRelease(tag string) *gateways.ForgeRelease {
	return &gateways.ForgeRelease{TagName: tag, Name: tag}
}

// releaseTestClient points a go-github client at a local test server
func releaseTestClient(t *testing.T, handler http.Handler) (*github.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("Failed to parse server URL: %v", err)
	}
	client.BaseURL = base
	client.UploadURL = base
	return client, server
}

func TestEnsureReleaseExisting(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/ochairo/decant/releases/tags/v1.0.0", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(&github.RepositoryRelease{
			ID:      github.Ptr(int64(42)),
			TagName: github.Ptr("v1.0.0"),
			Name:    github.Ptr("1.0.0"),
		})
	})
	client, _ := releaseTestClient(t, mux)

	gateway := NewGitHubReleaseGatewayWithClient(client, "ochairo", "decant", nil)
	release, err := gateway.EnsureRelease(context.Background(), testForgeRelease("v1.0.0"))
	if err != nil {
		t.Fatalf("EnsureRelease() error = %v", err)
	}
	if release.ID != 42 {
		t.Errorf("ID = %d, want 42 (the existing release)", release.ID)
	}
}

func TestEnsureReleaseCreates(t *testing.T) {
	created := false
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/ochairo/decant/releases/tags/v1.0.0", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/repos/ochairo/decant/releases", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		var body github.RepositoryRelease
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if body.GetTagName() != "v1.0.0" {
			t.Errorf("TagName = %s, want v1.0.0", body.GetTagName())
		}
		created = true
		w.WriteHeader(http.StatusCreated)
		body.ID = github.Ptr(int64(7))
		_ = json.NewEncoder(w).Encode(&body)
	})
	client, _ := releaseTestClient(t, mux)

	gateway := NewGitHubReleaseGatewayWithClient(client, "ochairo", "decant", nil)
	release, err := gateway.EnsureRelease(context.Background(), testForgeRelease("v1.0.0"))
	if err != nil {
		t.Fatalf("EnsureRelease() error = %v", err)
	}
	if !created {
		t.Error("Release was not created")
	}
	if release.ID != 7 {
		t.Errorf("ID = %d, want 7", release.ID)
	}
}

func TestUploadAsset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/ochairo/decant/releases/7/assets", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "lib-core-1.0.0.jar" {
			t.Errorf("Asset name = %s", got)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&github.ReleaseAsset{
			ID:   github.Ptr(int64(99)),
			Name: github.Ptr("lib-core-1.0.0.jar"),
			Size: github.Ptr(9),
		})
	})
	client, _ := releaseTestClient(t, mux)

	path := filepath.Join(t.TempDir(), "lib-core-1.0.0.jar")
	if err := os.WriteFile(path, []byte("jar bytes"), 0o600); err != nil {
		t.Fatalf("Failed to create asset file: %v", err)
	}

	gateway := NewGitHubReleaseGatewayWithClient(client, "ochairo", "decant", nil)
	release := testForgeRelease("v1.0.0")
	release.ID = 7

	asset, err := gateway.UploadAsset(context.Background(), release, path)
	if err != nil {
		t.Fatalf("UploadAsset() error = %v", err)
	}
	if asset.Name != "lib-core-1.0.0.jar" || asset.ID != 99 {
		t.Errorf("Asset = %+v", asset)
	}
}

func TestListAssetsPaged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/ochairo/decant/releases/7/assets", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "" || page == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
			_ = json.NewEncoder(w).Encode([]*github.ReleaseAsset{
				{ID: github.Ptr(int64(1)), Name: github.Ptr("a.jar")},
			})
			return
		}
		_ = json.NewEncoder(w).Encode([]*github.ReleaseAsset{
			{ID: github.Ptr(int64(2)), Name: github.Ptr("b.jar")},
		})
	})
	client, _ := releaseTestClient(t, mux)

	gateway := NewGitHubReleaseGatewayWithClient(client, "ochairo", "decant", nil)
	release := testForgeRelease("v1.0.0")
	release.ID = 7

	assets, err := gateway.ListAssets(context.Background(), release)
	if err != nil {
		t.Fatalf("ListAssets() error = %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("Asset count = %d, want 2 (both pages)", len(assets))
	}
	if assets[0].Name != "a.jar" || assets[1].Name != "b.jar" {
		t.Errorf("Assets = %v, %v", assets[0], assets[1])
	}
}
