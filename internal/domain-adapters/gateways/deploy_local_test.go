package gateways

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/decant/internal/domain/entities"
)

func localTarget(t *testing.T) (entities.RepositoryTarget, string) {
	t.Helper()
	root := t.TempDir()
	return entities.RepositoryTarget{
		Name: "Test",
		URL:  "file://" + filepath.ToSlash(root),
	}, root
}

func TestLocalDeployRoundTrip(t *testing.T) {
	target, _ := localTarget(t)
	gateway, err := NewLocalDeployGateway(target)
	if err != nil {
		t.Fatalf("NewLocalDeployGateway() error = %v", err)
	}

	ctx := context.Background()
	path := "com/ochairo/lib-core/1.0.0/lib-core-1.0.0.jar"

	exists, err := gateway.Exists(ctx, path)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true before deploy")
	}

	content := "jar bytes"
	if err := gateway.Put(ctx, path, strings.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	exists, err = gateway.Exists(ctx, path)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false after deploy")
	}

	reader, err := gateway.Get(ctx, path)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer func() { _ = reader.Close() }()

	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("Failed to read deployed file: %v", err)
	}
	if string(got) != content {
		t.Errorf("Deployed content = %q, want %q", got, content)
	}
}

func TestLocalDeployGetNotFound(t *testing.T) {
	target, _ := localTarget(t)
	gateway, err := NewLocalDeployGateway(target)
	if err != nil {
		t.Fatalf("NewLocalDeployGateway() error = %v", err)
	}

	_, err = gateway.Get(context.Background(), "com/ochairo/absent/1.0.0/absent-1.0.0.jar")
	if !errors.Is(err, ErrRepositoryFileNotFound) {
		t.Errorf("Get() error = %v, want ErrRepositoryFileNotFound", err)
	}
}

func TestLocalDeployRejectsNonFileURL(t *testing.T) {
	_, err := NewLocalDeployGateway(entities.RepositoryTarget{URL: "https://example.com/repo"})
	if err == nil {
		t.Fatal("NewLocalDeployGateway() expected error for non-file URL")
	}
}
