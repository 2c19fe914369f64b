package gateways

import (
	"testing"

	"github.com/ochairo/decant/internal/domain/entities"
)

func TestNewDeployGatewaySchemes(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"file scheme", "file:///tmp/repo", false},
		{"https scheme", "https://maven.pkg.github.com/ochairo/decant", false},
		{"http scheme", "http://localhost:8081/repository", false},
		{"unregistered scheme", "ftp://example.com/repo", true},
		{"unparsable url", "://nope", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDeployGateway(entities.RepositoryTarget{Name: "Test", URL: tt.url})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewDeployGateway(%s) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestSupportedDeploySchemes(t *testing.T) {
	schemes := make(map[string]bool)
	for _, scheme := range SupportedDeploySchemes() {
		schemes[scheme] = true
	}

	for _, want := range []string{"file", "http", "https"} {
		if !schemes[want] {
			t.Errorf("SupportedDeploySchemes() missing %s", want)
		}
	}
}
