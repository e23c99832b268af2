package proxy

import (
	"strings"
	"testing"

	"github.com/harborctl/harbor/internal/model"
)

func TestRender(t *testing.T) {
	cfg := model.Config{
		Domain: "localhost",
		Services: []model.DevService{
			{Name: "web", Port: 3000, Subdomain: "web"},
			{Name: "api", Port: 8080, Subdomain: "api"},
			{Name: "worker", Port: 0, Subdomain: "worker"}, // no port, skipped
		},
	}

	got := Render(cfg)

	for _, want := range []string{
		"web.localhost {",
		"reverse_proxy localhost:3000",
		"api.localhost {",
		"reverse_proxy localhost:8080",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "worker") {
		t.Errorf("portless service should be skipped:\n%s", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(model.Config{Domain: "localhost"}); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}
