//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/githubixx/nextpvr-go/internal/domain"
)

func TestContainers_SummaryServed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	repoRoot := mustRepoRoot(t)

	networkName := fmt.Sprintf("nextpvr-go-it-%d", time.Now().UnixNano())

	nw, err := testcontainers.GenericNetwork(ctx, testcontainers.GenericNetworkRequest{
		NetworkRequest: testcontainers.NetworkRequest{
			Name:           networkName,
			CheckDuplicate: false,
		},
	})
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	t.Cleanup(func() { _ = nw.Remove(ctx) })

	stub, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			FromDockerfile: testcontainers.FromDockerfile{
				Context:    filepath.Join(repoRoot, "test/integration/nextpvrstub"),
				Dockerfile: "Dockerfile",
			},
			ExposedPorts: []string{"8866/tcp"},
			Networks:     []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {"nextpvr"},
			},
			WaitingFor: wait.ForListeningPort("8866/tcp").WithStartupTimeout(45 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("nextpvr container: %v", err)
	}
	t.Cleanup(func() { _ = stub.Terminate(ctx) })

	cfgPath := writeTempConfig(t, `server:
  host: "0.0.0.0"
  port: 8080
  read_timeout: 5s
  write_timeout: 5s

nextpvr:
  base_url: "http://nextpvr:8866"
  session_id: "integration"
  timeout: 2s

auth:
  enabled: false

cache:
  recording_expiry: 0s

ratelimit:
  enabled: false
`)

	app, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: func() testcontainers.ContainerRequest {
			req := testcontainers.ContainerRequest{
				ExposedPorts: []string{"8080/tcp"},
				Networks:     []string{networkName},
				Files: []testcontainers.ContainerFile{
					{HostFilePath: cfgPath, ContainerFilePath: "/app/config.yaml", FileMode: 0o644},
				},
				WaitingFor: wait.ForHTTP("/healthz").WithPort("8080/tcp").WithStartupTimeout(90 * time.Second),
			}
			if img := strings.TrimSpace(os.Getenv("NEXTPVR_GO_APP_IMAGE")); img != "" {
				req.Image = img
				return req
			}
			req.FromDockerfile = testcontainers.FromDockerfile{Context: repoRoot, Dockerfile: "deployments/Dockerfile"}
			return req
		}(),
		Started: true,
	})
	if err != nil {
		t.Fatalf("app container: %v", err)
	}
	t.Cleanup(func() { _ = app.Terminate(ctx) })

	baseURL := mustBaseURL(t, ctx, app, "8080/tcp")

	var summary domain.Summary
	if err := json.Unmarshal([]byte(mustHTTPGet(t, ctx, baseURL+"/api/summary")), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Recordings != 2 || summary.Timers != 2 || summary.SeriesTimers != 2 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	if summary.Conflicts != 1 {
		t.Errorf("expected 1 conflict, got %d", summary.Conflicts)
	}

	body := mustHTTPGet(t, ctx, baseURL+"/api/series-timers/78/timers")
	mustContain(t, body, `"id":"504"`)

	metrics := mustHTTPGet(t, ctx, baseURL+"/metrics")
	mustContain(t, metrics, `nextpvr_mapped_records_total{family="recordings"}`)
}

func mustHTTPGet(t *testing.T, ctx context.Context, url string) string {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http get: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("http status=%d body=%s", resp.StatusCode, string(b))
	}
	return string(b)
}

func mustBaseURL(t *testing.T, ctx context.Context, c testcontainers.Container, port string) string {
	t.Helper()
	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("http://%s:%s", host, mapped.Port())
}

func mustContain(t *testing.T, body, substr string) {
	t.Helper()
	if !strings.Contains(body, substr) {
		snippet := body
		if len(snippet) > 2000 {
			snippet = snippet[:2000]
		}
		t.Fatalf("expected body to contain %q; got prefix: %q", substr, snippet)
	}
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	d := wd
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	t.Fatalf("could not locate repo root from %s", wd)
	return ""
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}
