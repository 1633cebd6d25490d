package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestConfigShow_MasksSecrets(t *testing.T) {
	e := newCLI(t).withCredentials()

	stdout, stderr, code := e.run("config", "show")
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if strings.Contains(stdout, "test-secret") {
		t.Error("config show leaked the client secret")
	}
	for _, want := range []string{"api.client_secret", "***REDACTED***", "api.client_id", "test-id", "token.path", e.tokenPath} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestConfigShow_JSON(t *testing.T) {
	e := newCLI(t)

	stdout, stderr, code := e.run("-o", "json", "--timeout", "45s", "config", "show")
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	var got map[string]map[string]any
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if got["api"]["timeout"] != "45s" {
		t.Errorf("api.timeout = %v, want 45s", got["api"]["timeout"])
	}
	if got["api"]["base_url"] != e.server.URL {
		t.Errorf("api.base_url = %v", got["api"]["base_url"])
	}
}

func TestConfigShow_EnvLayer(t *testing.T) {
	e := newCLI(t)
	t.Setenv("FALCON_QUERY_LIMIT", "250")

	stdout, stderr, code := e.run("-o", "yaml", "config", "show")
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	var got struct {
		Query struct {
			Limit int `yaml:"limit"`
		} `yaml:"query"`
	}
	if err := yaml.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatal(err)
	}
	if got.Query.Limit != 250 {
		t.Errorf("query.limit = %d, want 250", got.Query.Limit)
	}
}

func TestConfigShow_DotEnv(t *testing.T) {
	e := newCLI(t)
	envFile := filepath.Join(e.dir, "creds.env")
	if err := os.WriteFile(envFile, []byte("FALCON_API_CLIENT_ID=from-dotenv\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("FALCON_API_CLIENT_ID") })

	stdout, stderr, code := e.run("--env-file", envFile, "config", "show")
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if !strings.Contains(stdout, "from-dotenv") {
		t.Errorf("stdout should include the .env client id:\n%s", stdout)
	}
}

func TestConfigShow_WarnsOnUnknownSetting(t *testing.T) {
	e := newCLI(t)
	path := filepath.Join(e.dir, "falcon.yaml")
	if err := os.WriteFile(path, []byte("query:\n  limt: 50\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := e.run("-c", path, "config", "show")
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if !strings.Contains(stderr, "ignoring unknown config setting") || !strings.Contains(stderr, "query.limt") {
		t.Errorf("stderr should warn about query.limt:\n%s", stderr)
	}
}

func TestConfig_ExplicitFileMissing(t *testing.T) {
	e := newCLI(t)

	_, stderr, code := e.run("-c", filepath.Join(e.dir, "nope.yaml"), "config", "show")
	if code != ExitFailure {
		t.Errorf("exit code = %d, want %d (stderr %q)", code, ExitFailure, stderr)
	}
}

func TestConfigInit(t *testing.T) {
	e := newCLI(t).withCredentials()
	path := filepath.Join(e.dir, "conf", "falcon.yaml")

	stdout, stderr, code := e.run("-c", path, "config", "init")
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if !strings.Contains(stdout, "wrote "+path) {
		t.Errorf("stdout = %q", stdout)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "test-secret") {
		t.Error("config init must not write secrets by default")
	}
	if !strings.Contains(string(data), "client_id: test-id") {
		t.Errorf("config file = %s", data)
	}
	if info, _ := os.Stat(path); info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %o, want 600", info.Mode().Perm())
	}

	// the written file is loadable
	if _, stderr, code := e.run("-c", path, "config", "show"); code != ExitOK {
		t.Errorf("config show on written file: exit %d, stderr %q", code, stderr)
	}

	// refuses to overwrite without --force
	if _, stderr, code := e.run("-c", path, "config", "init"); code != ExitFailure || !strings.Contains(stderr, "--force") {
		t.Errorf("second init: exit %d, stderr %q", code, stderr)
	}
	if _, stderr, code := e.run("-c", path, "config", "init", "--force", "--with-secrets"); code != ExitOK {
		t.Fatalf("forced init: exit %d, stderr %q", code, stderr)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "client_secret: test-secret") {
		t.Errorf("--with-secrets should write the secret:\n%s", data)
	}
}

func TestConfigInit_GenerateKey(t *testing.T) {
	e := newCLI(t)
	path := filepath.Join(e.dir, "falcon.yaml")

	stdout, stderr, code := e.run("-c", path, "config", "init", "--generate-key")
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	var key string
	for _, line := range strings.Split(stdout, "\n") {
		if v, ok := strings.CutPrefix(line, "FALCON_TOKEN_ENCRYPTION_KEY="); ok {
			key = v
		}
	}
	if len(key) != 64 {
		t.Fatalf("generated key = %q, want 64 hex chars", key)
	}

	// the key drives the encrypted token store
	t.Setenv("FALCON_TOKEN_ENCRYPTION_KEY", key)
	e.writeToken("plaintext-is-not-a-valid-envelope")
	if _, _, code := e.run("-c", path, "token", "show"); code != ExitFailure {
		t.Errorf("encrypted store should reject a plaintext slot, exit %d", code)
	}
}
