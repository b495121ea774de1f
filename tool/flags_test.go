package tool

import (
	"flag"
	"testing"
)

func TestParseFlags(t *testing.T) {
	fs := flag.NewFlagSet("fileuploader", flag.ContinueOnError)
	cfg := ParseFlags(fs, []string{"-log", "prod", "-useEndpoint", "http://127.0.0.1:53318/api/echo/v1/post", "-single", "a.txt", "b.txt"})

	if cfg.Log != "prod" || cfg.UseEndpoint != "http://127.0.0.1:53318/api/echo/v1/post" || !cfg.Single {
		t.Errorf("unexpected flags: %+v", cfg)
	}
	if cfg.Serve || cfg.UsePort != 0 {
		t.Errorf("unset flags changed: %+v", cfg)
	}
	if len(cfg.Files) != 2 || cfg.Files[0] != "a.txt" || cfg.Files[1] != "b.txt" {
		t.Errorf("files = %v", cfg.Files)
	}
}
