package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/meetflow_test")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if cfg.LLM.CompletionModel != "gpt-4o-mini" {
		t.Errorf("CompletionModel = %q", cfg.LLM.CompletionModel)
	}
	if cfg.LLM.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q", cfg.LLM.EmbeddingModel)
	}
	if cfg.Pipeline.BatchSize != 10 {
		t.Errorf("BatchSize = %d, want 10", cfg.Pipeline.BatchSize)
	}
	if cfg.Pipeline.ChunkSize != 3000 || cfg.Pipeline.ChunkOverlap != 500 {
		t.Errorf("chunking = %d/%d, want 3000/500", cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/meetflow_test")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PIPELINE_BATCH_SIZE", "25")
	t.Setenv("LLM_DEFAULT_PROVIDER", "anthropic")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Pipeline.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want 25", cfg.Pipeline.BatchSize)
	}
	if cfg.LLM.DefaultProvider != "anthropic" {
		t.Errorf("DefaultProvider = %q", cfg.LLM.DefaultProvider)
	}
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric SERVER_PORT")
	}
}

func TestValidateReportsMissing(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	verr := cfg.Validate()
	if verr == nil {
		t.Fatal("expected validation error")
	}
	for _, name := range []string{"DATABASE_URL", "OPENAI_API_KEY"} {
		if !strings.Contains(verr.Error(), name) {
			t.Errorf("error %q does not name %s", verr, name)
		}
	}
}
