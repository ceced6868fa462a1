package config

import (
	"strings"
	"testing"
)

func validSettings() *Settings {
	return &Settings{
		KnowledgeBaseID:        "kb-1",
		DataSourceID:           "ds-1",
		Bucket:                 "docs",
		DocumentPrefix:         DefaultDocumentPrefix,
		AllowedExtensions:      []string{"pdf", "txt"},
		AllowedContentTypes:    []string{"application/pdf", "text/plain"},
		MaxFileSizeBytes:       1024,
		PresignedExpirySeconds: DefaultPresignedExpirySeconds,
		LLMProvider:            "gemini",
	}
}

func TestValidate(t *testing.T) {
	if err := validSettings().Validate(); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}

	t.Run("Missing Identifiers", func(t *testing.T) {
		s := validSettings()
		s.KnowledgeBaseID = ""
		s.Bucket = ""

		err := s.Validate()
		if err == nil {
			t.Fatal("expected error for missing identifiers")
		}
		if !strings.Contains(err.Error(), "KNOWLEDGE_BASE_ID") || !strings.Contains(err.Error(), "DOCUMENT_BUCKET") {
			t.Errorf("error does not name the missing variables: %v", err)
		}
	})

	t.Run("Bad Provider", func(t *testing.T) {
		s := validSettings()
		s.LLMProvider = "llama"
		if s.Validate() == nil {
			t.Error("expected error for unknown LLM provider")
		}
	})

	t.Run("Bad Sizes", func(t *testing.T) {
		s := validSettings()
		s.MaxFileSizeBytes = 0
		if s.Validate() == nil {
			t.Error("expected error for zero max file size")
		}

		s = validSettings()
		s.PresignedExpirySeconds = -1
		if s.Validate() == nil {
			t.Error("expected error for negative expiry")
		}
	})
}

func TestExtensionAllowed(t *testing.T) {
	s := validSettings()

	tests := []struct {
		ext  string
		want bool
	}{
		{".pdf", true},
		{"pdf", true},
		{".PDF", true},
		{".txt", true},
		{".exe", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := s.ExtensionAllowed(tt.ext); got != tt.want {
			t.Errorf("ExtensionAllowed(%q) got %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestContentTypeAllowed(t *testing.T) {
	s := validSettings()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/pdf", true},
		{"Application/PDF", true},
		{"text/plain; charset=utf-8", true},
		{"video/mp4", false},
	}
	for _, tt := range tests {
		if got := s.ContentTypeAllowed(tt.contentType); got != tt.want {
			t.Errorf("ContentTypeAllowed(%q) got %v, want %v", tt.contentType, got, tt.want)
		}
	}
}
