package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplateAndUserAgent(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "v1.2.3"

	if got := UserAgent(); got != "whisperart/v1.2.3" {
		t.Errorf("UserAgent = %q", got)
	}
	if !strings.Contains(Template(), "version v1.2.3") {
		t.Errorf("Template = %q", Template())
	}
	if !strings.HasPrefix(String(), "version: v1.2.3\n") {
		t.Errorf("String = %q", String())
	}
}
