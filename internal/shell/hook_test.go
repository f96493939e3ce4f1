package shell

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	out, err := NewGenerator("/home/me/.config/aisettings/active.env").Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, want := range []string{
		"_AISETTINGS_ENV='/home/me/.config/aisettings/active.env'",
		"precmd_functions+=(_aisettings_load_env)",
		`PROMPT_COMMAND="_aisettings_load_env${PROMPT_COMMAND:+;$PROMPT_COMMAND}"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Generate() output is missing %q", want)
		}
	}
}

func TestGenerateQuotesPath(t *testing.T) {
	out, err := NewGenerator("/tmp/it's here/active.env").Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(out, `_AISETTINGS_ENV='/tmp/it'\''s here/active.env'`) {
		t.Errorf("path is not shell quoted:\n%s", out)
	}
}

func TestGenerateEmptyPath(t *testing.T) {
	if _, err := NewGenerator("").Generate(); err == nil {
		t.Error("Generate() should fail without a script path")
	}
}
