// Package shell renders the prompt hook that keeps interactive shells in step
// with the env script.
package shell

import (
	"bytes"
	"errors"
	"text/template"
)

const hookTemplate = `# aisettings shell hook
# Add to your shell rc: eval "$(aisettings hook)"

_AISETTINGS_ENV={{quote .ScriptPath}}
_AISETTINGS_STAMP=""

_aisettings_load_env() {
    [[ -r "${_AISETTINGS_ENV}" ]] || return 0
    local stamp
    stamp=$(stat -c %Y "${_AISETTINGS_ENV}" 2>/dev/null || stat -f %m "${_AISETTINGS_ENV}" 2>/dev/null)
    if [[ "$stamp" != "$_AISETTINGS_STAMP" ]]; then
        . "${_AISETTINGS_ENV}"
        _AISETTINGS_STAMP="$stamp"
    fi
}

if [[ -n "$ZSH_VERSION" ]]; then
    if [[ ${precmd_functions[(Ie)_aisettings_load_env]} -eq 0 ]]; then
        precmd_functions+=(_aisettings_load_env)
    fi
elif [[ -n "$BASH_VERSION" ]]; then
    if [[ "$PROMPT_COMMAND" != *"_aisettings_load_env"* ]]; then
        PROMPT_COMMAND="_aisettings_load_env${PROMPT_COMMAND:+;$PROMPT_COMMAND}"
    fi
fi

_aisettings_load_env
`

var hook = template.Must(template.New("hook").Funcs(template.FuncMap{
	"quote": quote,
}).Parse(hookTemplate))

// Generator renders the hook for one env script
type Generator struct {
	ScriptPath string
}

func NewGenerator(scriptPath string) *Generator {
	return &Generator{ScriptPath: scriptPath}
}

// Generate returns the hook source for bash and zsh
func (g *Generator) Generate() (string, error) {
	if g.ScriptPath == "" {
		return "", errors.New("env script path cannot be empty")
	}

	var buf bytes.Buffer
	if err := hook.Execute(&buf, g); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func quote(s string) string {
	var b bytes.Buffer
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\'' {
			b.WriteString(`'\''`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
