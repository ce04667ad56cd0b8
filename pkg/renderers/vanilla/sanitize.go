package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// sanitizeHelp keeps the inline formatting allowed in field help text, which
// usually comes from OpenAPI descriptions, and strips everything else. The
// result is emitted unescaped.
func sanitizeHelp(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return helpSanitizer().Sanitize(trimmed)
}

func helpSanitizer() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "strong", "em", "i", "code", "br")
		p.AllowAttrs("href").OnElements("a")
		p.AllowStandardURLs()
		p.RequireNoFollowOnLinks(true)
		helpPolicy = p
	})
	return helpPolicy
}
