// Package classify maps raw message text to a storage category plus
// extracted fields. Classification is a pure function over an ordered rule
// table: credential, then bare password, then email, then link, and any
// text that matches nothing becomes a note. First match wins; later rules
// never see text an earlier rule claimed.
package classify

import (
	"regexp"
	"strings"
)

// Category identifies which table a classified item belongs to.
type Category string

const (
	CategoryCredential Category = "credential"
	CategoryPassword   Category = "password"
	CategoryEmail      Category = "email"
	CategoryLink       Category = "link"
	CategoryNote       Category = "note"
)

// Result is the outcome of classifying one message. Category is always set;
// the other fields are populated per category:
//
//	credential: Label, Username, Password
//	password:   Label, Value
//	email:      Address (Text keeps the full raw message)
//	link:       URL (Text keeps the full raw message)
//	note:       Text
type Result struct {
	Category Category
	Label    string
	Username string
	Password string
	Value    string
	Address  string
	URL      string
	Text     string
}

var (
	// "Gmail - username: john password: secret" / "Gmail: user: john pwd: secret"
	labeledCredentialRe = regexp.MustCompile(`(?i)^\s*([^:\n-]+?)\s*[-:]\s*(?:username|user|login)\s*:\s*(\S+)\s+(?:password|pass|pwd)\s*:\s*(\S+)\s*$`)
	// "username: john password: secret" with no service label
	bareCredentialRe = regexp.MustCompile(`(?i)(?:username|user|login)\s*:\s*(\S+)\s+(?:password|pass|pwd)\s*:\s*(\S+)`)
	// Compact "Gmail - john: secret"; anchored to the whole message so that
	// prose containing a dash and a colon stays a note.
	compactCredentialRe = regexp.MustCompile(`^\s*(\S[^:\n-]*?)\s*-\s*(\S+)\s*:\s*(\S+)\s*$`)

	// "password: <label...> <value>"
	passwordRe = regexp.MustCompile(`(?i)^\s*(?:password|pass)\s*:\s*(.+)$`)

	emailRe = regexp.MustCompile(`[^\s@]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9.-]*[A-Za-z0-9])+`)
	urlRe   = regexp.MustCompile(`https?://\S+`)
)

// rule is one predicate+extractor in the fixed evaluation order.
type rule func(text string) (Result, bool)

var rules = []rule{
	matchCredential,
	matchPassword,
	matchEmail,
	matchLink,
}

// Classify maps text to its category. The second return value is false only
// for empty or whitespace-only input, which callers must treat as a no-op
// (never stored, never logged to the message table).
func Classify(text string) (Result, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}, false
	}
	for _, r := range rules {
		if res, ok := r(trimmed); ok {
			return res, true
		}
	}
	return Result{Category: CategoryNote, Text: trimmed}, true
}

func matchCredential(text string) (Result, bool) {
	if m := labeledCredentialRe.FindStringSubmatch(text); m != nil {
		label, user, pass := strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), strings.TrimSpace(m[3])
		if label != "" && user != "" && pass != "" {
			return Result{Category: CategoryCredential, Label: label, Username: user, Password: pass}, true
		}
	}
	if m := bareCredentialRe.FindStringSubmatch(text); m != nil {
		user, pass := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if user != "" && pass != "" {
			return Result{Category: CategoryCredential, Label: "Account_" + user, Username: user, Password: pass}, true
		}
	}
	if m := compactCredentialRe.FindStringSubmatch(text); m != nil {
		label, user, pass := strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), strings.TrimSpace(m[3])
		// The compact form has no keyword markers, so require all three
		// pieces and refuse URLs masquerading as "label - x: y".
		if label != "" && user != "" && pass != "" && !urlRe.MatchString(text) {
			return Result{Category: CategoryCredential, Label: label, Username: user, Password: pass}, true
		}
	}
	return Result{}, false
}

func matchPassword(text string) (Result, bool) {
	m := passwordRe.FindStringSubmatch(text)
	if m == nil {
		return Result{}, false
	}
	fields := strings.Fields(m[1])
	if len(fields) < 2 {
		// "password: x" alone has no label; fall through.
		return Result{}, false
	}
	// Label may be multi-word; the value is the final token.
	label := strings.Join(fields[:len(fields)-1], " ")
	value := fields[len(fields)-1]
	return Result{Category: CategoryPassword, Label: label, Value: value}, true
}

func matchEmail(text string) (Result, bool) {
	addr := emailRe.FindString(text)
	if addr == "" {
		return Result{}, false
	}
	// Only the first address drives classification; the raw text is kept so
	// the store can record the full message alongside the address.
	return Result{Category: CategoryEmail, Address: addr, Text: text}, true
}

func matchLink(text string) (Result, bool) {
	u := urlRe.FindString(text)
	if u == "" {
		return Result{}, false
	}
	return Result{Category: CategoryLink, URL: u, Text: text}, true
}
