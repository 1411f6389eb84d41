package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_EmptyInputIsNoOp(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t  \n"} {
		_, ok := Classify(text)
		assert.False(t, ok, "input %q should not classify", text)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	inputs := []string{
		"password: gmail mypassword123",
		"Gmail - username: john@gmail.com password: mypass123",
		"john@example.com",
		"https://github.com/user/repo",
		"Remember to buy groceries",
	}
	for _, text := range inputs {
		first, ok1 := Classify(text)
		second, ok2 := Classify(text)
		require.Equal(t, ok1, ok2)
		assert.Equal(t, first, second, "Classify(%q) not deterministic", text)
	}
}

func TestClassify_LabeledCredential(t *testing.T) {
	res, ok := Classify("Gmail - username: john@gmail.com password: mypass123")
	require.True(t, ok)
	require.Equal(t, CategoryCredential, res.Category)
	assert.Equal(t, "Gmail", res.Label)
	assert.Equal(t, "john@gmail.com", res.Username)
	assert.Equal(t, "mypass123", res.Password)
}

func TestClassify_LabeledCredentialColonSeparator(t *testing.T) {
	res, ok := Classify("Work VPN: login: jdoe pwd: hunter2")
	require.True(t, ok)
	require.Equal(t, CategoryCredential, res.Category)
	assert.Equal(t, "Work VPN", res.Label)
	assert.Equal(t, "jdoe", res.Username)
	assert.Equal(t, "hunter2", res.Password)
}

func TestClassify_BareCredentialGetsGeneratedLabel(t *testing.T) {
	res, ok := Classify("username: jdoe password: hunter2")
	require.True(t, ok)
	require.Equal(t, CategoryCredential, res.Category)
	assert.Equal(t, "Account_jdoe", res.Label)
	assert.Equal(t, "jdoe", res.Username)
	assert.Equal(t, "hunter2", res.Password)
}

func TestClassify_CompactCredential(t *testing.T) {
	res, ok := Classify("Netflix - family: popcorn99")
	require.True(t, ok)
	require.Equal(t, CategoryCredential, res.Category)
	assert.Equal(t, "Netflix", res.Label)
	assert.Equal(t, "family", res.Username)
	assert.Equal(t, "popcorn99", res.Password)
}

// Precedence: a text matching both the credential and email patterns must
// classify as credential; the rule order is fixed.
func TestClassify_CredentialBeatsEmail(t *testing.T) {
	res, ok := Classify("user: a@b.com password: x")
	require.True(t, ok)
	assert.Equal(t, CategoryCredential, res.Category)
	assert.Equal(t, "a@b.com", res.Username)
}

func TestClassify_PasswordOnly(t *testing.T) {
	res, ok := Classify("password: gmail mypassword123")
	require.True(t, ok)
	require.Equal(t, CategoryPassword, res.Category)
	assert.Equal(t, "gmail", res.Label)
	assert.Equal(t, "mypassword123", res.Value)
}

func TestClassify_PasswordMultiWordLabel(t *testing.T) {
	res, ok := Classify("pass: home wifi router s3cr3t!")
	require.True(t, ok)
	require.Equal(t, CategoryPassword, res.Category)
	assert.Equal(t, "home wifi router", res.Label)
	assert.Equal(t, "s3cr3t!", res.Value)
}

// "password: x" carries no label, so it must not match the password rule;
// with no other rule firing it falls back to a note.
func TestClassify_PasswordWithoutLabelIsNote(t *testing.T) {
	res, ok := Classify("password: onlyonetoken")
	require.True(t, ok)
	assert.Equal(t, CategoryNote, res.Category)
}

func TestClassify_PasswordBeatsEmail(t *testing.T) {
	res, ok := Classify("password: backup admin@example.com")
	require.True(t, ok)
	assert.Equal(t, CategoryPassword, res.Category)
	assert.Equal(t, "admin@example.com", res.Value)
}

func TestClassify_Email(t *testing.T) {
	res, ok := Classify("my address is john@example.com thanks")
	require.True(t, ok)
	require.Equal(t, CategoryEmail, res.Category)
	assert.Equal(t, "john@example.com", res.Address)
	assert.Equal(t, "my address is john@example.com thanks", res.Text)
}

func TestClassify_FirstEmailWins(t *testing.T) {
	res, ok := Classify("a@one.com and b@two.org")
	require.True(t, ok)
	assert.Equal(t, "a@one.com", res.Address)
}

func TestClassify_EmailBeatsLink(t *testing.T) {
	res, ok := Classify("contact me@site.com or https://site.com")
	require.True(t, ok)
	assert.Equal(t, CategoryEmail, res.Category)
}

func TestClassify_Link(t *testing.T) {
	res, ok := Classify("check out https://github.com/user/repo sometime")
	require.True(t, ok)
	require.Equal(t, CategoryLink, res.Category)
	assert.Equal(t, "https://github.com/user/repo", res.URL)
}

func TestClassify_PlainHTTPLink(t *testing.T) {
	res, ok := Classify("http://example.org/page")
	require.True(t, ok)
	assert.Equal(t, CategoryLink, res.Category)
}

func TestClassify_NoteFallback(t *testing.T) {
	res, ok := Classify("  Remember to buy groceries  ")
	require.True(t, ok)
	require.Equal(t, CategoryNote, res.Category)
	assert.Equal(t, "Remember to buy groceries", res.Text)
}

// A dash and a colon inside prose is not enough for the compact credential
// form when a URL is present; the link rule should win.
func TestClassify_URLWithDashStaysLink(t *testing.T) {
	res, ok := Classify("docs - https://go.dev/doc")
	require.True(t, ok)
	assert.Equal(t, CategoryLink, res.Category)
}

func TestClassify_LongNote(t *testing.T) {
	text := strings.Repeat("word ", 500)
	res, ok := Classify(text)
	require.True(t, ok)
	assert.Equal(t, CategoryNote, res.Category)
}
