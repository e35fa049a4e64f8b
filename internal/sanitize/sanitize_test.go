package sanitize

import (
	"regexp"
	"testing"
)

func TestField(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Plain text", input: "Paris", expected: "Paris"},
		{name: "Line break", input: "a<br>b", expected: "a\nb"},
		{name: "Self-closing line break", input: "a<br/>b", expected: "a\nb"},
		{name: "Upper case spaced line break", input: "a<BR />b", expected: "a\nb"},
		{name: "Bare line break", input: "<br>", expected: ""},
		{name: "Tags with attributes", input: `<div class="front"><b>Bonjour</b></div>`, expected: "Bonjour"},
		{name: "Ampersand", input: "A &amp; B", expected: "A & B"},
		{name: "Angle entities", input: "1 &lt; 2 &gt; 0", expected: "1 < 2 > 0"},
		{name: "Non-breaking space inside", input: "a&nbsp;b", expected: "a b"},
		{name: "Quote", input: "&quot;hi&quot;", expected: `"hi"`},
		{name: "Numeric entity untouched", input: "&#39;x&#39;", expected: "&#39;x&#39;"},
		{name: "Ampersand decoded before the rest", input: "&amp;lt;", expected: "<"},
		{name: "Trim surrounding whitespace", input: "  \n<span> word </span>\t", expected: "word"},
		{name: "Trailing non-breaking space", input: "word&nbsp;", expected: "word"},
		{name: "Unclosed tag kept", input: "a < b", expected: "a < b"},
		{name: "Image stripped", input: `<img src="paris.jpg">Paris`, expected: "Paris"},
		{name: "Empty", input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Field(tc.input); got != tc.expected {
				t.Errorf("Expected '%s', but got '%s'", tc.expected, got)
			}
		})
	}
}

func TestFieldStripsAllMarkup(t *testing.T) {
	tag := regexp.MustCompile(`<[^>]*>`)
	inputs := []string{
		"<p>one</p><p>two</p>",
		"<ul><li>a</li><li>b</li></ul>",
		`<a href="x">link</a><br><i>it</i>`,
		"<<b>>nested",
		`<span style="color: red">red</span>&nbsp;&amp;&nbsp;<u>blue</u>`,
	}
	for _, in := range inputs {
		if out := Field(in); tag.MatchString(out) {
			t.Errorf("Field(%q) = %q still contains markup", in, out)
		}
	}
}
