package link

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"https://example.com/x", true},
		{"http://example.com", true},
		{"https://example.com/path?q=1#frag", true},
		{"hello world", false},
		{"ftp://host/x", false},
		{"mailto:someone@example.com", false},
		{"javascript:alert(1)", false},
		{"HTTPS://EXAMPLE.COM", true}, // url.Parse lowercases the scheme
		{"https://", false},           // scheme without host
		{"", false},
		{"just some text\nwith newlines", false},
	}

	for _, tc := range cases {
		u, got := Classify(tc.text)
		if got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.text, got, tc.want)
		}
		if got && u == nil {
			t.Errorf("Classify(%q) reported a link but returned no URL", tc.text)
		}
	}
}
