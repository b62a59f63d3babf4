package fingerprint

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClassify_RuleTable(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		content string
		want    Fingerprint
	}{
		{
			name: "jquery ui by url",
			url:  "https://cdn.example.com/jquery/ui/1.13.2/jquery-ui.min.js",
			want: Fingerprint{Library: LibraryJQueryUI},
		},
		{
			name: "jquery by url",
			url:  "https://code.jquery.com/jquery-3.4.1.min.js",
			want: Fingerprint{Library: LibraryJQuery},
		},
		{
			name:    "jquery by content with version marker",
			url:     "https://cdn.example.com/bundle.js",
			content: `/*! lib */ jQuery.fn.jquery = "3.6.0";`,
			want:    Fingerprint{Library: LibraryJQuery, Version: "3.6.0"},
		},
		{
			name:    "react-dom wins over react",
			url:     "https://unpkg.com/react-dom@18/umd/react-dom.production.min.js",
			content: `React.version = "18.2.0"`,
			want:    Fingerprint{Library: LibraryReactDOM, Version: "18.2.0"},
		},
		{
			name:    "react by content",
			url:     "https://cdn.example.com/app.js",
			content: `var React = {}; React.version = "17.0.2";`,
			want:    Fingerprint{Library: LibraryReact, Version: "17.0.2"},
		},
		{
			name:    "vue by content",
			url:     "https://cdn.example.com/v.js",
			content: `Vue.version = "2.6.14"`,
			want:    Fingerprint{Library: LibraryVue, Version: "2.6.14"},
		},
		{
			name:    "angular by content",
			url:     "https://cdn.example.com/a.js",
			content: `angular.version.full = "1.8.3"`,
			want:    Fingerprint{Library: LibraryAngular, Version: "1.8.3"},
		},
		{
			name:    "underscore by content",
			url:     "https://cdn.example.com/u.js",
			content: `// underscore
_.version = "1.13.6";`,
			want: Fingerprint{Library: LibraryUnderscore, Version: "1.13.6"},
		},
		{
			name:    "unmatched classifies unknown",
			url:     "https://cdn.example.com/analytics.js",
			content: `console.log("hi")`,
			want:    Fingerprint{Library: LibraryUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.url, tt.content)
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestClassify_VerParamWinsOverContent(t *testing.T) {
	got := Classify(
		"https://example.com/wp-includes/js/jquery/jquery.min.js?ver=1.2.3",
		`jQuery.fn.jquery = "3.6.0";`,
	)
	if got.Library != LibraryJQuery || got.Version != "1.2.3" {
		t.Fatalf("expected jquery 1.2.3 from ver param, got %+v", got)
	}
}

func TestClassify_VerParamAmpersandForm(t *testing.T) {
	got := Classify("https://example.com/js/react.js?cache=1&ver=18.2.0", "")
	if got.Library != LibraryReact || got.Version != "18.2.0" {
		t.Fatalf("expected react 18.2.0, got %+v", got)
	}
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		library string
		content string
		want    string
	}{
		{LibraryJQuery, `jQuery.fn.jquery = "3.6.0";`, "3.6.0"},
		{LibraryJQuery, `jQuery.fn.jquery="3.5.1"`, "3.5.1"},
		{LibraryReact, `React.version = '18.2.0'`, "18.2.0"},
		{LibraryVue, `Vue.version = "3.2.45"`, "3.2.45"},
		{LibraryAngular, `angular.version.full = "1.8.2"`, "1.8.2"},
		{LibraryUnderscore, `_.version = "1.13.1"`, "1.13.1"},
		{LibraryJQuery, `no marker here`, ""},
		{"no-such-library", `jQuery.fn.jquery = "3.6.0";`, ""},
	}

	for _, tt := range tests {
		if got := ExtractVersion(tt.content, tt.library); got != tt.want {
			t.Errorf("ExtractVersion(%q, %s) = %q, want %q", tt.content, tt.library, got, tt.want)
		}
	}
}

func TestFingerprint_FetchesAndClassifies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `jQuery.fn.jquery = "3.4.1";`)
	}))
	defer server.Close()

	f := NewFingerprinter(time.Second, nil)
	got := f.Fingerprint(context.Background(), server.URL+"/bundle.js")
	if got.Library != LibraryJQuery || got.Version != "3.4.1" {
		t.Fatalf("expected jquery 3.4.1, got %+v", got)
	}
}

func TestFingerprint_FetchFailureYieldsUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	f := NewFingerprinter(time.Second, nil)
	got := f.Fingerprint(context.Background(), addr+"/gone.js")
	if got.Library != LibraryUnknown || got.Version != "" {
		t.Fatalf("expected unknown fingerprint, got %+v", got)
	}
}

func TestFingerprint_ServerErrorYieldsUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	f := NewFingerprinter(time.Second, nil)
	if got := f.Fingerprint(context.Background(), server.URL+"/x.js"); got.Library != LibraryUnknown {
		t.Fatalf("expected unknown fingerprint, got %+v", got)
	}
}
