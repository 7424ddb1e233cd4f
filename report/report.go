// Package report loads the rendered HTML report that gets published, and renders a Markdown
// preview of it for dry runs.
package report

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/mitchellh/go-homedir"
)

type Report struct {
	// Text of the document's <title>, if it had one.
	Title string

	// Markup to publish.  For a full HTML document this is the inner HTML of <body>; a fragment
	// is kept verbatim.
	Body string

	Source string
}

// Load reads an HTML report from disk.  "~" in reportPath is expanded.
func Load(reportPath string) (Report, error) {
	expanded, err := homedir.Expand(reportPath)
	if err != nil {
		return Report{}, fmt.Errorf("report: couldn't expand homedir in %s: %w", reportPath, err)
	}

	source, err := os.ReadFile(expanded)
	if err != nil {
		return Report{}, fmt.Errorf("report: couldn't read %s: %w", expanded, err)
	}

	r, err := Parse(source)
	if err != nil {
		return Report{}, fmt.Errorf("report: couldn't parse %s: %w", expanded, err)
	}
	r.Source = expanded
	return r, nil
}

// Parse splits an HTML report into title and publishable body.
func Parse(source []byte) (Report, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return Report{}, fmt.Errorf("report: document is empty")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(source))
	if err != nil {
		return Report{}, fmt.Errorf("report: couldn't parse HTML: %w", err)
	}

	r := Report{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Body:  string(source),
	}

	// The HTML parser invents <html><body> for fragments too, so only unwrap documents that
	// really had a body.
	if bytes.Contains(bytes.ToLower(source), []byte("<body")) {
		body, err := doc.Find("body").First().Html()
		if err != nil {
			return Report{}, fmt.Errorf("report: couldn't extract <body>: %w", err)
		}
		r.Body = strings.TrimSpace(body)
	}

	return r, nil
}

// Preview converts markup to GitHub-flavoured Markdown.  Relative links are made absolute against
// baseURL so they can be followed from a terminal.
func Preview(markup string, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("report: couldn't parse base URL: %w", err)
	}

	// md.NewConverter only takes a hostname, so the scheme is patched in here.  Adapted from:
	// https://github.com/JohannesKaufmann/html-to-markdown/issues/44
	opt := &md.Options{
		GetAbsoluteURL: func(selec *goquery.Selection, rawURL string, domain string) string {
			if domain == "" {
				return rawURL
			}

			u, err := url.Parse(rawURL)
			if err != nil {
				return rawURL
			}
			if u.Scheme == "data" {
				return rawURL
			}
			if u.Scheme == "" {
				u.Scheme = base.Scheme
			}
			if u.Host == "" {
				u.Host = domain
			}

			return u.String()
		},
	}

	converter := md.NewConverter(base.Host, true, opt)
	// Github flavoured Markdown knows about tables 👍
	converter.Use(mdplugin.GitHubFlavored())

	markdown, err := converter.ConvertString(markup)
	if err != nil {
		return "", fmt.Errorf("report: failed to convert to Markdown: %w", err)
	}

	return markdown, nil
}
