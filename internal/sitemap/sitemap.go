// Package sitemap renders the site's sitemaps.org XML.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
)

// Namespace is the sitemaps.org schema namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// StaticPaths are listed before any post.
var StaticPaths = []string{"/", "/blog", "/projects"}

// URLSet is the document root.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is one sitemap entry.
type URL struct {
	Loc          string `xml:"loc"`
	LastModified string `xml:"lastmod,omitempty"`
}

// Build lists the static pages, then /blog/{slug} for each slug, every entry
// stamped with lastModified.
func Build(baseURL string, slugs []string, lastModified time.Time) (*URLSet, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	stamp := ""
	if !lastModified.IsZero() {
		stamp = lastModified.UTC().Format(time.RFC3339)
	}

	set := &URLSet{XMLNS: Namespace, URLs: make([]URL, 0, len(StaticPaths)+len(slugs))}
	add := func(path string) {
		u := *base
		u.Path = base.Path + path
		set.URLs = append(set.URLs, URL{Loc: u.String(), LastModified: stamp})
	}
	for _, p := range StaticPaths {
		add(p)
	}
	for _, s := range slugs {
		add("/blog/" + s)
	}
	return set, nil
}

// Write encodes set as indented XML with the standard header.
func Write(w io.Writer, set *URLSet) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	return enc.Close()
}
