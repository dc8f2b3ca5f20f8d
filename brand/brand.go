// Package brand supplies the company record that seeds a pipeline run.
//
// A Record can come from a previously scraped JSON file or from a live
// fetch of the brand's website. Both paths degrade to an empty record on
// failure; research never fails a run over missing brand data.
package brand

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

// Record is a mapping of brand attributes gathered about a company.
// Keys are free-form (name, description, products, tone, audience, ...);
// the strategy stage serializes the whole record into its prompt.
type Record map[string]any

// Empty returns true if the record carries no attributes.
func (r Record) Empty() bool { return len(r) == 0 }

// JSON serializes the record for embedding into a prompt.
// An empty or nil record serializes as "{}".
func (r Record) JSON() string {
	if len(r) == 0 {
		return "{}"
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Source provides a brand record for the research stage.
type Source interface {
	// Research returns the brand record. Implementations degrade to an
	// empty record instead of returning errors for missing data; an error
	// return is reserved for context cancellation.
	Research(ctx context.Context) (Record, error)
}

// FileSource loads a scraped company record from a local JSON file.
type FileSource struct {
	Path string
}

// Research reads and decodes the file. A missing or malformed file
// yields an empty record.
func (s FileSource) Research(_ context.Context) (Record, error) {
	rec, err := LoadFile(s.Path)
	if err != nil {
		return Record{}, nil
	}
	return rec, nil
}

// LoadFile reads a brand record from a JSON file on disk.
func LoadFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("brand: read %s: %w", path, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("brand: decode %s: %w", path, err)
	}
	return rec, nil
}

// URLSource derives a brand record from the company's website.
type URLSource struct {
	URL string

	// HTTPClient overrides the client used for fetching. Nil uses a
	// client with a 30 second timeout.
	HTTPClient *http.Client
}

// Research fetches the URL and extracts what it can. Network failures
// and non-success statuses yield a record holding only the URL, so the
// strategy prompt still knows which company it is about.
func (s URLSource) Research(ctx context.Context) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := Fetch(ctx, s.HTTPClient, s.URL)
	if err != nil {
		return Record{"url": s.URL}, nil
	}
	return rec, nil
}

var (
	titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaRe  = regexp.MustCompile(`(?is)<meta\s+name=["']description["']\s+content=["']([^"']*)["']`)
	tagRe   = regexp.MustCompile(`(?s)<[^>]*>`)
)

// Fetch retrieves a web page and extracts a best-effort brand record:
// the page title, the meta description, and a bounded slice of visible
// text. It is not a crawler; one page is enough to seed a strategy.
func Fetch(ctx context.Context, httpClient *http.Client, url string) (Record, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("brand: build request: %w", err)
	}
	req.Header.Set("User-Agent", "frameagent/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brand: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("brand: fetch %s: status %d", url, resp.StatusCode)
	}

	// 512 KiB is plenty for a landing page's head and hero copy.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, fmt.Errorf("brand: read %s: %w", url, err)
	}

	return Parse(url, string(body)), nil
}

// Parse extracts a brand record from raw HTML.
func Parse(url, html string) Record {
	rec := Record{"url": url}

	if m := titleRe.FindStringSubmatch(html); m != nil {
		if title := collapseSpace(m[1]); title != "" {
			rec["name"] = title
		}
	}
	if m := metaRe.FindStringSubmatch(html); m != nil {
		if desc := collapseSpace(m[1]); desc != "" {
			rec["description"] = desc
		}
	}

	// Strip scripts, styles, and tags for a rough text sample.
	text := regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`).ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = collapseSpace(text)
	if runes := []rune(text); len(runes) > 2000 {
		text = string(runes[:2000])
	}
	if text != "" {
		rec["page_text"] = text
	}

	return rec
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
