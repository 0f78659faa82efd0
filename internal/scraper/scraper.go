package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Comment is one extracted user comment, shaped so a batch can be loaded
// straight into the dataset pipeline.
type Comment struct {
	Text      string    `json:"comment"`
	ScrapedAt time.Time `json:"scraped_date"`
}

// Options controls one scraper run.
type Options struct {
	URL            string
	FilterKeywords []string
	MinLength      int
	UserAgent      string
	Timeout        time.Duration
}

// Selectors tried in order when hunting for comment blocks. The last,
// broadest selector is a fallback for pages without obvious comment
// markup.
var commentSelectors = []string{
	"[class*=comment] p",
	"[class*=comment]",
	"[class*=review]",
	"[id*=comment]",
	"blockquote",
	"article p",
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// Scrape fetches the page and extracts candidate comment texts, filtered
// by minimum length and optional keywords.
func Scrape(ctx context.Context, opts Options, logf func(format string, args ...interface{})) ([]Comment, error) {
	if opts.MinLength <= 0 {
		opts.MinLength = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	logf("Fetching %s", opts.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching page", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	doc.Find("script, style, nav, footer, header, aside").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	seen := map[string]bool{}
	var comments []Comment
	now := time.Now().UTC()

	for _, selector := range commentSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := cleanText(s.Text())
			if len(text) < opts.MinLength || seen[text] {
				return
			}
			if !matchesKeywords(text, opts.FilterKeywords) {
				return
			}
			seen[text] = true
			comments = append(comments, Comment{Text: text, ScrapedAt: now})
		})
		if len(comments) > 0 {
			logf("Selector %q matched %d comments", selector, len(comments))
			break
		}
	}

	logf("Extracted %d comments", len(comments))
	return comments, nil
}

func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

func matchesKeywords(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
