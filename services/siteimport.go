package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hotel-concierge-platform/models"
)

const (
	siteImportMaxPages    = 20
	siteImportMaxBodySize = 5 << 20
	siteImportTimeout     = 15 * time.Second
)

// SiteImporter fetches a hotel's public website and turns its pages into
// knowledge-base documents. Static HTML only; pages rendered entirely by
// client-side JavaScript come back empty.
type SiteImporter struct {
	db   *mongo.Database
	http *http.Client
}

func NewSiteImporter(db *mongo.Database) *SiteImporter {
	return &SiteImporter{
		db: db,
		http: &http.Client{
			Timeout: siteImportTimeout,
		},
	}
}

// SiteImportResult summarizes one import run.
type SiteImportResult struct {
	PagesFetched int      `json:"pages_fetched"`
	PagesSkipped int      `json:"pages_skipped"`
	DocumentIDs  []string `json:"document_ids"`
}

// ImportSite crawls startURL and same-host pages linked from it, storing each
// page as a pending document. Ingestion (chunking and embeddings) happens in
// the worker.
func (si *SiteImporter) ImportSite(ctx context.Context, tenantID primitive.ObjectID, startURL string, maxPages int) (*SiteImportResult, error) {
	base, err := url.Parse(startURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid site URL %q", startURL)
	}
	if maxPages <= 0 || maxPages > siteImportMaxPages {
		maxPages = siteImportMaxPages
	}

	result := &SiteImportResult{}
	visited := map[string]bool{}
	queue := []string{base.String()}

	for len(queue) > 0 && result.PagesFetched < maxPages {
		pageURL := queue[0]
		queue = queue[1:]
		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true

		doc, err := si.fetchPage(ctx, pageURL)
		if err != nil {
			slog.Warn("site import page skipped", "url", pageURL, "error", err)
			result.PagesSkipped++
			continue
		}

		page := ExtractPageContent(doc, pageURL)
		if page.Text == "" {
			result.PagesSkipped++
		} else {
			id, err := si.storePage(ctx, tenantID, page)
			if err != nil {
				return nil, err
			}
			result.PagesFetched++
			result.DocumentIDs = append(result.DocumentIDs, id)
		}

		for _, link := range SameHostLinks(doc, base) {
			if !visited[link] {
				queue = append(queue, link)
			}
		}
	}

	return result, nil
}

func (si *SiteImporter) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "HotelConciergeBot/1.0")

	resp, err := si.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return nil, fmt.Errorf("unsupported content type %q", ct)
	}

	return goquery.NewDocumentFromReader(io.LimitReader(resp.Body, siteImportMaxBodySize))
}

// ImportedPage is the text extracted from one page.
type ImportedPage struct {
	URL   string
	Title string
	Text  string
}

// ExtractPageContent pulls the readable text out of a parsed page: title,
// meta description, headings and paragraphs. Script, style and nav chrome
// are dropped.
func ExtractPageContent(doc *goquery.Document, pageURL string) ImportedPage {
	page := ImportedPage{URL: pageURL}

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if page.Title == "" {
		page.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	var parts []string
	if desc, ok := doc.Find("meta[name='description']").Attr("content"); ok {
		if desc = strings.TrimSpace(desc); desc != "" {
			parts = append(parts, desc)
		}
	}

	content := doc.Find("main, article")
	if content.Length() == 0 {
		content = doc.Find("body")
	}
	content.Find("script, style, nav, header, footer").Remove()
	content.Find("h1, h2, h3, h4, p, li, td, dd, dt").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})

	page.Text = strings.Join(dedupeStrings(parts), "\n")
	return page
}

// SameHostLinks returns absolute URLs of links staying on the site's host.
// Fragments and query strings are stripped so the same page is not queued
// twice.
func SameHostLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Host != base.Host || (abs.Scheme != "http" && abs.Scheme != "https") {
			return
		}
		abs.Fragment = ""
		abs.RawQuery = ""
		link := abs.String()
		if !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	})

	return links
}

func (si *SiteImporter) storePage(ctx context.Context, tenantID primitive.ObjectID, page ImportedPage) (string, error) {
	now := time.Now()
	name := page.Title
	if name == "" {
		name = page.URL
	}

	doc := models.Document{
		ID:        primitive.NewObjectID(),
		TenantID:  tenantID,
		Name:      name,
		Source:    "site_import",
		SourceURL: page.URL,
		Status:    "pending",
		Text:      page.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := si.db.Collection("documents").InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("store imported page: %w", err)
	}
	if _, err := si.db.Collection("tenants").UpdateOne(ctx,
		bson.M{"_id": tenantID},
		bson.M{"$inc": bson.M{"doc_count": 1}}); err != nil {
		slog.Error("doc counter update failed", "tenant_id", tenantID.Hex(), "error", err)
	}

	return doc.ID.Hex(), nil
}

func dedupeStrings(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
