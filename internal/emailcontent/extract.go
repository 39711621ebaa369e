package emailcontent

import (
	"regexp"
	"strings"
)

// Media is one embedded image reference, in first-seen source order.
type Media struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Summary is the structured listing preview derived from a campaign
// body. Every field may legitimately be empty; absence of a signal is
// not an error.
type Summary struct {
	Title   string  `json:"title"`
	Excerpt string  `json:"excerpt"`
	Media   []Media `json:"media"`
}

var (
	// Mailchimp templates wrap the primary textual content in table
	// cells carrying the mcnTextContent marker class. Text cells do not
	// nest, so the non-greedy match to the next </td> captures the
	// whole cell.
	contentBlockRe = regexp.MustCompile(`(?is)<td[^>]*class="[^"]*mcnTextContent[^"]*"[^>]*>(.*?)</td>`)

	h1Re        = regexp.MustCompile(`(?is)<h1[^>]*>([^<]+)</h1>`)
	docTitleRe  = regexp.MustCompile(`(?is)<title>([^<]+)</title>`)
	paragraphRe = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	tagRe       = regexp.MustCompile(`<[^>]*>`)

	// <img> tags appear with src before alt or alt before src
	// depending on the template; both orders are scanned.
	imgSrcAltRe = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["'][^>]*alt=["']([^"']*)["'][^>]*>`)
	imgAltSrcRe = regexp.MustCompile(`(?i)<img[^>]+alt=["']([^"']*)["'][^>]*src=["']([^"']+)["'][^>]*>`)

	templateHeaderRe = regexp.MustCompile(`(?is)<!--\s*templateHeader\s*-->.*?<!--\s*/templateHeader\s*-->`)
	templateFooterRe = regexp.MustCompile(`(?is)<!--\s*templateFooter\s*-->.*?<!--\s*/templateFooter\s*-->`)
	canspamRe        = regexp.MustCompile(`(?is)<!--\s*canspamBarWrapper\s*-->.*?<!--\s*/canspamBarWrapper\s*-->`)
	docWrapperRe     = regexp.MustCompile(`(?is)<html[^>]*>|</html>|<head[^>]*>.*?</head>|<body[^>]*>|</body>`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// StripTags decodes the common HTML entities, removes all tags and
// trims the result.
func StripTags(html string) string {
	s := entityReplacer.Replace(html)
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// TextBlocks returns the inner HTML of every recognized content block,
// in document order. The emails page uses these raw blocks for its
// preview cards.
func TextBlocks(html string) []string {
	matches := contentBlockRe.FindAllStringSubmatch(html, -1)
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, m[1])
	}
	return blocks
}

// ExtractSummary derives a listing preview from a campaign body.
//
// Title resolution order: first h1 inside a content block, first h1
// anywhere, document title, empty string. The excerpt joins the first
// two non-empty paragraph texts from the content blocks; when no
// content block exists it falls back to the body with the template
// header, footer and compliance-bar comment regions stripped. Tags are
// NOT stripped on the fallback path, so callers must re-sanitize
// before display.
func ExtractSummary(html string) Summary {
	blocks := TextBlocks(html)

	return Summary{
		Title:   extractTitle(html, blocks),
		Excerpt: extractExcerpt(html, blocks),
		Media:   ExtractMedia(html),
	}
}

func extractTitle(html string, blocks []string) string {
	for _, block := range blocks {
		if m := h1Re.FindStringSubmatch(block); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	if m := h1Re.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := docTitleRe.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractExcerpt(html string, blocks []string) string {
	if len(blocks) == 0 {
		return fallbackBody(html)
	}

	var texts []string
	for _, block := range blocks {
		for _, m := range paragraphRe.FindAllStringSubmatch(block, -1) {
			if text := StripTags(m[1]); text != "" {
				texts = append(texts, text)
				if len(texts) == 2 {
					return strings.Join(texts, " ")
				}
			}
		}
	}
	return strings.Join(texts, " ")
}

// fallbackBody trims the boilerplate regions from a campaign body that
// has no recognized content block.
func fallbackBody(html string) string {
	body := templateHeaderRe.ReplaceAllString(html, "")
	body = templateFooterRe.ReplaceAllString(body, "")
	body = canspamRe.ReplaceAllString(body, "")
	body = docWrapperRe.ReplaceAllString(body, "")
	return strings.TrimSpace(body)
}

// ExtractMedia scans for img tags in either attribute order and
// returns them in first-seen order, de-duplicated by src.
func ExtractMedia(html string) []Media {
	var media []Media
	seen := make(map[string]bool)

	for _, m := range imgSrcAltRe.FindAllStringSubmatch(html, -1) {
		if src := m[1]; !seen[src] {
			seen[src] = true
			media = append(media, Media{Src: src, Alt: m[2]})
		}
	}
	for _, m := range imgAltSrcRe.FindAllStringSubmatch(html, -1) {
		if src := m[2]; !seen[src] {
			seen[src] = true
			media = append(media, Media{Src: src, Alt: m[1]})
		}
	}
	return media
}
