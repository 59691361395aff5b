package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/storelens/storelens"
)

// socialDomains maps a hostname fragment to the profile field it fills.
var socialDomains = []struct {
	domain string
	assign func(*storelens.SocialHandles, string)
}{
	{"instagram.com", func(s *storelens.SocialHandles, u string) { s.Instagram = u }},
	{"facebook.com", func(s *storelens.SocialHandles, u string) { s.Facebook = u }},
	{"twitter.com", func(s *storelens.SocialHandles, u string) { s.Twitter = u }},
	{"x.com", func(s *storelens.SocialHandles, u string) { s.Twitter = u }},
	{"tiktok.com", func(s *storelens.SocialHandles, u string) { s.TikTok = u }},
	{"youtube.com", func(s *storelens.SocialHandles, u string) { s.YouTube = u }},
	{"linkedin.com", func(s *storelens.SocialHandles, u string) { s.LinkedIn = u }},
	{"pinterest.com", func(s *storelens.SocialHandles, u string) { s.Pinterest = u }},
}

// paymentIndicators maps a display name to the markup fragments that reveal
// the payment method on a storefront page.
var paymentIndicators = map[string][]string{
	"Visa":             {"visa"},
	"Mastercard":       {"mastercard", "master-card"},
	"American Express": {"american express", "amex"},
	"PayPal":           {"paypal"},
	"Apple Pay":        {"apple pay", "apple-pay", "applepay"},
	"Google Pay":       {"google pay", "google-pay", "googlepay", "gpay"},
	"Shop Pay":         {"shop pay", "shop-pay", "shoppay"},
	"Klarna":           {"klarna"},
	"Afterpay":         {"afterpay"},
	// Bare "discover" collides with marketing copy, so only the card name
	// and icon asset names count.
	"Discover": {"discover card", "discover-card", "discover."},
}

// paymentOrder fixes the output order of detected payment methods.
var paymentOrder = []string{
	"Visa", "Mastercard", "American Express", "PayPal", "Apple Pay",
	"Google Pay", "Shop Pay", "Klarna", "Afterpay", "Discover",
}

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?[0-9][0-9\-\s().]{7,}[0-9]`)
	currencyRe = regexp.MustCompile(`Shopify\.currency\s*=\s*\{[^}]*"active"\s*:\s*"([A-Z]{3})"`)
)

// BrandProfileExtractor recovers the non-product surface of a storefront
// from its homepage: brand identity, social handles, contact details, FAQs,
// well-known links, currencies, and payment methods.
type BrandProfileExtractor struct{}

// NewBrandProfileExtractor creates a new BrandProfileExtractor.
func NewBrandProfileExtractor() *BrandProfileExtractor {
	return &BrandProfileExtractor{}
}

var _ storelens.BrandProfileExtractor = (*BrandProfileExtractor)(nil)

// ExtractProfile extracts every profile facet independently. A facet the
// page does not expose stays zero-valued; extraction never fails on absence.
func (e *BrandProfileExtractor) ExtractProfile(html string, baseURL string) (*storelens.BrandProfile, error) {
	doc, err := ParseDocument(html, baseURL)
	if err != nil {
		return nil, err
	}

	profile := &storelens.BrandProfile{
		Name:        brandName(doc),
		Description: brandDescription(doc),
		LogoURL:     brandLogo(doc),
		Socials:     socialHandles(doc),
		Contacts:    contactDetails(doc, html),
		FAQs:        faqs(doc),
		Links:       importantLinks(doc),
	}
	profile.Currencies = currencies(doc, html)
	profile.PaymentMethods = paymentMethods(doc, html)

	return profile, nil
}

func brandName(doc *Document) string {
	for _, block := range doc.StructuredData() {
		if hasType(block, "Organization") || hasType(block, "WebSite") || hasType(block, "Store") {
			if name := schemaString(block["name"]); name != "" {
				return name
			}
		}
	}
	if name := attrOr(doc.Find("meta[property='og:site_name']").First(), "content"); name != "" {
		return name
	}
	title := selectionText(doc.Find("title").First())
	// Storefront titles usually append a tagline after a separator.
	for _, sep := range []string{" | ", " – ", " - "} {
		if i := strings.Index(title, sep); i > 0 {
			return title[:i]
		}
	}
	return title
}

func brandDescription(doc *Document) string {
	if desc := attrOr(doc.Find("meta[name='description']").First(), "content"); desc != "" {
		return normalizeText(desc)
	}
	return normalizeText(attrOr(doc.Find("meta[property='og:description']").First(), "content"))
}

func brandLogo(doc *Document) string {
	candidates := []string{
		attrOr(doc.Find(".header__logo img, .site-header__logo img, .logo img").First(), "src", "data-src"),
		attrOr(doc.Find("img[class*='logo'], img[alt*='logo' i]").First(), "src", "data-src"),
		attrOr(doc.Find("meta[property='og:image']").First(), "content"),
	}
	for _, c := range candidates {
		if resolved := doc.ResolveURL(c); resolved != "" {
			return resolved
		}
	}
	return ""
}

func socialHandles(doc *Document) storelens.SocialHandles {
	var handles storelens.SocialHandles
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		resolved := doc.ResolveURL(attrOr(sel, "href"))
		if resolved == "" {
			return
		}
		u, err := url.Parse(resolved)
		if err != nil {
			return
		}
		host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
		for _, sd := range socialDomains {
			if host != sd.domain && !strings.HasSuffix(host, "."+sd.domain) {
				continue
			}
			// Share widgets point at the platform's sharer endpoints, not
			// the brand's profile.
			if strings.Contains(u.Path, "/share") || strings.Contains(u.Path, "/intent/") {
				continue
			}
			cleaned := (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: strings.TrimSuffix(u.Path, "/")}).String()
			sd.assign(&handles, cleaned)
		}
	})
	return handles
}

func contactDetails(doc *Document, html string) storelens.ContactDetails {
	var contacts storelens.ContactDetails

	seenEmail := make(map[string]bool)
	doc.Find("a[href^='mailto:']").Each(func(_ int, sel *goquery.Selection) {
		addr := strings.TrimPrefix(attrOr(sel, "href"), "mailto:")
		if i := strings.IndexByte(addr, '?'); i != -1 {
			addr = addr[:i]
		}
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr != "" && !seenEmail[addr] {
			seenEmail[addr] = true
			contacts.Emails = append(contacts.Emails, addr)
		}
	})
	for _, addr := range emailRe.FindAllString(html, -1) {
		addr = strings.ToLower(addr)
		// Asset filenames match the email pattern; skip image extensions.
		if strings.HasSuffix(addr, ".png") || strings.HasSuffix(addr, ".jpg") ||
			strings.HasSuffix(addr, ".svg") || strings.HasSuffix(addr, ".webp") {
			continue
		}
		if !seenEmail[addr] {
			seenEmail[addr] = true
			contacts.Emails = append(contacts.Emails, addr)
		}
	}

	seenPhone := make(map[string]bool)
	doc.Find("a[href^='tel:']").Each(func(_ int, sel *goquery.Selection) {
		num := strings.TrimSpace(strings.TrimPrefix(attrOr(sel, "href"), "tel:"))
		if num != "" && !seenPhone[num] {
			seenPhone[num] = true
			contacts.PhoneNumbers = append(contacts.PhoneNumbers, num)
		}
	})
	if len(contacts.PhoneNumbers) == 0 {
		footer := selectionText(doc.Find("footer"))
		if num := strings.TrimSpace(phoneRe.FindString(footer)); num != "" {
			contacts.PhoneNumbers = append(contacts.PhoneNumbers, num)
		}
	}

	contacts.Address = selectionText(doc.Find("address, .footer__address, [itemprop='address']").First())

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := strings.ToLower(attrOr(sel, "href"))
		text := strings.ToLower(selectionText(sel))
		if strings.Contains(href, "/contact") || strings.Contains(text, "contact us") {
			if resolved := doc.ResolveURL(attrOr(sel, "href")); resolved != "" {
				contacts.ContactFormURL = resolved
				return false
			}
		}
		return true
	})

	return contacts
}

// faqs extracts question/answer pairs from JSON-LD FAQPage entities,
// accordion/details markup, and definition lists, in that order of
// preference.
func faqs(doc *Document) []*storelens.FAQ {
	var out []*storelens.FAQ
	seen := make(map[string]bool)
	add := func(question, answer string) {
		question = normalizeText(question)
		answer = normalizeText(answer)
		if question == "" || answer == "" || seen[strings.ToLower(question)] {
			return
		}
		seen[strings.ToLower(question)] = true
		out = append(out, &storelens.FAQ{Question: question, Answer: answer})
	}

	for _, block := range doc.StructuredData() {
		if !hasType(block, "FAQPage") {
			continue
		}
		entities, _ := block["mainEntity"].([]any)
		for _, entity := range entities {
			q, ok := entity.(map[string]any)
			if !ok || !hasType(q, "Question") {
				continue
			}
			answer := ""
			if accepted, ok := q["acceptedAnswer"].(map[string]any); ok {
				answer = schemaString(accepted["text"])
			}
			add(schemaString(q["name"]), answer)
		}
	}

	doc.Find("details").Each(func(_ int, sel *goquery.Selection) {
		question := selectionText(sel.Find("summary").First())
		answer := selectionText(sel.Clone().ChildrenFiltered(":not(summary)"))
		add(question, answer)
	})

	doc.Find(".faq-item, .accordion-item, [data-faq-item]").Each(func(_ int, sel *goquery.Selection) {
		question := firstText(sel, ".faq-question", ".accordion-title", ".accordion__title", "h3", "h4", "button")
		answer := firstText(sel, ".faq-answer", ".accordion-content", ".accordion__content", "p")
		add(question, answer)
	})

	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		terms := dl.Find("dt")
		defs := dl.Find("dd")
		if terms.Length() == 0 || terms.Length() != defs.Length() {
			return
		}
		terms.Each(func(i int, dt *goquery.Selection) {
			add(selectionText(dt), selectionText(defs.Eq(i)))
		})
	})

	return out
}

// linkCues maps important-link slots to the href and text cues that fill
// them. First matching link per slot wins.
var linkCues = []struct {
	assign func(*storelens.ImportantLinks, string)
	get    func(*storelens.ImportantLinks) string
	cues   []string
}{
	{func(l *storelens.ImportantLinks, u string) { l.OrderTracking = u }, func(l *storelens.ImportantLinks) string { return l.OrderTracking }, []string{"track", "order status", "order-status"}},
	{func(l *storelens.ImportantLinks, u string) { l.ContactUs = u }, func(l *storelens.ImportantLinks) string { return l.ContactUs }, []string{"contact"}},
	{func(l *storelens.ImportantLinks, u string) { l.Blog = u }, func(l *storelens.ImportantLinks) string { return l.Blog }, []string{"blog", "/blogs/", "journal"}},
	{func(l *storelens.ImportantLinks, u string) { l.AboutUs = u }, func(l *storelens.ImportantLinks) string { return l.AboutUs }, []string{"about"}},
	{func(l *storelens.ImportantLinks, u string) { l.ShippingInfo = u }, func(l *storelens.ImportantLinks) string { return l.ShippingInfo }, []string{"shipping", "delivery"}},
	{func(l *storelens.ImportantLinks, u string) { l.SizeGuide = u }, func(l *storelens.ImportantLinks) string { return l.SizeGuide }, []string{"size guide", "size-guide", "sizing"}},
	{func(l *storelens.ImportantLinks, u string) { l.Careers = u }, func(l *storelens.ImportantLinks) string { return l.Careers }, []string{"career", "jobs", "join us"}},
}

func importantLinks(doc *Document) storelens.ImportantLinks {
	var links storelens.ImportantLinks
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		combined := strings.ToLower(selectionText(sel) + " " + attrOr(sel, "href"))
		resolved := doc.ResolveURL(attrOr(sel, "href"))
		if resolved == "" {
			return
		}
		for _, slot := range linkCues {
			if slot.get(&links) != "" {
				continue
			}
			for _, cue := range slot.cues {
				if strings.Contains(combined, cue) {
					slot.assign(&links, resolved)
					break
				}
			}
		}
	})
	return links
}

// currencies collects currency codes from the Shopify runtime config and
// currency selector markup.
func currencies(doc *Document, html string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(code string) {
		code = strings.ToUpper(strings.TrimSpace(code))
		if len(code) == 3 && !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}

	if m := currencyRe.FindStringSubmatch(html); m != nil {
		add(m[1])
	}
	doc.Find("[name='currency'] option, .currency-selector option, [data-currency]").Each(func(_ int, sel *goquery.Selection) {
		if v := attrOr(sel, "value", "data-currency"); v != "" {
			add(v)
		}
	})

	return out
}

// paymentMethods scans payment icon markup and page text for known payment
// method indicators. Output order is fixed for deterministic aggregation.
func paymentMethods(doc *Document, html string) []string {
	haystack := strings.ToLower(html)
	var iconHints strings.Builder
	doc.Find(".payment-icons img, .payment-methods img, [class*='payment'] img, [class*='payment'] svg").Each(func(_ int, sel *goquery.Selection) {
		iconHints.WriteString(strings.ToLower(attrOr(sel, "alt") + " " + attrOr(sel, "src") + " " + attrOr(sel, "aria-label") + " "))
	})
	haystack += " " + iconHints.String()

	var out []string
	for _, name := range paymentOrder {
		for _, indicator := range paymentIndicators[name] {
			if strings.Contains(haystack, indicator) {
				out = append(out, name)
				break
			}
		}
	}
	return out
}
