package storelens

import "time"

// SocialHandles holds the brand's social media profile URLs. Empty fields
// mean the platform was not found on the page.
type SocialHandles struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Pinterest string `json:"pinterest,omitempty"`
}

// Platforms returns the names of the populated social platforms in a fixed
// order, for deterministic aggregation.
func (s *SocialHandles) Platforms() []string {
	var out []string
	for _, p := range []struct {
		name string
		url  string
	}{
		{"instagram", s.Instagram},
		{"facebook", s.Facebook},
		{"twitter", s.Twitter},
		{"tiktok", s.TikTok},
		{"youtube", s.YouTube},
		{"linkedin", s.LinkedIn},
		{"pinterest", s.Pinterest},
	} {
		if p.url != "" {
			out = append(out, p.name)
		}
	}
	return out
}

// ContactDetails holds contact information scraped from the storefront.
type ContactDetails struct {
	Emails         []string `json:"emails,omitempty"`
	PhoneNumbers   []string `json:"phoneNumbers,omitempty"`
	Address        string   `json:"address,omitempty"`
	ContactFormURL string   `json:"contactFormUrl,omitempty"`
}

// FAQ is a single question/answer pair with an optional category label.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
}

// ImportantLinks collects well-known storefront destinations.
type ImportantLinks struct {
	OrderTracking string `json:"orderTracking,omitempty"`
	ContactUs     string `json:"contactUs,omitempty"`
	Blog          string `json:"blog,omitempty"`
	AboutUs       string `json:"aboutUs,omitempty"`
	ShippingInfo  string `json:"shippingInfo,omitempty"`
	SizeGuide     string `json:"sizeGuide,omitempty"`
	Careers       string `json:"careers,omitempty"`
}

// BrandInsights is the merged entity graph for one storefront: everything
// the extraction run recovered. It lives for the duration of one run and
// is discarded or persisted as an immutable snapshot at the end.
type BrandInsights struct {
	WebsiteURL       string         `json:"websiteUrl"`
	BrandName        string         `json:"brandName,omitempty"`
	BrandDescription string         `json:"brandDescription,omitempty"`
	LogoURL          string         `json:"logoUrl,omitempty"`
	HeroProducts     []*HeroProduct `json:"heroProducts,omitempty"`
	Catalog          []*Product     `json:"catalog,omitempty"`
	Policies         []*Policy      `json:"policies,omitempty"`
	Socials          SocialHandles  `json:"socials"`
	Contacts         ContactDetails `json:"contacts"`
	FAQs             []*FAQ         `json:"faqs,omitempty"`
	Links            ImportantLinks `json:"links"`
	Currencies       []string       `json:"currencies,omitempty"`
	PaymentMethods   []string       `json:"paymentMethods,omitempty"`
	TotalProducts    int            `json:"totalProducts"`
	FetchedAt        time.Time      `json:"fetchedAt"`
}

// Validate returns an error if the insights contain invalid fields.
func (b *BrandInsights) Validate() error {
	if b.WebsiteURL == "" {
		return Errorf(EINVALID, "insights website URL required")
	}
	return nil
}
