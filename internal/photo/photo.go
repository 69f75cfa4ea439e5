// Package photo turns upstream records into the canonical Photo and holds
// the URL helpers every widget shares.
package photo

import (
	"fmt"
	"net/url"
	"strings"

	"spring/internal/model"
	"spring/internal/unsplash"
)

const (
	DefaultHost = "https://unsplash.com"
	utmSource   = "spring"
)

// Normalize maps a raw upstream record onto model.Photo. It has no side
// effects; the same record always yields the same Photo.
func Normalize(rec unsplash.Photo) (model.Photo, error) {
	if rec.User.Name == "" {
		return model.Photo{}, model.Malformed("upstream record has no author name")
	}
	if rec.User.Links.HTML == "" {
		return model.Photo{}, model.Malformed("upstream record has no author link")
	}

	// raw is the original upload; full is already re-encoded.
	imageURL := rec.Urls.Raw
	if imageURL == "" {
		imageURL = rec.Urls.Full
	}
	if imageURL == "" {
		return model.Photo{}, model.Malformed("upstream record has no image url")
	}

	p := model.Photo{
		Author: model.Author{
			Name: rec.User.Name,
			Link: rec.User.Links.HTML,
		},
		URL: imageURL,
	}

	if c := strings.TrimSpace(rec.Color); c != "" {
		p.Color = &c
	}

	return p, nil
}

// AddResizeParams asks the image CDN for a crop matching the viewport,
// keeping any parameters already on the URL.
func AddResizeParams(imageURL string, width, height int) string {
	params := fmt.Sprintf("fit=crop&w=%d&h=%d", width, height)

	if strings.Contains(imageURL, "?") {
		return imageURL + "&" + params
	}
	return imageURL + "?" + params
}

// AttributionLink adds the referral parameters the provider requires on
// every link back to it. An empty host links to the provider's home page.
func AttributionLink(host string) string {
	if host == "" {
		host = DefaultHost
	}

	u, err := url.Parse(host)
	if err != nil {
		return host
	}
	if u.Path == "" {
		u.Path = "/"
	}

	q := u.Query()
	q.Set("utm_source", utmSource)
	q.Set("utm_medium", "referral")
	u.RawQuery = q.Encode()

	return u.String()
}

// Attribution renders the credit line shown under the photo.
func Attribution(p model.Photo) string {
	return fmt.Sprintf("Photo by %s (%s) on Unsplash (%s)", p.Author.Name, AttributionLink(p.Author.Link), AttributionLink(""))
}
