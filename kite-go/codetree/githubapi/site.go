package githubapi

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const publicHost = "github.com"

// Site is a GitHub or GitHub Enterprise deployment.
type Site struct {
	// Web is the scheme://host pages are served from.
	Web *url.URL
	// API is the REST v3 root, always with a trailing slash.
	API *url.URL
}

// TokenURL is where users of the site create access tokens.
func (s Site) TokenURL() string {
	return s.Web.String() + "/settings/tokens/new"
}

// PublicSite is github.com
var PublicSite = mustSite("https://github.com")

// SiteFor selects the deployment serving page among github.com and the given enterprise
// URLs. It returns false when the page belongs to none of them.
func SiteFor(page *url.URL, enterpriseURLs []string) (Site, bool) {
	origin := normalize(page)
	if origin == "" {
		return Site{}, false
	}
	if origin == PublicSite.Web.String() {
		return PublicSite, true
	}
	for _, raw := range enterpriseURLs {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || normalize(u) != origin {
			continue
		}
		site, err := NewSite(origin)
		if err != nil {
			return Site{}, false
		}
		return site, true
	}
	return Site{}, false
}

// NewSite builds the Site for a deployment reachable at webURL; only its scheme and host are used.
func NewSite(webURL string) (Site, error) {
	u, err := url.Parse(webURL)
	if err != nil {
		return Site{}, errors.Wrapf(err, "invalid site url %s", webURL)
	}
	origin := normalize(u)
	if origin == "" {
		return Site{}, errors.Errorf("site url %s has no scheme or host", webURL)
	}
	web, _ := url.Parse(origin)

	api := *web
	if web.Host == publicHost {
		api.Host = "api." + publicHost
		api.Path = "/"
	} else {
		api.Path = "/api/v3/"
	}
	return Site{Web: web, API: &api}, nil
}

func mustSite(webURL string) Site {
	s, err := NewSite(webURL)
	if err != nil {
		panic(err)
	}
	return s
}

// normalize reduces u to scheme://host.
func normalize(u *url.URL) string {
	if u == nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}
