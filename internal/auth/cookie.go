package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// CookiePolicy decides the attributes of the session cookie.
//
// Production deployments serve the API and the frontend from different
// sites over HTTPS, so the cookie must be Secure and SameSite=None to be
// sent at all. Everywhere else it is SameSite=Lax and not Secure, so it
// works over plain http://localhost.
type CookiePolicy struct {
	Production bool
}

// Issue returns the Set-Cookie value for a freshly minted token.
func (p CookiePolicy) Issue(token string) *http.Cookie {
	c := p.base()
	c.Value = token
	c.MaxAge = int(SessionTTL / time.Second)
	c.Expires = time.Now().Add(SessionTTL)
	return c
}

// Clear returns a cookie that makes the browser drop the session.
func (p CookiePolicy) Clear() *http.Cookie {
	c := p.base()
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

func (p CookiePolicy) base() *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if p.Production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
