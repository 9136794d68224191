// Package portal handles the session-authenticated side of the scrape:
// logging in to the IVU crew portal, loading the month view, and fetching
// the per-day duty-detail fragments over the portal's AJAX endpoints.
//
// Two login paths exist. The default posts the standard j_security_check
// form directly. The browser path drives the real login form in headless
// Chromium and copies the session cookies into the HTTP client, for
// frontends that gate the form behind scripted checks.
package portal
