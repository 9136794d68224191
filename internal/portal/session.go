package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"ivuturnos/internal/logger"
)

const browserLoginTimeout = 90 * time.Second

// LoginBrowser establishes a portal session by driving the real login form
// in headless Chromium, then copies the resulting cookies into the HTTP
// client so the fetch path works unchanged. Use this when the portal
// frontend rejects the direct form POST.
func (c *Client) LoginBrowser(ctx context.Context, user, pass string) error {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
		)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, browserLoginTimeout)
	defer cancelTimeout()

	var cookies []*http.Cookie
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(c.baseURL+"/mbweb/"),
		chromedp.WaitVisible(`form#login_form`, chromedp.ByQuery),
		chromedp.SendKeys(`#j_username`, user, chromedp.ByQuery),
		chromedp.SendKeys(`#j_password`, pass, chromedp.ByQuery),
		chromedp.Click(`input.login_button[type="submit"]`, chromedp.ByQuery),
		// The portal redirects through an interstitial before the duties
		// view settles.
		chromedp.Sleep(2*time.Second),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			got, err := storage.GetCookies().Do(ctx)
			if err != nil {
				return err
			}
			for _, ck := range got {
				cookies = append(cookies, &http.Cookie{
					Name:   ck.Name,
					Value:  ck.Value,
					Path:   ck.Path,
					Domain: ck.Domain,
					Secure: ck.Secure,
				})
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("browser login: %w", err)
	}
	if len(cookies) == 0 {
		return fmt.Errorf("browser login: no session cookies captured")
	}

	base, err := url.Parse(c.baseURL + "/mbweb/")
	if err != nil {
		return err
	}
	c.http.Jar.SetCookies(base, cookies)

	logger.Info("browser login ok", logger.Fields{
		"base_url": c.baseURL,
		"cookies":  len(cookies),
	})
	return nil
}
