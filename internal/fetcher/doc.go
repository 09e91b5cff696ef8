// Package fetcher retrieves raw page content over HTTP.
//
// A Fetcher issues a single GET per URL and returns the body as text. It
// never returns an error to the crawler: any failure (transport error,
// timeout, non-success status, empty body) yields an empty string and a
// warning in the log. The crawler treats empty content as "nothing to
// index" and leaves the record pending.
//
// # Timeouts
//
// The underlying http.Client always carries a bounded timeout so a stalled
// server cannot block a crawl task forever. Context cancellation also
// aborts in-flight requests.
//
// # Proxy
//
// Requests can be routed through a SOCKS5 proxy (for example a local Tor
// daemon on 127.0.0.1:9050) with WithProxy.
//
// # Usage
//
//	f, err := fetcher.New(fetcher.WithTimeout(10 * time.Second))
//	content := f.Fetch(ctx, "https://example.com/")
package fetcher
