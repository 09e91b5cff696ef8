// Package main provides the entry point for the linkspider CLI.
//
// linkspider is a small breadth-first web crawler. It keeps a frontier of
// discovered URLs, indexes the title and description of each page, and
// queues the links it finds for later crawling.
//
// Usage:
//
//	linkspider seed http://example.com
//	linkspider crawl
//	linkspider crawl --cron "0 0 * * *"
//	linkspider search "example"
//
// See --help for all available options.
package main

func main() {
	Execute()
}
