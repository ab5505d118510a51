// Package pyrip provides a Go client for the Pyrip web-scraping API.
// It supports single-page scrapes, multi-page crawl jobs with synchronous
// polling or websocket-based progress watching, and passes scraped payloads
// through unmodified.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, websocket/).
package pyrip
