// Package render merges template data into Handlebars markup and converts
// the result to PDF through a headless browser.
package render

import "context"

// Renderer converts an HTML document to PDF bytes. Each call acquires its
// own browser session and releases it on every exit path; implementations
// must respect ctx cancellation so a hung render cannot outlive its request.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}
