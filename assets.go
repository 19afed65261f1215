// Package portal provides the embedded page templates.
package portal

import "embed"

// TemplateFS holds the layout and page templates under web/templates.
//
//go:embed all:web/templates
var TemplateFS embed.FS
