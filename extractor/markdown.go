package extractor

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// newMarkdownConverter creates a reusable, goroutine-safe Converter tuned for
// prompt embedding:
//
//   - base plugin: strips script, style, iframe, noscript, head, meta, link,
//     input, textarea, and HTML comments, all noise for the model.
//   - commonmark plugin: standard Markdown rendering, which preserves the
//     heading/list/emphasis structure the clone should echo.
//   - table plugin with minimal cell padding: keeps tabular layout visible
//     to the model at a fraction of the token cost.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}
