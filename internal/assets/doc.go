// Package assets embeds the stylesheet applied to every generated PDF.
//
// The stylesheet is fixed at compile time: A4 pages with 1-inch margins,
// a serif body, sans-serif headings, light-gray code backgrounds and
// bordered tables. It is not configurable at runtime.
//
//	styles/
//	└── default.css
//
// Style names are validated to prevent path traversal into the embedded
// filesystem.
package assets
