// Package pipeline turns Markdown into a styled, self-contained HTML document.
//
// Stages, in order:
//   - Markdown preprocessing (line endings, abbreviation definitions, [TOC] markers)
//   - Markdown to HTML conversion via Goldmark
//   - Abbreviation markup
//   - Table of contents injection
//   - Relative path resolution against the source directory
//   - CSS injection
//
// PDF generation is handled separately by the root md2pdf package.
package pipeline
