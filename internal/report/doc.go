// Package report renders repository summaries as Markdown or JSON
// documents for export.
package report
