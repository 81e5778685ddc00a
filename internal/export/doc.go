// Package export writes dashboard selections as CSV downloads and Markdown summaries.
package export
