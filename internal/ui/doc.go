// Package ui contains the Fyne desktop front end: a single download form that
// hands requests to download.Service and streams its events into a log view.
// All UI strings are localized via Localization.
package ui
