// Command ytfetch downloads a YouTube video through a chain of fallback
// downloaders and optionally extracts its audio to MP3 or FLAC.
package main
