// Package extract pulls the audio track out of a downloaded video with ffmpeg.
package extract
