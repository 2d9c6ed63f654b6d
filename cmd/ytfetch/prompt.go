package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/ytget/ytfetch/internal/model"
)

// Prompt texts
const (
	promptURL         = "Enter the YouTube video URL: "
	promptResolution  = "Enter resolution (e.g. 720p) or leave empty for best: "
	promptExtract     = "Extract audio? [y/N]: "
	promptAudioFormat = "1: mp3 format archive | 2: flac format archive -> "
)

// prompter asks questions on out and reads answers line by line from in
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) url() (string, error) {
	return p.ask(promptURL)
}

func (p *prompter) resolution() (model.Resolution, error) {
	answer, err := p.ask(promptResolution)
	if err != nil {
		return model.ResolutionBest, err
	}
	return model.ParseResolution(answer), nil
}

func (p *prompter) extractAudio() (bool, error) {
	answer, err := p.ask(promptExtract)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// audioFormat re-asks until the answer is valid; empty means mp3
func (p *prompter) audioFormat() (model.AudioFormat, error) {
	for {
		answer, err := p.ask(promptAudioFormat)
		if err != nil {
			return "", err
		}
		format, err := model.ParseAudioFormat(answer)
		if err == nil {
			return format, nil
		}
		fmt.Fprintln(p.out, "Please enter 1 or 2.")
	}
}

// isTerminal reports whether r is an interactive terminal
func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// readPipedURL returns the first non-blank line of a non-interactive stdin,
// so `echo URL | ytfetch` works without prompts
func readPipedURL(in io.Reader) (string, error) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	return "", scanner.Err()
}
