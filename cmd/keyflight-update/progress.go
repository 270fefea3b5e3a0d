package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/keyflight/selfupdate"
)

// progressLine redraws a single progress bar line for every session event
type progressLine struct {
	out io.Writer
	bar progress.Model
}

func newProgressLine(out io.Writer) *progressLine {
	return &progressLine{
		out: out,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
	}
}

func (p *progressLine) render(event selfupdate.Event) {
	// \x1b[K clears what's left of a longer previous message
	fmt.Fprintf(p.out, "\r%s %3d%% %s\x1b[K", p.bar.ViewAs(float64(event.Progress)/100), event.Progress, subtleStyle.Render(event.Message))
}

func (p *progressLine) done() {
	fmt.Fprintln(p.out)
}
