// Package console renders an orchestration run on a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/casualjim/lynx/events"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

var palette = []func(format string, a ...any) string{
	color.CyanString,
	color.MagentaString,
	color.GreenString,
	color.BlueString,
	color.YellowString,
}

// Printer writes interleaved provider output, labelling each run of text
// with the provider it came from. The synthesis is collected and rendered as
// markdown once the run ends.
type Printer struct {
	w         io.Writer
	renderer  *glamour.TermRenderer
	labels    map[string]string
	current   string
	synthesis strings.Builder
	failed    string
}

// NewPrinter creates a printer. A nil renderer prints the synthesis verbatim.
func NewPrinter(w io.Writer, renderer *glamour.TermRenderer) *Printer {
	return &Printer{
		w:        w,
		renderer: renderer,
		labels:   make(map[string]string),
	}
}

// DefaultRenderer renders markdown with a style matching the terminal.
func DefaultRenderer() (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
}

func (p *Printer) label(id string) string {
	if l, ok := p.labels[id]; ok {
		return l
	}
	l := palette[len(p.labels)%len(palette)](id)
	p.labels[id] = l
	return l
}

// switchTo starts a new labelled line when the speaking provider changes.
func (p *Printer) switchTo(id string) {
	if p.current == id {
		return
	}
	if p.current != "" {
		fmt.Fprintln(p.w)
	}
	p.current = id
	fmt.Fprint(p.w, p.label(id)+": ")
}

func (p *Printer) endLine() {
	if p.current != "" {
		fmt.Fprintln(p.w)
		p.current = ""
	}
}

// Print writes one event.
func (p *Printer) Print(event events.Event) {
	switch e := event.(type) {
	case events.Start:
		p.label(e.ProviderID)
	case events.Chunk:
		p.switchTo(e.ProviderID)
		fmt.Fprint(p.w, e.Text)
	case events.Done:
		if p.current == e.ProviderID {
			p.endLine()
		}
	case events.Error:
		p.endLine()
		fmt.Fprintf(p.w, "%s: %s\n", p.label(e.ProviderID), color.RedString("error: %s", e.Message))
	case events.Synthesis:
		if e.Failed() {
			p.failed = e.Err
			return
		}
		p.synthesis.WriteString(e.Text)
	}
}

// Flush renders the collected synthesis, if any.
func (p *Printer) Flush() error {
	p.endLine()
	if p.synthesis.Len() > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, color.New(color.Bold).Sprint("Synthesis"))
		text := p.synthesis.String()
		if p.renderer != nil {
			rendered, err := p.renderer.Render(text)
			if err != nil {
				return fmt.Errorf("rendering synthesis: %w", err)
			}
			text = rendered
		}
		fmt.Fprintln(p.w, strings.TrimRight(text, "\n"))
	}
	if p.failed != "" {
		fmt.Fprintln(p.w, color.RedString("synthesis failed: %s", p.failed))
	}
	return nil
}

// Stream prints every event of seq and then flushes. It stops early when ctx
// is cancelled.
func Stream(ctx context.Context, w io.Writer, seq iter.Seq[events.Event], renderer *glamour.TermRenderer) error {
	p := NewPrinter(w, renderer)
	for event := range seq {
		if err := ctx.Err(); err != nil {
			p.endLine()
			return err
		}
		p.Print(event)
	}
	return p.Flush()
}
