package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/casualjim/lynx/events"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

// AskFunc starts one orchestration for a prompt.
type AskFunc func(ctx context.Context, prompt string) (iter.Seq[events.Event], error)

// REPL reads prompts line by line from in and streams every answer to out.
// It returns when in is exhausted, the user types "exit" or ctx is cancelled.
// A failing prompt is reported and the loop continues.
func REPL(ctx context.Context, in io.Reader, out io.Writer, ask AskFunc, renderer *glamour.TermRenderer) error {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanLines)

	for {
		fmt.Fprintf(out, "%s: ", color.CyanString("You"))
		if !scanner.Scan() {
			fmt.Fprintln(out, "Exiting...")
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			return nil
		}

		seq, err := ask(ctx, input)
		if err != nil {
			fmt.Fprintln(out, color.RedString("Error: %v", err))
			continue
		}
		if err := Stream(ctx, out, seq, renderer); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		fmt.Fprintln(out)
	}
}
