package adjudication

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/bme-vsb-cz/osc-aus-bp-validation/internal/models"
)

// ErrChannelClosed the operator channel ended before a decision was made
var ErrChannelClosed = errors.New("operator channel closed")

// Prompter collects one directive for one case. Implementations block until
// a decision is available.
type Prompter interface {
	Decide(ctx context.Context, c Case, position, total int) (models.Directive, error)
}

// TerminalPrompter line-based operator dialogue. Every answer outside the
// accepted vocabulary is rejected and the same question is asked again.
type TerminalPrompter struct {
	in  *bufio.Scanner
	out io.Writer

	start sync.Once
	lines chan inputLine
}

type inputLine struct {
	text string
	err  error
}

// NewTerminalPrompter reads answers from in and writes prompts to out
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewScanner(in), out: out, lines: make(chan inputLine)}
}

// readLines feeds p.lines until the input ends
func (p *TerminalPrompter) readLines() {
	defer close(p.lines)
	for p.in.Scan() {
		p.lines <- inputLine{text: p.in.Text()}
	}
	if err := p.in.Err(); err != nil {
		p.lines <- inputLine{err: fmt.Errorf("failed to read operator input: %w", err)}
	}
}

// Decide shows the record and runs the directive / field / value prompts
func (p *TerminalPrompter) Decide(ctx context.Context, c Case, position, total int) (models.Directive, error) {
	if err := p.show(c, position, total); err != nil {
		return models.Directive{}, err
	}

	kind, err := p.ask(ctx, "Directive [0=delete, 2=correct]: ", func(s string) error {
		switch models.DirectiveKind(s) {
		case models.DirectiveDelete, models.DirectiveCorrect:
			return nil
		}
		return fmt.Errorf("expected 0 or 2")
	})
	if err != nil {
		return models.Directive{}, err
	}
	d := models.Directive{RecordID: c.Record.ID, Kind: models.DirectiveKind(kind)}
	if d.Kind == models.DirectiveDelete {
		return d, nil
	}

	d.Field, err = p.ask(ctx, fmt.Sprintf("Erroneous field [%s]: ", strings.Join(c.Fields, ", ")), func(s string) error {
		if !c.Accepts(s) {
			return fmt.Errorf("expected one of %s", strings.Join(c.Fields, ", "))
		}
		return nil
	})
	if err != nil {
		return models.Directive{}, err
	}

	raw, err := p.ask(ctx, "Corrected value: ", func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("expected a number")
		}
		return nil
	})
	if err != nil {
		return models.Directive{}, err
	}
	d.Value, _ = strconv.ParseFloat(raw, 64)
	return d, nil
}

func (p *TerminalPrompter) show(c Case, position, total int) error {
	body, err := json.MarshalIndent(c.Record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render record %d: %w", c.Record.ID, err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n=== record %d (index %d, case %d of %d) ===\n", c.Record.ID, c.Index, position, total)
	b.Write(body)
	b.WriteString("\nviolations:\n")
	for _, v := range c.Violations {
		fmt.Fprintf(&b, "  - %s\n", v)
	}
	_, err = io.WriteString(p.out, b.String())
	return err
}

// ask repeats prompt until check accepts the trimmed answer. It returns
// ctx.Err() as soon as ctx is done, even while waiting for input.
func (p *TerminalPrompter) ask(ctx context.Context, prompt string, check func(string) error) (string, error) {
	p.start.Do(func() { go p.readLines() })
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if _, err := io.WriteString(p.out, prompt); err != nil {
			return "", err
		}
		var line inputLine
		select {
		case <-ctx.Done():
			fmt.Fprintln(p.out)
			return "", ctx.Err()
		case l, ok := <-p.lines:
			if !ok {
				return "", ErrChannelClosed
			}
			line = l
		}
		if line.err != nil {
			return "", line.err
		}
		answer := strings.TrimSpace(line.text)
		if err := check(answer); err != nil {
			fmt.Fprintf(p.out, "rejected %q: %v\n", answer, err)
			continue
		}
		return answer, nil
	}
}
