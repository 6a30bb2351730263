package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/ports"
)

// Renderer implements ports.Reporter. Labels are coloured only when the
// destination is a terminal, so piped output stays plain text.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	styled bool

	label   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
}

// NewRenderer writes results to out and warnings to errOut.
func NewRenderer(out, errOut io.Writer) *Renderer {
	return &Renderer{
		out:     out,
		errOut:  errOut,
		styled:  isTerminal(out),
		label:   lipgloss.NewStyle().Bold(true),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (r *Renderer) paint(style lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return style.Render(text)
}

func (r *Renderer) UsingModel(model string) {
	fmt.Fprintf(r.out, "%s %s\n", r.paint(r.label, "Using model:"), model)
}

func (r *Renderer) PathCreated(path string) {
	fmt.Fprintf(r.out, "Creating directory: %s\n", path)
}

func (r *Renderer) PathUnreachable(path, parent string) {
	fmt.Fprintf(r.out, "%s %s\n", r.paint(r.warning, "Parent directory does not exist:"), parent)
}

func (r *Renderer) PathFailed(path string, err error) {
	fmt.Fprintf(r.errOut, "%s %v\n", r.paint(r.warning, "Could not create directory:"), err)
}

func (r *Renderer) Executing(command string) {
	fmt.Fprintf(r.out, "%s %s\n", r.paint(r.label, "Executing:"), command)
}

// ExecutionFailed prints the error line followed by the command's stderr.
func (r *Renderer) ExecutionFailed(err *domain.ExecutionError) {
	fmt.Fprintln(r.out, r.paint(r.failure, err.Error()))
	if stderr := strings.TrimRight(err.Stderr, "\n"); stderr != "" {
		fmt.Fprintf(r.out, "%s %s\n", r.paint(r.label, "Error output:"), stderr)
	}
}

func (r *Renderer) Result(output string) {
	fmt.Fprintf(r.out, "%s %s\n", r.paint(r.success, "Result:"), output)
}

// Aborted turns any pipeline failure into a single line.
func (r *Renderer) Aborted(err error) {
	fmt.Fprintln(r.out, r.paint(r.failure, abortMessage(err)))
}

func (r *Renderer) Warning(err error) {
	fmt.Fprintf(r.errOut, "%s %v\n", r.paint(r.warning, "Warning:"), err)
}

func abortMessage(err error) string {
	var (
		rejected  *domain.SafetyRejectedError
		syntaxErr *domain.SyntaxError
		timeout   *domain.TimeoutError
	)
	switch {
	case errors.As(err, &rejected), errors.As(err, &syntaxErr):
		return "Command validation error: " + err.Error()
	case errors.Is(err, domain.ErrInsufficientInformation):
		return domain.InsufficientInformationSentinel
	case errors.Is(err, domain.ErrGenerationEmpty), errors.As(err, &timeout):
		return "Error: " + err.Error()
	default:
		return "An error occurred: " + err.Error()
	}
}

var _ ports.Reporter = (*Renderer)(nil)
