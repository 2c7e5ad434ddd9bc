package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// display renders a single message to the terminal, honoring the reporter's
// configured log level the way the teacher's ReportCompileError/
// ReportCompileWarning pair did, but routed through pterm's styled printers
// instead of bare fmt.Printf so errors, warnings, and source underlining get
// consistent color treatment.
func display(level LogLevel, m *Message) {
	switch m.Severity {
	case SeverityError:
		if level < LogLevelError {
			return
		}
	case SeverityWarning:
		if level < LogLevelWarn {
			return
		}
	}

	loc := ""
	if m.Ctx != nil {
		loc = m.Ctx.ReprPath
		if m.Span != nil {
			loc = fmt.Sprintf("%s:%d:%d", loc, m.Span.StartLine+1, m.Span.StartCol+1)
		}
	}

	printer := pterm.Error
	if m.Severity == SeverityWarning {
		printer = pterm.Warning
	}

	if loc == "" {
		printer.Printfln("[%s] %s", m.Code, m.Header)
	} else {
		printer.Printfln("%s: [%s] %s", loc, m.Code, m.Header)
	}

	for _, line := range m.Lines {
		pterm.Println(pterm.Gray("    " + line))
	}

	for _, sec := range m.Sections {
		pterm.Println(pterm.Gray("    " + sec.Label + ":"))
		for _, item := range sec.Items {
			pterm.Println(pterm.Gray("      - " + item))
		}
	}

	if m.Ctx != nil && m.Span != nil {
		printSourceSnippet(m.Ctx.AbsPath, m.Span)
	}
}

// printSourceSnippet prints the source lines covered by span with caret
// underlining, following the layout of the teacher's displaySourceText but
// rendering the carets in pterm's bold red.
func printSourceSnippet(absPath string, span *TextSpan) {
	f, err := os.Open(absPath)
	if err != nil {
		return
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}
	if len(lines) == 0 {
		return
	}

	minIndent := math.MaxInt
	for _, line := range lines {
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent == math.MaxInt {
		minIndent = 0
	}

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmt := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		fmt.Printf(lineNumFmt, i+span.StartLine+1)
		trimmed := line
		if minIndent < len(line) {
			trimmed = line[minIndent:]
		}
		fmt.Println(trimmed)

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		var prefix, suffix int
		if i == 0 {
			prefix = span.StartCol - minIndent
		}
		if i == len(lines)-1 {
			suffix = len(line) - span.EndCol
		}
		caretLen := len(line) - suffix - prefix - minIndent
		if caretLen < 1 {
			caretLen = 1
		}

		fmt.Print(strings.Repeat(" ", max(prefix, 0)))
		pterm.Println(pterm.Red(strings.Repeat("^", caretLen)))
	}
	fmt.Println()
}
