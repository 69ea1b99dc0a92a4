package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.design/x/clipboard"
	"golang.org/x/term"

	"github.com/intuitionamiga/x86core"
	"github.com/intuitionamiga/x86core/internal/x86trace"
)

// runREPL drives an interactive session over stdin/stdout using a raw
// terminal line editor, matching the teacher's terminal-host convention
// of a single blocking read-eval loop per connected client.
func runREPL(s *session) error {
	rec := x86trace.NewRecorder(256)

	fd := int(os.Stdin.Fd())
	isTTY := term.IsTerminal(fd)

	var t *term.Terminal
	if isTTY {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("entering raw mode: %w", err)
		}
		defer term.Restore(fd, old)
		t = term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}, "(x86dbg) ")
	} else {
		t = term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}, "")
	}

	clipboardReady := clipboard.Init() == nil

	fmt.Fprintln(t, "x86dbg ready. Type :help for commands.")
	for {
		line, err := t.ReadLine()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case line == ":quit" || line == ":q":
			return nil
		case line == ":help":
			printHelp(t)
		case line == ":step" || line == ":s":
			doStep(t, s, rec)
		case strings.HasPrefix(line, ":run"):
			doRun(t, s, rec, line)
		case line == ":regs":
			fmt.Fprintln(t, s.State.DumpedRegFlags())
		case line == ":stack":
			st := x86core.Stack{State: s.State, Mem: s.Mem}
			fmt.Fprintln(t, st.PeekWindow(8))
		case line == ":trace":
			fmt.Fprintln(t, rec.Render())
		case line == ":copy":
			doCopy(t, s, clipboardReady)
		case strings.HasPrefix(line, ":break "):
			doSetBreak(t, s, line)
		default:
			fmt.Fprintf(t, "unknown command %q\n", line)
		}
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, ":step / :s           execute one instruction")
	fmt.Fprintln(w, ":run [n]             execute until a fault, breakpoint, or n instructions")
	fmt.Fprintln(w, ":regs                dump registers and flags")
	fmt.Fprintln(w, ":stack               show a window of the stack around SP")
	fmt.Fprintln(w, ":trace               show recorded state-dump history")
	fmt.Fprintln(w, ":break <hex-ip>      set a breakpoint at an IP offset")
	fmt.Fprintln(w, ":copy                copy the current register dump to the clipboard")
	fmt.Fprintln(w, ":quit / :q           exit")
}

func doStep(w io.Writer, s *session, rec *x86trace.Recorder) {
	err, keepGoing := s.step()
	rec.Snapshot(fmt.Sprintf("ip:%04x", s.State.IP), s.State)
	if err != nil {
		fmt.Fprintf(w, "fault: %v\n", err)
	}
	if !keepGoing {
		fmt.Fprintln(w, "machine halted")
	}
}

func doRun(w io.Writer, s *session, rec *x86trace.Recorder, line string) {
	limit := -1
	if fields := strings.Fields(line); len(fields) == 2 {
		if n, err := strconv.Atoi(fields[1]); err == nil {
			limit = n
		}
	}
	count := 0
	for limit < 0 || count < limit {
		if s.breakpoints[s.State.IP] {
			fmt.Fprintf(w, "breakpoint hit at IP=0x%04X\n", s.State.IP)
			return
		}
		err, keepGoing := s.step()
		rec.Snapshot(fmt.Sprintf("ip:%04x", s.State.IP), s.State)
		count++
		if err != nil {
			fmt.Fprintf(w, "fault after %d instructions: %v\n", count, err)
			return
		}
		if !keepGoing {
			fmt.Fprintf(w, "machine halted after %d instructions\n", count)
			return
		}
	}
	fmt.Fprintf(w, "ran %d instructions\n", count)
}

func doSetBreak(w io.Writer, s *session, line string) {
	arg := strings.TrimSpace(strings.TrimPrefix(line, ":break "))
	v, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 16)
	if err != nil {
		fmt.Fprintf(w, "bad address %q: %v\n", arg, err)
		return
	}
	s.breakpoints[uint16(v)] = true
	fmt.Fprintf(w, "breakpoint set at 0x%04X\n", v)
}

func doCopy(w io.Writer, s *session, clipboardReady bool) {
	dump := s.State.DumpedRegFlags()
	if !clipboardReady {
		fmt.Fprintln(w, "clipboard unavailable on this system; dump follows:")
		fmt.Fprintln(w, dump)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(dump))
	fmt.Fprintln(w, "register dump copied to clipboard")
}
