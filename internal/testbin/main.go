// Command testbin is a fixture program for testing the curtain library.
// Its first argument selects a behavior; with no argument it runs an
// interactive echo loop.
//
// Modes:
//   - (none): prints "ready>", then reads lines. "quit" prints "bye" and
//     exits 0, "fail" exits 1, "lines N" prints N numbered lines, "size"
//     prints the terminal size, and anything else is echoed as
//     "echo: <line>" before a new prompt.
//   - stderr N: prints N lines to stderr, then "Usage: tool" to stdout
//   - colors: prints words in assorted colors and attributes
//   - progress: redraws a progress line with carriage returns
//   - menu: a raw-mode menu driven by arrow keys and Enter
//   - signal: waits for Ctrl+C and exits with status 130
//   - env NAME: prints TERM, COLUMNS, LINES and $NAME
//   - size: prints the size now and after every SIGWINCH
//   - unicode: prints wide and combining characters
//   - table: prints a box-drawn table
//   - cursor: asks the terminal for the cursor position and prints it
//   - sleep: prints "sleeping" and sleeps for a minute
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"
)

func main() {
	mode, arg := "", ""
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	if len(os.Args) > 2 {
		arg = os.Args[2]
	}

	switch mode {
	case "":
		echo()
	case "stderr":
		n, _ := strconv.Atoi(arg)
		for i := 1; i <= n; i++ {
			fmt.Fprintf(os.Stderr, "error line %d\n", i)
		}
		fmt.Println("Usage: tool")
		waitForInput()
	case "colors":
		colors()
	case "progress":
		progress()
	case "menu":
		menu()
	case "signal":
		waitForSignal()
	case "env":
		fmt.Printf("TERM=%s\n", os.Getenv("TERM"))
		fmt.Printf("COLUMNS=%s\n", os.Getenv("COLUMNS"))
		fmt.Printf("LINES=%s\n", os.Getenv("LINES"))
		if arg != "" {
			fmt.Printf("%s=%s\n", arg, os.Getenv(arg))
		}
		waitForInput()
	case "size":
		watchSize()
	case "unicode":
		fmt.Println("wide: 中文字")
		fmt.Println("accent: cafe\u0301")
		fmt.Println("precomposed: caf\u00e9")
		fmt.Println("end")
		waitForInput()
	case "table":
		fmt.Println("┌──────┬──────┐")
		fmt.Println("│ name │ qty  │")
		fmt.Println("├──────┼──────┤")
		fmt.Println("│ foo  │ 1    │")
		fmt.Println("│ bar  │ 22   │")
		fmt.Println("└──────┴──────┘")
		waitForInput()
	case "cursor":
		cursorReport()
	case "sleep":
		fmt.Println("sleeping")
		time.Sleep(time.Minute)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", mode)
		os.Exit(2)
	}
}

func echo() {
	fmt.Print("ready>")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := scanner.Text()

		switch {
		case input == "quit":
			fmt.Println("bye")
			os.Exit(0)

		case input == "fail":
			os.Exit(1)

		case strings.HasPrefix(input, "lines "):
			countStr := strings.TrimPrefix(input, "lines ")
			count, parseErr := strconv.Atoi(countStr)
			if parseErr != nil {
				fmt.Printf("error: invalid count %q\n", countStr)
			} else {
				for i := 1; i <= count; i++ {
					fmt.Printf("line %d\n", i)
				}
			}
			fmt.Print("ready>")

		case input == "size":
			cols, rows, _ := term.GetSize(int(os.Stdout.Fd()))
			fmt.Printf("size: %dx%d\n", cols, rows)
			fmt.Print("ready>")

		default:
			fmt.Printf("echo: %s\n", input)
			fmt.Print("ready>")
		}
	}
}

// waitForInput keeps the process alive until stdin is closed or a line
// arrives.
func waitForInput() {
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}

func colors() {
	fmt.Println("\x1b[31mred\x1b[0m \x1b[32mgreen\x1b[0m \x1b[91mbright\x1b[0m")
	fmt.Println("\x1b[1;34mbold blue\x1b[0m \x1b[44;37mon blue\x1b[0m")
	fmt.Println("\x1b[38;5;208morange\x1b[0m \x1b[38;2;10;20;30mdeep\x1b[0m")
	fmt.Println("plain")
	waitForInput()
}

func progress() {
	for i := 0; i <= 100; i += 20 {
		fmt.Printf("\rprogress: %3d%%", i)
		time.Sleep(20 * time.Millisecond)
	}
	fmt.Print("\r\x1b[Kdone\n")
	waitForInput()
}

func menu() {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "raw mode: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(fd, state)

	items := []string{"apple", "banana", "cherry"}
	selected := 0
	draw := func() {
		var b strings.Builder
		b.WriteString("\x1b[H\x1b[2J")
		b.WriteString("Pick a fruit:\r\n")
		for i, item := range items {
			if i == selected {
				fmt.Fprintf(&b, "\x1b[7m> %s\x1b[0m\r\n", item)
			} else {
				fmt.Fprintf(&b, "  %s\r\n", item)
			}
		}
		os.Stdout.WriteString(b.String())
	}
	draw()

	buf := make([]byte, 16)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		switch in := string(buf[:n]); in {
		case "\x1b[A":
			selected = (selected + len(items) - 1) % len(items)
		case "\x1b[B":
			selected = (selected + 1) % len(items)
		case "\r":
			fmt.Printf("\x1b[H\x1b[2Jselected: %s\r\n", items[selected])
			return
		case "\x03":
			return
		}
		draw()
	}
}

func waitForSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	fmt.Println("waiting")
	<-sigCh
	fmt.Println("interrupted")
	os.Exit(130)
}

func watchSize() {
	fd := int(os.Stdout.Fd())
	show := func() {
		cols, rows, err := term.GetSize(fd)
		if err != nil {
			fmt.Printf("size: error %v\n", err)
			return
		}
		fmt.Printf("size: %dx%d\n", cols, rows)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	show()
	for range sigCh {
		show()
	}
}

func cursorReport() {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "raw mode: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.WriteString("abc\x1b[6n")

	buf := make([]byte, 32)
	n, _ := os.Stdin.Read(buf)
	term.Restore(fd, state)

	reply := strings.TrimSuffix(strings.TrimPrefix(string(buf[:n]), "\x1b["), "R")
	fmt.Printf("\ncursor: %s\n", reply)
	waitForInput()
}
