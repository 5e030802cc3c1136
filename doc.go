// Package curtain provides end-to-end testing for terminal programs.
//
// curtain runs a real command on a pseudo-terminal, reconstructs the screen
// a user would see with a built-in terminal emulator, and asserts on that
// screen's text and colors. Assertions retry until they hold or time out,
// so tests need no ad hoc sleeps.
//
// # Quick Start
//
//	func TestMyApp(t *testing.T) {
//		term := curtain.Open(t, "./my-app --color")
//		curtain.Expect(t, term.GetByText("ready>")).ToBeVisible()
//		term.Submit("hello")
//		curtain.Expect(t, term.GetByText("echo: hello")).ToBeVisible()
//		curtain.Expect(t, term.GetByText("error")).ToHaveFgColor("red")
//	}
//
// [Open] kills the process through t.Cleanup. Outside of tests, use [New],
// [Terminal.Start] and [Terminal.Kill].
//
// # Sessions
//
// A [Terminal] owns one child process, one pty and one background reader
// that decodes output into the emulated screen. The screen is guarded by a
// lock; every accessor returns a copy, so reads are consistent snapshots
// while output keeps arriving. After the process exits or is killed the
// screen stays readable.
//
// Every process gets TERM=xterm-256color and COLUMNS/LINES matching the
// terminal size. [WithEnv] entries override the inherited environment and
// these hints. [WithSuppressStderr] discards the program's standard error.
//
// # Locators
//
// [Terminal.GetByText] and [Terminal.GetByRegexp] return a [Locator], a
// query that is re-evaluated against the combined buffer (scrollback then
// viewport) on every access. Literal searches find overlapping occurrences;
// [FullLine] matches whole rows ignoring surrounding whitespace.
//
// # Assertions
//
// [Expect] wraps a locator and [ExpectTerminal] wraps a terminal. Wait
// behavior:
//
//   - Defaults: 5s timeout, 100ms poll interval
//   - Per-terminal overrides: [WithTimeout], [WithPollInterval]
//   - Per-call overrides: [WithinTimeout], [WithWaitPollInterval]
//   - Poll intervals under 10ms are clamped to 10ms
//   - Negative timeout or poll values fail immediately
//
// Failures include the full screen text. [TerminalAssertions.WaitFor]
// accepts the screen [Matcher] helpers [Text], [Regexp], [Line],
// [LineContains], [Not], [All], [Any], [Empty] and [Cursor].
//
// # Snapshots
//
// [Terminal.Snapshot] renders the viewport as a bordered block that is
// byte-identical for identical screens. [TerminalAssertions.MatchSnapshot]
// compares it with a golden file under testdata; set CURTAIN_UPDATE=1 to
// create or update golden files.
//
// # Requirements
//
//   - Go 1.24+
//   - Linux or macOS
//   - /bin/sh for [WithSuppressStderr], or CURTAIN_SHELL
package curtain
