package curtain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/cboone/curtain"
)

func ExampleOpen() {
	_ = func(t *testing.T) {
		term := curtain.Open(t, "./my-app --verbose",
			curtain.WithSize(120, 40),
			curtain.WithTimeout(10*time.Second),
		)
		curtain.Expect(t, term.GetByText("Welcome")).ToBeVisible()
	}
}

func ExampleExpect() {
	_ = func(t *testing.T) {
		term := curtain.Open(t, "./my-app")
		curtain.Expect(t, term.GetByText("Name:")).ToBeVisible()
		_ = term.Submit("Alice")
		curtain.Expect(t, term.GetByText("Saved")).ToHaveFgColor("green")
		curtain.Expect(t, term.GetByText("Error")).NotToBeVisible(curtain.WithinTimeout(time.Second))
	}
}

func ExampleTerminalAssertions_MatchSnapshot() {
	_ = func(t *testing.T) {
		term := curtain.Open(t, "./my-app")
		curtain.ExpectTerminal(t, term).WaitFor(curtain.Text("Dashboard"))
		curtain.ExpectTerminal(t, term).MatchSnapshot("dashboard")
	}
}

func ExampleNew() {
	term := curtain.New("printf 'hello\\nworld'", curtain.WithSize(10, 3))
	if err := term.Start(); err != nil {
		fmt.Println(err)
		return
	}
	defer term.Kill()

	if _, err := term.Wait(5 * time.Second); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(term.Snapshot())
	// Output:
	// ╭──────────╮
	// │hello     │
	// │world     │
	// │          │
	// ╰──────────╯
}
