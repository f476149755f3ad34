package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"i4.energy/across/tofterm/command"
)

const (
	clearScreen = "\x1b[H\x1b[2J"
	banner      = "**************************************************\r\n"
	pressAnyKey = "\r\n -- Press any key to continue --\r\n"
	exiting     = "\r\n\r\nExiting...\r\n"
)

// Colour is forced on since the menu goes to the serial line, not stdout.
var (
	titleColor    = newColor(color.FgHiBlue, color.Bold)
	selectorColor = newColor(color.FgGreen)
	promptColor   = newColor(color.FgYellow)
)

func newColor(attrs ...color.Attribute) func(format string, a ...any) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.SprintfFunc()
}

// menu renders the character protocol menu.
func menu() string {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(banner)
	b.WriteString(titleColor("*%s*", centre("Pmod ToF - Demo", len(banner)-4)) + "\r\n")
	b.WriteString(banner)
	b.WriteString("\r\nSelect one of the available commands displayed below\r\n\r\n")
	for _, e := range command.Entries() {
		fmt.Fprintf(&b, " %s - %s - %s\r\n", selectorColor("%c", e.Selector), e.Keyword, e.Description)
	}
	fmt.Fprintf(&b, " %s - Quit\r\n", selectorColor("%c", command.QuitSelector))
	b.WriteString("\r\n")
	b.WriteString(banner)
	b.WriteString("\r\n" + promptColor("Enter a selection") + "\r\n\r\n")
	return b.String()
}

func centre(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}

// runMenu drives the character protocol until the operator quits or ctx is
// done. A receive timeout redraws the menu. Every other key, a bare line
// end included, is taken as a selector.
func runMenu(ctx context.Context, port command.Port, in *command.Interpreter) error {
	for {
		if err := port.SendString(menu()); err != nil {
			return err
		}

		c, err := in.ReadKey(ctx)
		if err != nil {
			if timedOut(ctx, err) {
				continue
			}
			return err
		}
		quit, err := in.ProcessSelector(ctx, c)
		if err != nil {
			return err
		}
		if quit {
			return port.SendString(exiting)
		}

		if err := port.SendString(promptColor(pressAnyKey)); err != nil {
			return err
		}
		if _, err := in.ReadKey(ctx); err != nil && !timedOut(ctx, err) {
			return err
		}
	}
}

// runKeyword drives the keyword protocol until ctx is done or the line
// fails.
func runKeyword(ctx context.Context, in *command.Interpreter) error {
	for {
		if err := in.CheckForCommand(ctx); err != nil {
			if timedOut(ctx, err) {
				continue
			}
			return err
		}
	}
}

// timedOut reports whether err is a receive timeout rather than the end of
// ctx.
func timedOut(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil
}
