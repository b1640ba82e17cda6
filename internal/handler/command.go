package handler

import (
	"strings"
)

type CommandType int

const (
	CmdPair CommandType = iota
	CmdPartner
	CmdBreakup
	CmdWish
	CmdRob
	CmdLock
	CmdAdvancedOn
	CmdAdvancedOff
	CmdMenu
	CmdAdminReset
	CmdAdminBlock
	CmdAdminCooldown
)

type Command struct {
	Type CommandType
	Arg  string
}

// adminOnly reports whether the command requires the admin token.
func (c *Command) adminOnly() bool {
	switch c.Type {
	case CmdAdvancedOn, CmdAdvancedOff, CmdAdminReset, CmdAdminBlock, CmdAdminCooldown:
		return true
	}
	return false
}

func parseCommand(text string) *Command {
	trimmed := strings.TrimSpace(text)

	switch trimmed {
	case "/pair":
		return &Command{Type: CmdPair}
	case "/partner":
		return &Command{Type: CmdPartner}
	case "/breakup":
		return &Command{Type: CmdBreakup}
	case "/lock":
		return &Command{Type: CmdLock}
	case "/menu":
		return &Command{Type: CmdMenu}
	case "/advanced on":
		return &Command{Type: CmdAdvancedOn}
	case "/advanced off":
		return &Command{Type: CmdAdvancedOff}
	}

	if arg, ok := strings.CutPrefix(trimmed, "/wish "); ok {
		return &Command{Type: CmdWish, Arg: cleanTarget(arg)}
	}
	if arg, ok := strings.CutPrefix(trimmed, "/rob "); ok {
		return &Command{Type: CmdRob, Arg: cleanTarget(arg)}
	}
	if arg, ok := strings.CutPrefix(trimmed, "/admin reset"); ok {
		return &Command{Type: CmdAdminReset, Arg: strings.TrimSpace(arg)}
	}
	if arg, ok := strings.CutPrefix(trimmed, "/admin block "); ok {
		return &Command{Type: CmdAdminBlock, Arg: cleanTarget(arg)}
	}
	if arg, ok := strings.CutPrefix(trimmed, "/admin cooldown "); ok {
		return &Command{Type: CmdAdminCooldown, Arg: strings.TrimSpace(arg)}
	}

	return nil
}

// cleanTarget normalizes a "@12345" style mention to a bare id.
func cleanTarget(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "@")
}
