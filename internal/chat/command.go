package chat

import "strings"

type CommandKind int

const (
	CommandUser CommandKind = iota
	CommandExit
	CommandClear
	CommandRegenerate
	CommandSystem
)

const (
	cmdClear      = "/clearctx"
	cmdRegenerate = "/regenerate"
	cmdSystem     = "/system "
)

// Command is one parsed line of console input.
type Command struct {
	Kind CommandKind
	Text string
}

// ParseCommand interprets a line read from the console. Only the line terminator is
// stripped; anything that is not a recognised command is a literal user message.
func ParseCommand(line string) Command {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	switch {
	case line == "":
		return Command{Kind: CommandExit}
	case line == cmdClear:
		return Command{Kind: CommandClear}
	case line == cmdRegenerate:
		return Command{Kind: CommandRegenerate}
	case strings.HasPrefix(line, cmdSystem):
		return Command{Kind: CommandSystem, Text: strings.TrimPrefix(line, cmdSystem)}
	}
	return Command{Kind: CommandUser, Text: line}
}
