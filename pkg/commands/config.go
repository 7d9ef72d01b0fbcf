package commands

import (
	"io"
)

// Config is the configuration shared by all commands.
type Config struct {
	IsQuiet bool
	Stdout  io.Writer
}
