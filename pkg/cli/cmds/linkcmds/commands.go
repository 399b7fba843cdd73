// Package linkcmds provides shell commands writing to the device.
package linkcmds

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mculink/pkg/cli/sh"
)

func init() {
	sh.AddCmds(&SendCmd, &SendHexCmd)
}

var (
	// SendCmd writes argument text as raw bytes.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "TEXT",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("TEXT required"))
				return
			}
			data := []byte(strings.Join(c.Args, " "))
			if err := sh.ShellFrom(c).Conn.Write(data); err != nil {
				c.Err(err)
			}
		}),
	}

	// SendHexCmd writes hex encoded bytes.
	SendHexCmd = ishell.Cmd{
		Name:    "sendhex",
		Aliases: []string{"x"},
		Help:    "HEXBYTES (e.g. 0a14)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("HEXBYTES required"))
				return
			}
			data, err := hex.DecodeString(strings.Join(c.Args, ""))
			if err != nil {
				c.Err(fmt.Errorf("invalid HEXBYTES: %v", err))
				return
			}
			if err := sh.ShellFrom(c).Conn.Write(data); err != nil {
				c.Err(err)
			}
		}),
	}
)
