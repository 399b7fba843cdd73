package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mculink/pkg/env"
	"github.com/robotalks/mculink/pkg/link"
	"github.com/robotalks/mculink/pkg/link/serial"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoOpen    bool

	Shell  *ishell.Shell
	Config *env.Config
	Conn   *link.Conn
}

const (
	shellKey           = "$shell"
	disconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&OpenCmd,
		&CloseCmd,
		&StateCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Conn = link.New(&serial.Dialer{}, link.ListenerFuncs{
		OnDisconnected: func(string) {
			s.Shell.SetPrompt(disconnectedPrompt)
		},
		OnPacketReceived: func(_, source string, packet []byte) {
			s.Shell.Printf("<< % x\n", packet)
		},
	}, link.WithDivider(conf.MustDividerByte()))
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(disconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requiring an open link.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn.State() != link.StateConnected {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// WithAutoOpen sets AutoOpen.
func (s *Shell) WithAutoOpen(en bool) *Shell {
	s.AutoOpen = en
	return s
}

// SelectPort enumerates ports and asks for a choice when more than one
// is available.
func (s *Shell) SelectPort() (string, error) {
	ports, err := s.Conn.ListPorts()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", nil
	}
	var index int
	if len(ports) > 1 {
		if !s.Interactive {
			return "", fmt.Errorf("more than 1 ports available in non-interactive mode")
		}
		index = s.Shell.MultiChoice(ports, "Which port to open?")
	}
	return ports[index], nil
}

// Open opens a port and updates the prompt. It accepts the loosely
// typed argument form of link.Conn.Connect.
func (s *Shell) Open(params ...interface{}) error {
	if err := s.Conn.Connect(params...); err != nil {
		return err
	}
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", s.Conn.Port()))
	return nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoOpen && s.Config.Port != "" {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", s.Config.Port)
		}
		if err := s.Open(s.Config.Port, s.Config.Baud); err != nil {
			log.Fatalf("open %q failed: %v", s.Config.Port, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd lists available serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ports, err := s.Conn.ListPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(ports) == 0 {
					// in case ports is nil, make it empty slice.
					ports = []string{}
				}
				out, err := json.Marshal(ports)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(ports) == 0 {
				c.Println("No ports found")
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}

	// OpenCmd opens a port.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"c", "connect"},
		Help:    "[PORT [BAUD]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			params := make([]interface{}, 0, 2)
			if len(c.Args) > 0 {
				params = append(params, c.Args[0])
			} else {
				port, err := s.SelectPort()
				if err != nil {
					c.Err(err)
					return
				}
				if port == "" {
					c.Err(fmt.Errorf("no ports found"))
					return
				}
				params = append(params, port)
			}
			if len(c.Args) > 1 {
				baud, err := strconv.Atoi(c.Args[1])
				if err != nil {
					c.Err(fmt.Errorf("invalid BAUD: %v", err))
					return
				}
				params = append(params, baud)
			}
			if err := s.Open(params...); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes the link.
	CloseCmd = ishell.Cmd{
		Name:    "close",
		Aliases: []string{"d", "disconnect"},
		Help:    "",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Conn.Close(); err != nil {
				c.Err(err)
			}
		},
	}

	// StateCmd prints the link state.
	StateCmd = ishell.Cmd{
		Name:    "state",
		Aliases: []string{"st"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			state, port := s.Conn.State(), s.Conn.Port()
			if s.OutputJSON {
				out, err := json.Marshal(map[string]string{
					"state": state.String(),
					"port":  port,
				})
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if port != "" {
				c.Printf("%s %s\n", state, port)
				return
			}
			c.Println(state.String())
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoOpen(true).Run(flag.Args()...)
}
