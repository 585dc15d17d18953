package repl

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"sort"
	"strings"

	uuid "github.com/google/uuid"
)

// REPL struct.
type REPL struct {
	commands map[string]func(string, *REPLConfig) error
	help     map[string]string
}

// REPL Config struct.
type REPLConfig struct {
	writer   io.Writer
	clientId uuid.UUID
}

// Construct a REPL config for driving commands outside of Run.
func NewReplConfig(writer io.Writer, clientId uuid.UUID) *REPLConfig {
	return &REPLConfig{writer: writer, clientId: clientId}
}

// Get writer.
func (replConfig *REPLConfig) GetWriter() io.Writer {
	return replConfig.writer
}

// Get client id.
func (replConfig *REPLConfig) GetAddr() uuid.UUID {
	return replConfig.clientId
}

// Construct an empty REPL.
func NewRepl() *REPL {
	return &REPL{
		commands: make(map[string]func(string, *REPLConfig) error),
		help:     make(map[string]string),
	}
}

// Add a command, along with its help string, to the set of commands.
func (r *REPL) AddCommand(trigger string, action func(string, *REPLConfig) error, help string) {
	r.commands[trigger] = action
	r.help[trigger] = help
}

// Get commands.
func (r *REPL) GetCommands() map[string]func(string, *REPLConfig) error {
	return r.commands
}

// Return all REPL usage information as a string, sorted by trigger.
func (r *REPL) HelpString() string {
	triggers := make([]string, 0, len(r.help))
	for k := range r.help {
		triggers = append(triggers, k)
	}
	sort.Strings(triggers)
	var sb strings.Builder
	for _, k := range triggers {
		sb.WriteString(fmt.Sprintf("%s: %s\n", k, r.help[k]))
	}
	return sb.String()
}

// Run the REPL until EOF; stdin and stdout are used if no conn is given.
func (r *REPL) Run(c net.Conn, clientId uuid.UUID, prompt string) {
	var reader io.Reader = os.Stdin
	var writer io.Writer = os.Stdout
	if c != nil {
		reader = c
		writer = c
	}
	scanner := bufio.NewScanner(reader)
	replConfig := &REPLConfig{writer: writer, clientId: clientId}
	io.WriteString(writer, prompt)
	for scanner.Scan() {
		// The trigger is case-insensitive; the payload is passed through
		// verbatim so commands can treat their arguments literally.
		payload := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(payload)
		if len(fields) == 0 {
			io.WriteString(writer, prompt)
			continue
		}
		trigger := strings.ToLower(fields[0])
		if trigger == ".help" {
			io.WriteString(writer, r.HelpString())
			io.WriteString(writer, prompt)
			continue
		}
		if command, exists := r.commands[trigger]; exists {
			if err := command(payload, replConfig); err != nil {
				io.WriteString(writer, fmt.Sprintf("%v\n", err))
			}
		} else {
			io.WriteString(writer, "command not found\n")
		}
		io.WriteString(writer, prompt)
	}
	// Print an additional line if we encountered an EOF character.
	io.WriteString(writer, "\n")
}
