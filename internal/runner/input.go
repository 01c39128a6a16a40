// internal/runner/input.go
package runner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianshen/dotnetdocs/internal/manager"
)

// ResolveInputs determines the assemblies to document.
// Priority: args > listFile > stdinReader > configured.
// stdinReader may be nil if stdin is a TTY (no pipe).
func ResolveInputs(args []string, listFile string, stdinReader io.Reader, configured []manager.Input) ([]manager.Input, error) {
	if len(args) > 0 {
		inputs := make([]manager.Input, 0, len(args))
		for _, a := range args {
			inputs = append(inputs, manager.ParseInput(a))
		}
		return inputs, nil
	}

	if listFile != "" {
		f, err := os.Open(listFile)
		if err != nil {
			return nil, fmt.Errorf("reading input list: %w", err)
		}
		defer f.Close()
		inputs, err := ReadInputs(f)
		if err != nil {
			return nil, fmt.Errorf("reading input list %s: %w", listFile, err)
		}
		if len(inputs) == 0 {
			return nil, fmt.Errorf("input list is empty: %s", listFile)
		}
		return inputs, nil
	}

	if stdinReader != nil {
		inputs, err := ReadInputs(stdinReader)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if len(inputs) > 0 {
			return inputs, nil
		}
	}

	if len(configured) > 0 {
		return configured, nil
	}
	return nil, fmt.Errorf("no assemblies given: pass assembly[:xml] arguments, use --from, or pipe a list to stdin")
}

// ReadInputs parses one assembly[:xml] per line. Blank lines and lines
// starting with # are skipped.
func ReadInputs(r io.Reader) ([]manager.Input, error) {
	var inputs []manager.Input
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, manager.ParseInput(line))
	}
	return inputs, sc.Err()
}
