package transform

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	starlib "go.starlark.net/starlark"

	"github.com/julianshen/dotnetdocs/internal/model"
)

// ScriptFunction is the global a transform script must define:
//
//	def transform(kind, name, field, text):
//	    return text.replace("TODO", "")
//
// Returning None leaves the text unchanged.
const ScriptFunction = "transform"

// Script runs a Starlark script over every prose field of a model.
type Script struct {
	name   string
	logger *log.Logger
	fn     starlib.Callable
}

// compile-time check: Script implements Transformer.
var _ Transformer = (*Script)(nil)

// LoadScript reads and executes the script at path. The script runs once at
// load time with a log(message) builtin predeclared; it must define
// transform(kind, name, field, text).
func LoadScript(path string, logger *log.Logger) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read starlark transform %q: %w", path, err)
	}
	return NewScript(path, src, logger)
}

// NewScript executes src, using path for error positions.
func NewScript(path string, src []byte, logger *log.Logger) (*Script, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Script{
		name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		logger: logger,
	}

	thread := &starlib.Thread{Name: s.name}
	predeclared := starlib.StringDict{
		"log": starlib.NewBuiltin("log", s.builtinLog),
	}
	globals, err := starlib.ExecFile(thread, path, src, predeclared)
	if err != nil {
		return nil, fmt.Errorf("execute starlark %q: %w", path, err)
	}

	fn, ok := globals[ScriptFunction].(starlib.Callable)
	if !ok {
		return nil, fmt.Errorf("starlark transform %q does not define %s(kind, name, field, text)", path, ScriptFunction)
	}
	s.fn = fn
	return s, nil
}

// Name returns "script:<file name>".
func (s *Script) Name() string { return "script:" + s.name }

// Transform calls the script's transform function for every prose field.
// Cancelling ctx interrupts a running script.
func (s *Script) Transform(ctx context.Context, asm *model.DocAssembly) error {
	thread := &starlib.Thread{Name: s.name}
	stop := context.AfterFunc(ctx, func() { thread.Cancel(ctx.Err().Error()) })
	defer stop()

	return Walk(ctx, asm, func(kind, name, field string, text *string) error {
		args := starlib.Tuple{
			starlib.String(kind),
			starlib.String(name),
			starlib.String(field),
			starlib.String(*text),
		}
		result, err := starlib.Call(thread, s.fn, args, nil)
		if err != nil {
			return fmt.Errorf("%s %s %s: %w", kind, name, field, err)
		}
		switch v := result.(type) {
		case starlib.NoneType:
		case starlib.String:
			*text = string(v)
		default:
			return fmt.Errorf("%s %s %s: %s returned %s, want string or None", kind, name, field, ScriptFunction, result.Type())
		}
		return nil
	})
}

// builtinLog implements the log(message) builtin.
func (s *Script) builtinLog(
	thread *starlib.Thread,
	fn *starlib.Builtin,
	args starlib.Tuple,
	kwargs []starlib.Tuple,
) (starlib.Value, error) {
	var msg string
	if err := starlib.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &msg); err != nil {
		return nil, err
	}
	s.logger.Printf("[transform:%s] %s", s.name, msg)
	return starlib.None, nil
}
