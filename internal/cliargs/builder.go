package cliargs

import (
	"fmt"
	"sort"
	"strings"
)

// Options maps option names (underscore or hyphen spelling) to their typed
// values. Names are normalized to hyphen spelling at encode time.
type Options map[string]Value

// Merge overlays other on top of o and returns the merged set. Values in
// other win; o is not modified.
func (o Options) Merge(other Options) Options {
	merged := make(Options, len(o)+len(other))
	for k, v := range o {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// subcommandBearing lists commands whose first positional argument is a
// sub-command keyword and must be placed before the option tokens.
var subcommandBearing = map[string]bool{
	"workspace": true,
}

// varOption is the option whose map value is passed through a temporary
// tfvars file instead of inline text.
const varOption = "var"

// Builder assembles complete command invocations:
//
//	[binary, global options..., command words..., sub-command?, options..., positionals...]
//
// Option tokens always precede positional arguments. Option keys are
// encoded in sorted order; terraform does not care about option order, and
// sorting keeps the output stable.
type Builder struct {
	binPath  string
	varFiles *VarFiles
}

// NewBuilder returns a Builder for the given binary path. Temporary var
// files created while encoding are registered with varFiles; the caller
// owns their cleanup.
func NewBuilder(binPath string, varFiles *VarFiles) *Builder {
	return &Builder{binPath: binPath, varFiles: varFiles}
}

// Build produces the full token sequence for one invocation. Global
// options (such as chdir) come before the command words; command options
// come after them and before the positional arguments. Multi-word commands
// are split on whitespace. No validation of option names is performed;
// unknown options pass through and legality is the subprocess's problem.
func (b *Builder) Build(global Options, command string, args []string, opts Options) ([]string, error) {
	tokens := []string{b.binPath}

	globalTokens, err := b.encode(global)
	if err != nil {
		return nil, err
	}
	tokens = append(tokens, globalTokens...)

	tokens = append(tokens, strings.Fields(command)...)

	if subcommandBearing[command] && len(args) > 0 {
		tokens = append(tokens, args[0])
		args = args[1:]
	}

	optTokens, err := b.encode(opts)
	if err != nil {
		return nil, err
	}
	tokens = append(tokens, optTokens...)

	tokens = append(tokens, args...)
	return tokens, nil
}

// encode turns an option set into CLI tokens, applying one fixed rule per
// value kind.
func (b *Builder) encode(opts Options) ([]string, error) {
	if len(opts) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}
	sort.Strings(names)

	var tokens []string
	for _, rawName := range names {
		value := opts[rawName]
		name := strings.ReplaceAll(rawName, "_", "-")

		switch value.Kind() {
		case KindNil, KindNoFlag:
			// Skipped entirely.

		case KindFlag:
			tokens = append(tokens, "-"+name)

		case KindBool:
			literal := "false"
			if value.b {
				literal = "true"
			}
			tokens = append(tokens, fmt.Sprintf("-%s=%s", name, literal))

		case KindString:
			tokens = append(tokens, fmt.Sprintf("-%s=%s", name, value.s))

		case KindList:
			for _, element := range value.list {
				tokens = append(tokens, fmt.Sprintf("-%s=%s", name, element))
			}

		case KindMap:
			mapped, err := b.encodeMap(name, value)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, mapped...)

		default:
			return nil, fmt.Errorf("option %s: unknown value kind %d", rawName, value.Kind())
		}
	}
	return tokens, nil
}

// encodeMap handles the two recognized map-valued options. backend-config
// maps are flattened inline; var maps are written to a temporary tfvars
// file so nested values survive shell quoting. An empty var map emits
// nothing, since terraform rejects an empty var file.
func (b *Builder) encodeMap(name string, value Value) ([]string, error) {
	if strings.Contains(name, "backend-config") {
		var tokens []string
		for _, key := range value.sortedMapKeys() {
			tokens = append(tokens, fmt.Sprintf("-%s=%s=%v", name, key, value.m[key]))
		}
		return tokens, nil
	}

	if name == varOption {
		if len(value.m) == 0 {
			return nil, nil
		}
		if b.varFiles == nil {
			return nil, fmt.Errorf("option %s: no var file manager configured", name)
		}
		path, err := b.varFiles.Create(value.m)
		if err != nil {
			return nil, err
		}
		return []string{"-var-file=" + path}, nil
	}

	return nil, fmt.Errorf("option %s: map values are only supported for var and backend-config", name)
}
