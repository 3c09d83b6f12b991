package kernel

import (
	"fmt"
	"strconv"
	"strings"
)

// TaskConfig is the scheduling metadata for one task, decoded from a
// `[[task]]` table. It carries no behavior — a host can match Name
// against an actual kernel.Task implementation it constructs separately
// and pass both to RegisterFromConfig; cmd/vrtkernel-sim instead looks
// entries up with TaskSetConfig.Lookup and calls RegisterTask itself.
type TaskConfig struct {
	Name         string
	Priority     int
	Period       float64
	Deadline     float64
	DeadlineKind string
}

// TaskSetConfig is the top-level decode target for a task-set TOML
// document: a `[[task]]` array of tables, one per registered task.
type TaskSetConfig struct {
	Tasks []TaskConfig
}

// LoadTaskSet parses a task-set document: zero or more `[[task]]`
// tables, each a flat run of `key = value` lines. Values are either a
// bare number (priority, period, deadline) or a double-quoted string
// (name, deadline_kind); `#` starts a line comment outside a quoted
// string. This covers exactly the shape a task-set file needs — no
// nested tables, inline tables, arrays, or dotted keys — rather than
// decoding through a general-purpose TOML library for five flat fields.
func LoadTaskSet(data []byte) (TaskSetConfig, error) {
	var cfg TaskSetConfig
	var current *TaskConfig

	for i, raw := range strings.Split(string(data), "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}

		if line == "[[task]]" {
			cfg.Tasks = append(cfg.Tasks, TaskConfig{})
			current = &cfg.Tasks[len(cfg.Tasks)-1]
			continue
		}

		if current == nil {
			return TaskSetConfig{}, invalidArgument("task set config line %d: %q outside any [[task]] table", lineNo, line)
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return TaskSetConfig{}, invalidArgument("task set config line %d: expected key = value, got %q", lineNo, line)
		}
		if err := current.setField(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return TaskSetConfig{}, invalidArgument("task set config line %d: %s", lineNo, err)
		}
	}

	return cfg, nil
}

func (c *TaskConfig) setField(key, value string) error {
	switch key {
	case "name":
		s, err := unquote(value)
		if err != nil {
			return fmt.Errorf("name: %w", err)
		}
		c.Name = s
	case "deadline_kind":
		s, err := unquote(value)
		if err != nil {
			return fmt.Errorf("deadline_kind: %w", err)
		}
		c.DeadlineKind = s
	case "priority":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("priority: %w", err)
		}
		c.Priority = n
	case "period":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("period: %w", err)
		}
		c.Period = f
	case "deadline":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("deadline: %w", err)
		}
		c.Deadline = f
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

func unquote(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("expected a double-quoted string, got %q", raw)
	}
	return raw[1 : len(raw)-1], nil
}

// stripComment cuts a line at its first unquoted '#'.
func stripComment(line string) string {
	inQuote := false
	for i, r := range line {
		switch r {
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}

// Lookup returns the TaskConfig with the given Name, if present.
func (cfg TaskSetConfig) Lookup(name string) (TaskConfig, bool) {
	for _, t := range cfg.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return TaskConfig{}, false
}

// ParseDeadlineKind maps a config string ("", "none", "soft", "hard",
// case-insensitive) to a DeadlineKind.
func ParseDeadlineKind(s string) (DeadlineKind, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return DeadlineNone, nil
	case "soft":
		return DeadlineSoft, nil
	case "hard":
		return DeadlineHard, nil
	default:
		return DeadlineNone, invalidArgument("unknown deadline_kind %q", s)
	}
}

// RegisterFromConfig resolves cfg's DeadlineKind and registers task with
// the scheduling parameters cfg carries.
func (k *Kernel) RegisterFromConfig(task Task, cfg TaskConfig) (*TCB, error) {
	kind, err := ParseDeadlineKind(cfg.DeadlineKind)
	if err != nil {
		return nil, err
	}
	return k.RegisterTask(task, cfg.Priority, cfg.Period, cfg.Deadline, kind)
}
