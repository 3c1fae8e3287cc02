package cluster

import (
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/lni/dragonboat/v4/logger"
)

// --------------------------------------------------------------------------
// Severity and Stack
// --------------------------------------------------------------------------

// Severity is the library-wide log level, ordered from quietest to most
// verbose.
type Severity int

const (
	SeveritySilent Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
	SeverityDump
)

func (s Severity) String() string {
	switch s {
	case SeveritySilent:
		return "silent"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityDump:
		return "dump"
	default:
		return "unknown"
	}
}

// level maps the severity onto the logger's levels. Silent keeps only
// critical output since the logger has no full-off level.
func (s Severity) level() logger.LogLevel {
	switch s {
	case SeveritySilent:
		return logger.CRITICAL
	case SeverityError:
		return logger.ERROR
	case SeverityWarning:
		return logger.WARNING
	case SeverityInfo:
		return logger.INFO
	case SeverityDump:
		return logger.DEBUG
	default:
		return logger.WARNING
	}
}

// Stack selects which layer loggers a severity change applies to.
type Stack int

const (
	StackAll Stack = iota
	StackClient
	StackStore
	StackComm
)

func (s Stack) String() string {
	switch s {
	case StackAll:
		return "all"
	case StackClient:
		return "client"
	case StackStore:
		return "store"
	case StackComm:
		return "comm"
	default:
		return "unknown"
	}
}

// loggers returns the named layer loggers a stack covers.
func (s Stack) loggers() []string {
	switch s {
	case StackClient:
		return []string{"cluster", "session", "command"}
	case StackStore:
		return []string{"store"}
	case StackComm:
		return []string{"rpc", "transport/rpc"}
	default:
		return []string{"cluster", "session", "command", "store", "rpc", "transport/rpc"}
	}
}

// --------------------------------------------------------------------------
// Level Control
// --------------------------------------------------------------------------

// SetLogLevel applies a severity to all loggers of the selected stack and
// forwards the change to any provider that supports native level control.
func SetLogLevel(severity Severity, stack Stack, providers ...provider.Provider) {
	for _, name := range stack.loggers() {
		logger.GetLogger(name).SetLevel(severity.level())
	}
	for _, p := range providers {
		if setter, ok := p.(provider.LogLevelSetter); ok {
			setter.SetLogLevel(stack.String(), severity.String())
		}
	}
}
