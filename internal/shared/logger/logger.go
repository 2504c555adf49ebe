package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Level: DEBUG, INFO, WARN, ERROR
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func levelString(l Level) string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ErrObj attaches error details to ERROR entries
type ErrObj struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack,omitempty"`
}

// Entry — единая схема лог-записи для всех сервисов
type Entry struct {
	Timestamp  string         `json:"timestamp"`            // ISO 8601 (UTC)
	Level      string         `json:"level"`                // INFO | DEBUG | WARN | ERROR
	Service    string         `json:"service"`              // e.g., booking-service
	Action     string         `json:"action"`               // event name, e.g., booking_created
	Message    string         `json:"message"`              // human-readable
	Hostname   string         `json:"hostname"`             // container/host
	RequestID  string         `json:"request_id,omitempty"` // correlation id
	BookingID  string         `json:"booking_id,omitempty"` // when applicable
	VehicleID  string         `json:"vehicle_id,omitempty"` // when applicable
	Error      *ErrObj        `json:"error,omitempty"`      // only for ERROR
	Additional map[string]any `json:"additional,omitempty"` // optional extras
}

type Logger struct {
	service  string
	minLevel Level
	hostname string
	pretty   bool // если true, json.MarshalIndent для локальной отладки

	outWriter io.Writer
	errWriter io.Writer
	mu        sync.Mutex

	// optional dev file writers
	infoFile io.Closer
	errFile  io.Closer
}

// NewLogger stdout-only (recommended for prod)
func NewLogger(service string) *Logger {
	h, _ := os.Hostname()
	return &Logger{
		service:   service,
		minLevel:  LevelInfo,
		hostname:  h,
		pretty:    strings.ToLower(os.Getenv("LOG_PRETTY")) == "true",
		outWriter: os.Stdout,
		errWriter: os.Stderr,
	}
}

// NewLoggerWithOptions supports minLevel and optional fileDir (dev).
// If fileDir != "", entries are duplicated into files (info.log, error.log).
func NewLoggerWithOptions(service, minLevelStr, fileDir string) (*Logger, error) {
	l := NewLogger(service)
	l.minLevel = ParseLevel(minLevelStr)

	if fileDir == "" {
		return l, nil
	}

	if err := os.MkdirAll(fileDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	infoF, err := os.OpenFile(filepath.Join(fileDir, "info.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open info log: %w", err)
	}
	errF, err := os.OpenFile(filepath.Join(fileDir, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o666)
	if err != nil {
		_ = infoF.Close()
		return nil, fmt.Errorf("open error log: %w", err)
	}

	l.outWriter = io.MultiWriter(os.Stdout, infoF)
	l.errWriter = io.MultiWriter(os.Stderr, errF)
	l.infoFile = infoF
	l.errFile = errF
	return l, nil
}

func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.infoFile != nil {
		_ = l.infoFile.Close()
	}
	if l.errFile != nil {
		_ = l.errFile.Close()
	}
}

func (l *Logger) Debug(e Entry) { l.log(LevelDebug, e, nil) }
func (l *Logger) Info(e Entry)  { l.log(LevelInfo, e, nil) }
func (l *Logger) Warn(e Entry)  { l.log(LevelWarn, e, nil) }
func (l *Logger) Error(e Entry) { l.log(LevelError, e, nil) }
func (l *Logger) Fatal(e Entry) {
	// include stack automatically for fatal
	if e.Error == nil {
		e.Error = &ErrObj{Msg: e.Message, Stack: string(debug.Stack())}
	} else if e.Error.Stack == "" {
		e.Error.Stack = string(debug.Stack())
	}
	l.log(LevelError, e, nil)
	os.Exit(1)
}

// WithFields returns a shallow "context" logger that auto-merges Additional fields.
func (l *Logger) WithFields(base map[string]any) *ContextLogger {
	return &ContextLogger{parent: l, base: base}
}

// WithContext is a helper to attach request_id and booking_id.
func (l *Logger) WithContext(requestID, bookingID string) *ContextLogger {
	base := map[string]any{}
	if requestID != "" {
		base["request_id"] = requestID
	}
	if bookingID != "" {
		base["booking_id"] = bookingID
	}
	return &ContextLogger{parent: l, base: base}
}

type ContextLogger struct {
	parent *Logger
	base   map[string]any
}

func (c *ContextLogger) Debug(e Entry) { c.parent.log(LevelDebug, e, c.base) }
func (c *ContextLogger) Info(e Entry)  { c.parent.log(LevelInfo, e, c.base) }
func (c *ContextLogger) Warn(e Entry)  { c.parent.log(LevelWarn, e, c.base) }
func (c *ContextLogger) Error(e Entry) { c.parent.log(LevelError, e, c.base) }

func (l *Logger) log(level Level, e Entry, base map[string]any) {
	if level < l.minLevel {
		return
	}

	// fill required fields
	if e.Timestamp == "" {
		e.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if e.Level == "" {
		e.Level = levelString(level)
	}
	if e.Service == "" {
		e.Service = l.service
	}
	if e.Hostname == "" {
		e.Hostname = l.hostname
	}

	// merge base fields from ContextLogger
	if base != nil {
		for k, v := range base {
			switch k {
			case "request_id":
				if e.RequestID == "" {
					e.RequestID, _ = v.(string)
				}
			case "booking_id":
				if e.BookingID == "" {
					e.BookingID, _ = v.(string)
				}
			case "vehicle_id":
				if e.VehicleID == "" {
					e.VehicleID, _ = v.(string)
				}
			default:
				if e.Additional == nil {
					e.Additional = map[string]any{}
				}
				e.Additional[k] = v
			}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	writer := l.outWriter
	if level == LevelError {
		writer = l.errWriter
	}

	var b []byte
	var err error
	if l.pretty {
		b, err = json.MarshalIndent(e, "", "  ")
	} else {
		b, err = json.Marshal(e)
	}
	if err != nil {
		// fallback: plain text to errWriter
		fmt.Fprintf(l.errWriter, `{"timestamp":"%s","level":"error","service":"%s","message":"failed to marshal log: %v"}`+"\n",
			time.Now().UTC().Format(time.RFC3339Nano), l.service, err)
		return
	}

	_, _ = writer.Write(b)
	_, _ = writer.Write([]byte("\n"))
}
