package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LogEmitter writes one line per event to writer, either as JSONL or as
// human-readable key=value text. It keeps no internal buffer: every call
// writes synchronously, so Flush is a no-op.
type LogEmitter struct {
	writer io.Writer
	json   bool
}

// NewLogEmitter returns a LogEmitter writing to writer (os.Stdout if nil)
// in JSONL when jsonMode is true, or text otherwise.
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogEmitter{writer: writer, json: jsonMode}
}

// Emit writes a single event line.
func (l *LogEmitter) Emit(event Event) {
	if l.json {
		l.writeJSON(event)
		return
	}
	l.writeText(event)
}

// EmitBatch writes each event in order with the same formatting Emit uses.
func (l *LogEmitter) EmitBatch(_ context.Context, events []Event) error {
	for _, event := range events {
		l.Emit(event)
	}
	return nil
}

// Flush is a no-op: LogEmitter never buffers. Wrap writer in a
// bufio.Writer and flush that directly if buffering is wanted.
func (l *LogEmitter) Flush(_ context.Context) error {
	return nil
}

type logLine struct {
	RunID  string                 `json:"runID"`
	Step   int                    `json:"step"`
	NodeID string                 `json:"nodeID"`
	Msg    string                 `json:"msg"`
	Meta   map[string]interface{} `json:"meta"`
}

func (l *LogEmitter) writeJSON(event Event) {
	data, err := json.Marshal(logLine{
		RunID:  event.RunID,
		Step:   event.Step,
		NodeID: event.NodeID,
		Msg:    event.Msg,
		Meta:   event.Meta,
	})
	if err != nil {
		fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogEmitter) writeText(event Event) {
	fmt.Fprintf(l.writer, "[%s] runID=%s step=%d nodeID=%s", event.Msg, event.RunID, event.Step, event.NodeID)
	if len(event.Meta) > 0 {
		if metaJSON, err := json.Marshal(event.Meta); err == nil {
			fmt.Fprintf(l.writer, " meta=%s", metaJSON)
		} else {
			fmt.Fprintf(l.writer, " meta=%v", event.Meta)
		}
	}
	fmt.Fprint(l.writer, "\n")
}
