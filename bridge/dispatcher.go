// Package bridge runs batches of named sheet commands against a sheetbridge.Client.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	sheetbridge "github.com/ideamans/go-sheetbridge"
)

// Status is the outcome of one command
type Status string

const (
	StatusOK      Status = "ok"
	StatusError   Status = "error"
	StatusPending Status = "pendiente" // the action is not implemented
)

// Command is one entry of a batch
type Command struct {
	Action Action          `json:"accion"`
	Sheet  string          `json:"hoja,omitempty"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// Request is the body of a batch
type Request struct {
	Commands []Command `json:"comandos"`
}

// Result is the outcome of one command. Output is only written for ok results,
// Message only for the others.
type Result struct {
	Action  Action
	Status  Status
	Output  interface{}
	Message string
}

// MarshalJSON writes {accion, status, salida} or {accion, status, mensaje}
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Status == StatusOK {
		return json.Marshal(struct {
			Action Action      `json:"accion"`
			Status Status      `json:"status"`
			Output interface{} `json:"salida"`
		}{r.Action, r.Status, r.Output})
	}

	return json.Marshal(struct {
		Action  Action `json:"accion"`
		Status  Status `json:"status"`
		Message string `json:"mensaje"`
	}{r.Action, r.Status, r.Message})
}

// UnmarshalJSON reads results written by MarshalJSON
func (r *Result) UnmarshalJSON(b []byte) error {
	var wire struct {
		Action  Action      `json:"accion"`
		Status  Status      `json:"status"`
		Output  interface{} `json:"salida"`
		Message string      `json:"mensaje"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	*r = Result{
		Action:  wire.Action,
		Status:  wire.Status,
		Output:  wire.Output,
		Message: wire.Message,
	}
	return nil
}

// Response is the reply to a batch
type Response struct {
	Results []Result `json:"resultados"`
}

// Dispatcher executes commands one after another
type Dispatcher struct {
	client *sheetbridge.Client
	log    logrus.FieldLogger
}

// NewDispatcher creates a dispatcher over client. A nil logger uses the standard logrus logger.
func NewDispatcher(client *sheetbridge.Client, log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Dispatcher{
		client: client,
		log:    log,
	}
}

// WithLogger returns a copy of the dispatcher logging to log
func (d *Dispatcher) WithLogger(log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		client: d.client,
		log:    log,
	}
}

// Handle runs every command of the request. A failing command never stops the batch.
func (d *Dispatcher) Handle(ctx context.Context, request Request) Response {
	results := make([]Result, 0, len(request.Commands))

	for i, command := range request.Commands {
		log := d.log.WithFields(logrus.Fields{
			"command": i,
			"accion":  command.Action,
			"hoja":    command.Sheet,
		})

		result := d.Run(ctx, command)

		entry := log.WithField("status", result.Status)
		switch result.Status {
		case StatusOK:
			entry.Info("command done")
		case StatusPending:
			entry.Warn("command not implemented")
		default:
			entry.WithField("mensaje", result.Message).Error("command failed")
		}

		results = append(results, result)
	}

	return Response{Results: results}
}

// Run executes a single command
func (d *Dispatcher) Run(ctx context.Context, command Command) (result Result) {
	result.Action = command.Action

	h, ok := handlers[command.Action]
	if !ok {
		result.Status = StatusPending
		result.Message = fmt.Sprintf("action %q is not implemented", command.Action)
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("accion", command.Action).Errorf("command panicked: %v", r)
			result.Status = StatusError
			result.Output = nil
			result.Message = fmt.Sprintf("internal error: %v", r)
		}
	}()

	start := time.Now()
	output, err := h(ctx, d.client, command.Sheet, command.Args)
	d.log.WithFields(logrus.Fields{
		"accion":   command.Action,
		"duration": time.Since(start),
	}).Debug("command executed")

	if err != nil {
		result.Status = StatusError
		result.Message = err.Error()
		return result
	}

	result.Status = StatusOK
	result.Output = output
	return result
}
