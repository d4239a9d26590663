package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/domain"
	"drawbridge/internal/metrics"
	"drawbridge/internal/params"
)

// AuditEntry records one dispatched command for the history log.
type AuditEntry struct {
	Command    string
	Params     map[string]any
	OK         bool
	ErrorKind  string
	Error      string
	DurationMS int64
}

// Auditor persists dispatch records. Failures are logged and never abort
// the command.
type Auditor interface {
	Record(ctx context.Context, e AuditEntry) error
}

// Dispatcher resolves command names and runs handlers against the document.
// It guarantees the caller always gets either a Result or an error — no
// handler panic or unclassified failure escapes.
type Dispatcher struct {
	reg    *Registry
	doc    domain.Document
	audit  Auditor
	logger *slog.Logger
}

func NewDispatcher(reg *Registry, doc domain.Document, audit Auditor, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, doc: doc, audit: audit, logger: logger}
}

// Dispatch runs one command to completion. There is no retry, queueing, or
// cancellation beyond ctx propagation into blocking document calls.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw map[string]any) (Result, error) {
	start := time.Now()
	res, err := d.dispatch(ctx, name, raw)
	elapsed := time.Since(start)

	metrics.CommandsTotal.Inc()
	metrics.DispatchLatency.Observe(elapsed.Seconds())
	if err != nil {
		metrics.CommandFailures.Inc()
	}

	d.record(ctx, name, raw, err, elapsed)

	if err != nil {
		kind := cmderr.KindOf(err)
		d.logger.Warn("command failed", "command", name, "kind", string(kind), "err", err)
		return nil, &cmderr.Error{Kind: kind, Message: fmt.Sprintf("command %s", name), Err: err}
	}
	return res, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, raw map[string]any) (res Result, err error) {
	cmd, ok := d.reg.Get(name)
	if !ok {
		return nil, cmderr.Newf(cmderr.UnknownCommand, "unknown command: %s", name)
	}

	if cmd.RequiresEditable && !d.doc.Editable() {
		return nil, cmderr.Newf(cmderr.WrongMode, "command %s requires an editable document", name)
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = cmderr.Newf(cmderr.Generic, "handler panic: %v", r)
		}
	}()

	res, err = cmd.Handler(ctx, d.doc, params.New(raw))
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = Result{}
	}
	if _, ok := res["success"]; !ok {
		res["success"] = true
	}
	return res, nil
}

func (d *Dispatcher) record(ctx context.Context, name string, raw map[string]any, err error, elapsed time.Duration) {
	if d.audit == nil {
		return
	}
	entry := AuditEntry{
		Command:    name,
		Params:     raw,
		OK:         err == nil,
		DurationMS: elapsed.Milliseconds(),
	}
	if err != nil {
		entry.ErrorKind = string(cmderr.KindOf(err))
		entry.Error = err.Error()
	}
	if aerr := d.audit.Record(ctx, entry); aerr != nil {
		d.logger.Warn("audit record failed", "command", name, "err", aerr)
	}
}
