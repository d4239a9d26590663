package handler

import (
	"context"
	"os"

	"drawbridge/internal/cmderr"
	"drawbridge/internal/command"
	"drawbridge/internal/domain"
	"drawbridge/internal/params"
)

func registerDocument(reg *command.Registry, d Deps) {
	reg.Register(command.Command{
		Name: "save_document", Doc: "Snapshot the document to a file",
		Handler: saveDocument,
	})
	reg.Register(command.Command{
		Name: "load_document", Doc: "Replace the document from a snapshot file",
		RequiresEditable: true, Handler: loadDocument,
	})
}

func asSnapshotter(doc domain.Document) (domain.Snapshotter, error) {
	s, ok := doc.(domain.Snapshotter)
	if !ok {
		return nil, cmderr.New(cmderr.Unsupported, "document does not support snapshots")
	}
	return s, nil
}

func saveDocument(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	s, err := asSnapshotter(doc)
	if err != nil {
		return nil, err
	}
	path, err := p.RequireString(fieldPath)
	if err != nil {
		return nil, err
	}
	data, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, cmderr.Wrap(cmderr.Generic, err, "write snapshot")
	}
	return command.Result{"success": true, "path": path, "bytes": len(data)}, nil
}

func loadDocument(ctx context.Context, doc domain.Document, p params.Bag) (command.Result, error) {
	s, err := asSnapshotter(doc)
	if err != nil {
		return nil, err
	}
	path, err := p.RequireString(fieldPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cmderr.Wrap(cmderr.Generic, err, "read snapshot")
	}
	if err := s.Restore(data); err != nil {
		return nil, err
	}
	return command.Result{"success": true, "path": path, "name": doc.Name()}, nil
}
