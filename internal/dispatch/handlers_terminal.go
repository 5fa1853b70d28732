package dispatch

import (
	"context"
	"encoding/json"

	"github.com/kiri-dev/kiri/internal/terminal"
)

type createTerminalArgs struct {
	Cwd  string `json:"cwd"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

func handleCreateTerminal(d *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a createTerminalArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Cols == 0 {
		a.Cols = 80
	}
	if a.Rows == 0 {
		a.Rows = 24
	}
	id, err := d.terminals.Create(a.Cwd, a.Cols, a.Rows)
	if err != nil {
		return nil, err
	}
	return string(id), nil
}

type writeTerminalArgs struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

func handleWriteTerminal(d *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a writeTerminalArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, d.terminals.Write(terminal.ID(a.ID), []byte(a.Data))
}

type resizeTerminalArgs struct {
	ID   string `json:"id"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

func handleResizeTerminal(d *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a resizeTerminalArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, d.terminals.Resize(terminal.ID(a.ID), a.Cols, a.Rows)
}

type closeTerminalArgs struct {
	ID string `json:"id"`
}

func handleCloseTerminal(d *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a closeTerminalArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, d.terminals.Close(terminal.ID(a.ID))
}
