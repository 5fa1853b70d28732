package dispatch

import (
	"context"
	"encoding/json"

	"github.com/kiri-dev/kiri/internal/fsops"
)

func handleReadDirectory(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Path string `json:"path"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return fsops.ReadDirectory(a.Path)
}

func handleReadFile(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Path string `json:"path"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return fsops.ReadFile(a.Path)
}

func handleWriteFile(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, fsops.WriteFile(a.Path, a.Content)
}

func handleGetHomeDirectory(_ *Dispatcher, _ context.Context, _ json.RawMessage) (any, error) {
	return fsops.GetHomeDirectory()
}

func handleDeletePath(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Path string `json:"path"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, fsops.DeletePath(a.Path)
}

func handleRevealInFinder(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Path string `json:"path"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, fsops.RevealInFinder(a.Path)
}

func handleCopyPathsToDirectory(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Sources []string `json:"sources"`
		Target  string   `json:"target"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return fsops.CopyPathsToDirectory(a.Sources, a.Target), nil
}

func handleMovePath(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Source string `json:"source"`
		Target string `json:"target"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return fsops.MovePath(a.Source, a.Target)
}

func handleSearchFiles(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Root       string `json:"root"`
		Query      string `json:"query"`
		MaxResults int    `json:"maxResults"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return fsops.SearchFiles(a.Root, a.Query, a.MaxResults)
}

func handleSearchContent(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Root       string `json:"root"`
		Query      string `json:"query"`
		MaxResults int    `json:"maxResults"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return fsops.SearchContent(a.Root, a.Query, a.MaxResults)
}
