package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kiri-dev/kiri/internal/qrcode"
)

func handleStartRemoteServer(d *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Port int `json:"port"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if d.remote == nil {
		return nil, fmt.Errorf("start_remote_server: remote server not configured")
	}
	return nil, d.remote.Start(a.Port)
}

func handleStopRemoteServer(d *Dispatcher, _ context.Context, _ json.RawMessage) (any, error) {
	if d.remote == nil {
		return nil, fmt.Errorf("stop_remote_server: remote server not configured")
	}
	return nil, d.remote.Stop()
}

func handleIsRemoteServerRunning(d *Dispatcher, _ context.Context, _ json.RawMessage) (any, error) {
	if d.remote == nil {
		return false, nil
	}
	return d.remote.IsRunning(), nil
}

func handleGenerateRemoteQRCode(d *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Port int    `json:"port"`
		Host string `json:"host"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if d.remote == nil {
		return nil, fmt.Errorf("generate_remote_qr_code: remote server not configured")
	}
	host := a.Host
	if host == "" {
		host = "localhost"
	}
	url := fmt.Sprintf("http://%s:%d/%s", host, a.Port, d.remote.Token())
	return qrcode.GenerateDataURI(url)
}

func handleRegenerateRemoteToken(d *Dispatcher, _ context.Context, _ json.RawMessage) (any, error) {
	if d.remote == nil {
		return nil, fmt.Errorf("regenerate_remote_token: remote server not configured")
	}
	return d.remote.RegenerateToken(), nil
}
