package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/weberc2/blockfs/pkg/api"
	"github.com/weberc2/blockfs/pkg/filesystem"
	"github.com/weberc2/blockfs/pkg/log"
	pz "github.com/weberc2/httpeasy"
)

func (c *Config) Serve(ctx context.Context) error {
	logger := log.FromContext(ctx)
	fs, err := c.FileSystem(logger)
	if err != nil {
		return err
	}
	service := api.FileSystemService{
		FileSystem: filesystem.NewSynchronized(fs),
	}

	logger.Info("listening", "addr", c.Addr, "device", c.Device)
	if err := http.ListenAndServe(
		c.Addr,
		pz.Register(pz.JSONLog(os.Stderr), service.Routes()...),
	); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
