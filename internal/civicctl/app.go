// Package civicctl implements the operator command-line tool: interactive
// account registration against a running server, plus snapshot backup and
// restore of the flat-file tables.
package civicctl

import (
	"io"
	"net/http"
	"time"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/logging"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/backup"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/config"
)

type App struct {
	config  *config.Config
	baseURL string
	client  *http.Client
	backup  *backup.Service
	out     io.Writer
}

func NewApp(cfg *config.Config, baseURL string, logger logging.Logger, out io.Writer) *App {
	return &App{
		config:  cfg,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		backup:  backup.NewService(cfg, logger),
		out:     out,
	}
}
