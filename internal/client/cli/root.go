package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) getStatus() string {
	s := ""
	if a.session != nil {
		s = a.session.Email + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root prints the banner, starts the connectivity watcher and blocks in the
// REPL until the user exits or stdin is closed.
func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to gophauth CLI (type 'help' for commands)")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
