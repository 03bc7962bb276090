package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if snap := a.session.Snapshot(); snap.Authenticated() {
		s = snap.User.Name + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root restores the persisted session, starts the connectivity watcher and
// runs the REPL until the user leaves.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to ZeroBalance CLI (type 'help' for commands)")

	a.session.Init(ctx)
	snap := a.session.Snapshot()
	switch {
	case snap.LastError != "":
		printlnFn(snap.LastError)
	case snap.Authenticated():
		printlnFn(fmt.Sprintf("Signed in as %s <%s>", snap.User.Name, snap.User.Email))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
