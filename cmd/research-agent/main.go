// Command research-agent serves the investment research chat UI: it loads the
// remote toolset from the toolbox server, assembles the agent, and serves the
// web chat on -addr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketlens/research-agent/internal/agent"
	"github.com/marketlens/research-agent/internal/provider"
	"github.com/marketlens/research-agent/internal/toolbox"
	"github.com/marketlens/research-agent/internal/webui"
	"github.com/marketlens/research-agent/memory"
	"github.com/marketlens/research-agent/tools"
)

func main() {
	addr := flag.String("addr", ":8501", "listen address for the chat UI")
	toolboxURL := flag.String("toolbox-url", "", "toolbox server URL (default $RA_TOOLBOX_URL, then "+toolbox.DefaultBaseURL+")")
	checkpointDB := flag.String("checkpoint-db", "", "SQLite checkpoint path (empty keeps checkpoints in memory)")
	flag.Parse()

	if err := provider.EnsureAPIKey(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)

	url := *toolboxURL
	if url == "" {
		url = os.Getenv("RA_TOOLBOX_URL")
	}
	tb := toolbox.New(url)
	ts, err := tb.LoadToolset(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load toolset: %v\n", err)
		os.Exit(1)
	}
	defs, err := tools.FromToolset(ts, tb)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build tool definitions: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("loaded %d tools from %s\n", len(defs), tb.BaseURL())

	var saver memory.Saver = memory.NewInMemorySaver()
	if *checkpointDB != "" {
		s, err := memory.NewSQLiteSaver(ctx, *checkpointDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open checkpoint database: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()
		saver = s
	}

	a := agent.New(provider.NewGeminiClient(), provider.Model(), defs, saver)
	srv := &http.Server{
		Addr:    *addr,
		Handler: webui.NewServer(a, agent.DemoQueries).Handler(),
	}

	go func() {
		<-sigch
		fmt.Println("\nShutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: shutdown: %v\n", err)
		}
		cancel()
	}()

	fmt.Printf("chat UI listening on %s\n", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		os.Exit(1)
	}
}
