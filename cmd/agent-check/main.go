// Command agent-check verifies the agent wiring outside the UI: it builds the
// same model/toolset/checkpointer assembly and runs the canned demo queries
// sequentially on a single thread, printing each reply.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/marketlens/research-agent/internal/agent"
	"github.com/marketlens/research-agent/internal/provider"
	"github.com/marketlens/research-agent/internal/toolbox"
	"github.com/marketlens/research-agent/memory"
	"github.com/marketlens/research-agent/tools"
)

func main() {
	if err := provider.EnsureAPIKey(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	tb := toolbox.New(os.Getenv("RA_TOOLBOX_URL"))
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

	a := agent.New(provider.NewGeminiClient(), provider.Model(), defs, memory.NewInMemorySaver())
	const threadID = "thread-1"

	for _, q := range agent.DemoQueries {
		if ctx.Err() != nil {
			break
		}
		fmt.Printf("\n%s:\n\n", q)
		reply, err := a.Invoke(ctx, threadID, q)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("> %s\n", reply)
		fmt.Println("------------------------------------")
	}
}
