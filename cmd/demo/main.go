package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"brainrot/demo/tui"
	"brainrot/pipeline"
	"brainrot/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("url", "http://localhost:8081", "Render API URL")
	input := flag.String("input", "", "Script file (.txt or .json request)")
	text := flag.String("text", "", "Script text (used when -input is empty)")
	publish := flag.Bool("publish", false, "Publish the finished video")
	flag.Parse()

	req := types.RenderRequest{Text: *text, Publish: *publish}
	if *input != "" {
		r, err := pipeline.ReadRequest(*input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		r.ID = ""
		r.Publish = r.Publish || *publish
		req = r
	}
	if req.Text == "" {
		fmt.Fprintln(os.Stderr, "Error: provide -input or -text")
		os.Exit(2)
	}

	program := tea.NewProgram(tui.NewModel(*apiURL, req))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
