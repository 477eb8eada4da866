package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"brainrot/config"
	"brainrot/types"
)

// ProcessFromDirectory renders every .txt and .json file in dir, at most
// config.MaxConcurrentRenders at a time. A .txt file holds the script; a
// .json file holds a types.RenderRequest. Failures are logged and returned
// together once every file has been attempted.
func (p *Processor) ProcessFromDirectory(ctx context.Context, dir string) error {
	jsonFiles, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to read JSON files: %w", err)
	}
	txtFiles, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return fmt.Errorf("failed to read txt files: %w", err)
	}
	allFiles := append(jsonFiles, txtFiles...)

	if len(allFiles) == 0 {
		log.Printf("No JSON or TXT files found in %s", dir)
		return nil
	}
	log.Printf("Found %d videos to process", len(allFiles))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	semaphore := make(chan struct{}, config.MaxConcurrentRenders)

	for i, file := range allFiles {
		wg.Add(1)
		go func(idx int, file string) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(file), ctx.Err()))
				mu.Unlock()
				return
			}
			defer func() { <-semaphore }()

			log.Printf("[%d/%d] Processing: %s", idx+1, len(allFiles), filepath.Base(file))
			out, err := p.processFile(ctx, file)
			if err != nil {
				log.Printf("Failed to process %s: %v", file, err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(file), err))
				mu.Unlock()
				return
			}
			log.Printf("[%d/%d] Saved: %s", idx+1, len(allFiles), out)
		}(i, file)
	}

	wg.Wait()
	log.Println("All videos processed!")
	return errors.Join(errs...)
}

func (p *Processor) processFile(ctx context.Context, file string) (string, error) {
	req, err := ReadRequest(file)
	if err != nil {
		return "", err
	}
	return p.Render(ctx, req)
}

// ReadRequest loads a render request from a .txt script or a .json request
// file. The request id defaults to the file name without extension.
func ReadRequest(file string) (types.RenderRequest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return types.RenderRequest{}, fmt.Errorf("failed to read input: %w", err)
	}

	var req types.RenderRequest
	if strings.EqualFold(filepath.Ext(file), ".json") {
		if err := json.Unmarshal(data, &req); err != nil {
			return types.RenderRequest{}, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else {
		req.Text = string(data)
	}

	if req.ID == "" {
		req.ID = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return req, nil
}
