// Copyright 2025 Sieve Data
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	sift "github.com/sievedata/sift"
	"github.com/sievedata/sift/ai"
	"github.com/sievedata/sift/archive"
	"github.com/sievedata/sift/core"
	"github.com/sievedata/sift/pipeline"
	"github.com/sievedata/sift/search"
	"github.com/sievedata/sift/vectorize"
)

func main() {
	app := &cli.App{
		Name:  "sift",
		Usage: "Chunk, tag, and embed transcripts and documents for semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Process a transcript or document file and queue it for embedding",
				ArgsUsage: "FILE (use - for stdin)",
				Action:    ingestCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title (defaults to the file name)",
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Document kind (meeting, document, email, chat)",
						Value: string(core.KindDocument),
					},
					&cli.StringFlag{
						Name:  "archive-dir",
						Usage: "Directory to archive raw source text into (archiving off when empty)",
					},
				),
			},
			{
				Name:   "process",
				Usage:  "Run the embedding worker until the task queue is drained",
				Action: processCommand,
				Flags: append(append(dbFlags(), embeddingFlags()...),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of tasks to claim per batch",
						Value: 10,
					},
					&cli.DurationFlag{
						Name:  "batch-pause",
						Usage: "Pause between embedding sub-batches",
						Value: 300 * time.Millisecond,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed store writes",
						Value: 3,
					},
				),
			},
			{
				Name:   "status",
				Usage:  "Show document and task queue status",
				Action: statusCommand,
				Flags:  dbFlags(),
			},
			{
				Name:      "search",
				Usage:     "Semantic search over embedded chunks",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(append(dbFlags(), embeddingFlags()...),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum cosine similarity for a match",
						Value: search.DefaultMinSimilarity,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
			EnvVars:  []string{"SIFT_DB"},
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"SIFT_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"SIFT_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "embedding-token",
			Usage:   "Embedding service API token",
			Value:   "none",
			EnvVars: []string{"SIFT_EMBEDDING_TOKEN"},
		},
	}
}

func openDatabase(c *cli.Context) (*sift.Database, error) {
	config := aiConfigFromFlags(c)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}
	db, err := sift.NewDatabase(c.String("db"), sift.WithAIConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	opts := []ai.ConfigOption{}
	if host := c.String("embedding-host"); host != "" {
		opts = append(opts, ai.WithHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithModel(model))
	}
	if token := c.String("embedding-token"); token != "" {
		opts = append(opts, ai.WithToken(token))
	}
	return ai.NewConfig(opts...)
}

func parseKind(value string) (core.DocumentKind, error) {
	switch core.DocumentKind(strings.ToLower(value)) {
	case core.KindMeeting:
		return core.KindMeeting, nil
	case core.KindDocument:
		return core.KindDocument, nil
	case core.KindEmail:
		return core.KindEmail, nil
	case core.KindChat:
		return core.KindChat, nil
	default:
		return "", fmt.Errorf("invalid kind %q: must be one of meeting, document, email, chat", value)
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one FILE argument")
	}
	source := c.Args().First()

	kind, err := parseKind(c.String("kind"))
	if err != nil {
		return err
	}

	var text []byte
	title := c.String("title")
	if source == "-" {
		text, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		if title == "" {
			title = "stdin"
		}
	} else {
		text, err = os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", source, err)
		}
		if title == "" {
			title = source
		}
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var pipelineOpts []pipeline.Option
	if dir := c.String("archive-dir"); dir != "" {
		archiver, archErr := archive.NewFilesystem(dir)
		if archErr != nil {
			return archErr
		}
		pipelineOpts = append(pipelineOpts, pipeline.WithArchiver(archiver))
	}

	p, err := db.NewPipeline(pipelineOpts...)
	if err != nil {
		return err
	}
	defer p.Release()

	doc := &core.Document{Title: title, Kind: kind}
	result, err := p.Process(ctx, doc, string(text))
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Document:      %d (%s)\n", result.Document.Id, result.Document.Title)
	fmt.Fprintf(os.Stderr, "Chunks:        %d\n", len(result.Chunks))
	fmt.Fprintf(os.Stderr, "Entities:      %d\n", len(result.Entities))
	fmt.Fprintf(os.Stderr, "Relationships: %d\n", len(result.Relationships))
	return nil
}

func processCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	maxRetries := c.Int("max-retries")
	if maxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	worker, err := db.NewWorker(
		vectorize.WithBatchPause(c.Duration("batch-pause")),
		vectorize.WithWriteRetry(maxRetries, 100*time.Millisecond),
	)
	if err != nil {
		return err
	}

	initialDue, err := countDueTasks(ctx, db)
	if err != nil {
		return err
	}
	if initialDue == 0 {
		fmt.Fprintln(os.Stderr, "Queue empty.")
		return nil
	}

	tracker := vectorize.NewProgressTracker(os.Stderr, initialDue, 1)
	tracker.Start()

	for {
		completed, batchErr := worker.ProcessBatch(ctx, batchSize)
		if batchErr != nil {
			return fmt.Errorf("processing failed: %w", batchErr)
		}
		tracker.Increment(completed)

		due, dueErr := countDueTasks(ctx, db)
		if dueErr != nil {
			return dueErr
		}
		if due == 0 {
			break
		}
		if completed == 0 {
			// Every remaining due task failed this round; stop rather than
			// spinning on a dead provider.
			fmt.Fprintf(os.Stderr, "%d tasks still due but none completed; stopping\n", due)
			return nil
		}
	}

	tracker.Finish()
	return nil
}

// countDueTasks counts pending tasks whose ScheduledFor has passed.
func countDueTasks(ctx context.Context, db *sift.Database) (int, error) {
	tasks, err := db.Store().ListTasks(ctx)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	due := 0
	for _, task := range tasks {
		if task.Status == core.TaskPending && !task.ScheduledFor.After(now) {
			due++
		}
	}
	return due, nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	docs, err := db.Store().ListDocuments(ctx)
	if err != nil {
		return err
	}
	embedded := 0
	for _, doc := range docs {
		if doc.EmbeddingComplete {
			embedded++
		}
	}

	tasks, err := db.Store().ListTasks(ctx)
	if err != nil {
		return err
	}
	byStatus := map[core.TaskStatus]int{}
	for _, task := range tasks {
		byStatus[task.Status]++
	}

	fmt.Printf("Documents: %d (%d fully embedded)\n", len(docs), embedded)
	fmt.Printf("Tasks:     %d pending, %d processing, %d completed, %d failed\n",
		byStatus[core.TaskPending], byStatus[core.TaskProcessing],
		byStatus[core.TaskCompleted], byStatus[core.TaskFailed])
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.Args().Len() == 0 {
		return fmt.Errorf("expected a QUERY argument")
	}
	query := strings.Join(c.Args().Slice(), " ")

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.Search(ctx, query, c.Int("limit"), float32(c.Float64("min-similarity")))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%2d. [%.3f] doc=%d pos=%g %s\n", i+1, result.Score,
			result.Chunk.DocumentId, result.Chunk.Position, snippet(result.Chunk.Content, 120))
	}
	return nil
}

func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

func setup(c *cli.Context) error {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
