package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"fishdetector/internal/dto"
	"fishdetector/internal/model"
	"fishdetector/internal/repository/sqlite"
)

func main() {
	dbPath := flag.String("db", "data/runs.db", "Database path")
	limit := flag.Int("limit", 10, "Number of recent runs to list")
	runID := flag.String("run", "", "Show the frame results of one run")
	deleteID := flag.String("delete", "", "Delete a run and its frame results")
	asJSON := flag.Bool("json", false, "Print JSON instead of text")
	flag.Parse()

	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		log.Fatalf("Database %s does not exist", *dbPath)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	runs := sqlite.NewRunRepository(db)
	frames := sqlite.NewFrameResultRepository(db)

	switch {
	case *deleteID != "":
		if err := runs.Delete(*deleteID); err != nil {
			log.Fatalf("Failed to delete run: %v", err)
		}
		fmt.Printf("🗑️  Deleted run %s\n", *deleteID)

	case *runID != "":
		run, err := runs.GetByID(*runID)
		if err != nil {
			log.Fatalf("Failed to get run: %v", err)
		}
		if run == nil {
			log.Fatalf("Run %s not found", *runID)
		}
		results, err := frames.GetByRunID(*runID)
		if err != nil {
			log.Fatalf("Failed to get frame results: %v", err)
		}
		if *asJSON {
			printJSON(dto.RunDetails{Run: *run, Frames: results})
			return
		}
		fmt.Printf("Run %s (%s) winner: %s, left: %d, right: %d\n", run.ID, run.Source, run.Winner, run.Left, run.Right)
		if stored := model.TallyResults(results); stored.Left != run.Left || stored.Right != run.Right {
			fmt.Printf("  ⚠️  stored frames count left: %d, right: %d\n", stored.Left, stored.Right)
		}
		for _, r := range results {
			line := fmt.Sprintf("  #%-4d %-5s", r.FrameIndex, r.Side)
			if r.Area > 0 {
				line += fmt.Sprintf(" box (%d, %d) %dx%d area %d", r.X, r.Y, r.Width, r.Height, r.Area)
			}
			if r.Degenerate {
				line += " whole frame"
			}
			if r.Error != "" {
				line += " ⚠️  " + r.Error
			}
			fmt.Println(line)
		}

	default:
		recent, err := runs.GetRecent(*limit)
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		stats, err := runs.GetStats()
		if err != nil {
			log.Fatalf("Failed to get stats: %v", err)
		}
		if *asJSON {
			printJSON(map[string]any{"runs": recent, "stats": stats})
			return
		}

		if len(recent) == 0 {
			fmt.Println("No runs recorded yet")
			return
		}
		for _, r := range recent {
			fmt.Printf("%s  %s  %-6s left: %-4d right: %-4d frames: %-4d %s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.ID, r.Winner, r.Left, r.Right, r.Frames, r.Source)
		}

		fmt.Printf("\n📊 Database Statistics:\n")
		fmt.Printf("   Total runs: %d\n", stats.TotalRuns)
		fmt.Printf("   Total frames: %d\n", stats.TotalFrames)
		fmt.Printf("   Wins:\n")
		for side, count := range stats.Wins {
			fmt.Printf("      - %s: %d runs\n", side, count)
		}
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to encode JSON: %v", err)
	}
}
