//go:build windows

// entity_dump attaches to the game once, extracts a single snapshot and
// prints every record with its projected screen position.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"mwoverlay/config"
	"mwoverlay/entity"
	"mwoverlay/geom"
	"mwoverlay/overlay"
	"mwoverlay/process"
)

func main() {
	configDir := flag.String("config", ".", "directory containing mwoverlay.json")
	repeat := flag.Int("n", 1, "number of snapshots to dump")
	every := flag.Duration("every", time.Second, "delay between snapshots")
	verbose := flag.Bool("v", false, "log skipped entities")
	flag.Parse()

	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║     MORROWIND ENTITY DUMP             ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()

	settings, err := config.Load(*configDir)
	if err != nil {
		fail("config: %v", err)
	}

	target, err := process.Attach(settings.Process.Name, settings.Process.Module)
	if err != nil {
		fail("%v\nMake sure Morrowind is running!", err)
	}
	defer target.Close()
	fmt.Printf("[OK] %s PID: %d, module base: 0x%X\n", target.Name, target.PID, target.ModuleBase())

	area, err := overlay.GetClientArea(settings.Window.Title)
	if err != nil || area.Empty() {
		fmt.Printf("[WARN] Client area unavailable (%v), projecting onto 1400x1050\n", err)
		area = overlay.ClientArea{Width: 1400, Height: 1050}
	}
	fmt.Printf("[OK] Client area: %s\n\n", area)

	log := zerolog.Nop()
	if *verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.TraceLevel)
	}
	x := entity.NewExtractor(target, target.ModuleBase(), settings.Offsets(), log)

	for i := 0; i < *repeat; i++ {
		if i > 0 {
			time.Sleep(*every)
		}
		snap, err := x.Extract()
		if err != nil {
			fmt.Printf("[ERROR] %v\n", err)
			continue
		}
		dump(&snap, area)
	}
}

func dump(snap *entity.Snapshot, area overlay.ClientArea) {
	fmt.Printf("=== %s | %d entities (%d NPCs), %d skipped ===\n",
		snap.TakenAt.Format("15:04:05.000"), len(snap.Entities), snap.NPCs(), snap.Skipped)
	for r := 0; r < 4; r++ {
		row := snap.Matrix.Row(r)
		fmt.Printf("  M[%d] % 10.4f % 10.4f % 10.4f % 10.4f\n", r, row[0], row[1], row[2], row[3])
	}
	fmt.Println()

	for _, rec := range snap.Entities {
		kind := "ENT"
		health := "-"
		if rec.IsNPC() {
			kind = "NPC"
			health = fmt.Sprintf("%.1f", *rec.Health)
		}

		screen := "off-screen"
		if p, ok := geom.Project(rec.Position, snap.Matrix, float64(area.Width), float64(area.Height)); ok {
			screen = fmt.Sprintf("(%.0f, %.0f)", p.X, p.Y)
		}

		fmt.Printf("  0x%08X %s %-32s pos=(%.1f, %.1f, %.1f) hp=%-7s screen=%s\n",
			rec.Address, kind, rec.Name, rec.Position.X, rec.Position.Y, rec.Position.Z, health, screen)
	}
	fmt.Println()
}

func fail(format string, args ...any) {
	fmt.Printf("[ERROR] "+format+"\n", args...)
	os.Exit(1)
}
