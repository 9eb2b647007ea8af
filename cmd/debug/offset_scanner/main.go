//go:build windows

// offset_scanner checks the configured offset table against a running game:
// it walks both root pointer chains link by link and dumps the raw fields of
// the first entity slots, before any name filtering.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"mwoverlay/config"
	"mwoverlay/entity"
	"mwoverlay/memory"
	"mwoverlay/process"
)

func main() {
	configDir := flag.String("config", ".", "directory containing mwoverlay.json")
	slots := flag.Int("slots", 16, "entity slots to dump")
	flag.Parse()

	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║     OFFSET SCANNER TOOL               ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()

	settings, err := config.Load(*configDir)
	if err != nil {
		fmt.Printf("[ERROR] config: %v\n", err)
		os.Exit(1)
	}
	o := settings.Offsets()

	target, err := process.Attach(settings.Process.Name, settings.Process.Module)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	defer target.Close()
	fmt.Printf("[OK] %s PID: %d, base: 0x%X, build: %s\n\n", target.Name, target.PID, target.ModuleBase(), settings.Build)

	x := entity.NewExtractor(target, target.ModuleBase(), o, zerolog.Nop())

	fmt.Println("=== Pointer chains ===")
	var array uintptr
	var count int
	for _, l := range x.Trace() {
		status := "OK"
		if l.Err != nil {
			status = l.Err.Error()
		}
		fmt.Printf("  %-13s [0x%08X] = 0x%08X  %s\n", l.Name, l.Addr, l.Value, status)
		switch {
		case l.Name == "entity array" && l.Err == nil:
			array = l.Value
		case l.Name == "count" && l.Err == nil:
			count = int(int32(l.Value))
		}
	}
	fmt.Println()

	if array == 0 {
		fmt.Println("[WARN] Entity array unreachable, nothing to dump")
		return
	}

	n := min(count, *slots)
	fmt.Printf("=== First %d of %d slots ===\n", n, count)
	for i := 0; i < n; i++ {
		dumpSlot(target, array, i, o)
	}
}

func dumpSlot(r memory.Reader, array uintptr, i int, o config.Offsets) {
	addr, err := memory.ReadPtr(r, array+uintptr(i*memory.SizePtr))
	if err != nil {
		fmt.Printf("  [%3d] slot read failed: %v\n", i, err)
		return
	}
	if addr == 0 {
		fmt.Printf("  [%3d] empty\n", i)
		return
	}

	raw := "?"
	if namePtr, err := memory.ReadPtr(r, addr+o.Name); err == nil && memory.IsValidPtr(namePtr) {
		if s, err := memory.ReadString(r, namePtr, o.NameSize); err == nil {
			raw = s
		}
	}
	clean, keep := entity.CleanName(raw, o.NameSize)
	verdict := fmt.Sprintf("-> %q", clean)
	if !keep {
		verdict = "-> ignored"
	}

	healthPtr, _ := memory.ReadPtr(r, addr+o.HealthPtr)
	fmt.Printf("  [%3d] 0x%08X name=%-34q %-20s health@0x%08X\n", i, addr, raw, verdict, healthPtr)
}
