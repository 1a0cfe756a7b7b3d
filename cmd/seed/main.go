// Package main provides a tool to write settings into the configured store.
//
// It takes the same flags as the server, then field=value assignments after
// "--". Changes go through the settings engine, so validation and cascade
// rules apply exactly as they do for the app.
//
// Usage:
//
//	go run ./cmd/seed -store sqlite -- darkMode=true language=hi
//	go run ./cmd/seed -- masterNotifications=false   # also turns off the six dependents
//	go run ./cmd/seed -reset                          # restore the stock defaults
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/do/v2"

	"github.com/krishiapp/krishi-settings/internal/config"
	"github.com/krishiapp/krishi-settings/internal/di/providers"
	"github.com/krishiapp/krishi-settings/internal/domain"
	"github.com/krishiapp/krishi-settings/internal/logger"
	"github.com/krishiapp/krishi-settings/internal/settings"
)

func main() {
	args, assignments := splitArgs(os.Args[1:])

	reset := slices.Contains(args, "-reset") || slices.Contains(args, "--reset")
	args = slices.DeleteFunc(args, func(a string) bool { return a == "-reset" || a == "--reset" })

	changes, err := parseAssignments(assignments)
	if err != nil {
		log.Fatalf("Invalid assignment: %v", err)
	}
	if reset {
		changes = defaultsAsChanges()
	}
	if len(changes) == 0 {
		log.Fatal("Nothing to write. Pass field=value pairs after -- or use -reset.")
	}

	injector := do.New()
	do.Provide(injector, func(do.Injector) (*config.Config, error) { return config.Load(args) })
	do.Provide(injector, providers.ProvideLogFile)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideStore)
	defer func() { _ = injector.Shutdown() }()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg := do.MustInvoke[*logger.Logger](injector)
	storeHandle, err := do.Invoke[*providers.StoreHandle](injector)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	engine, err := settings.New(storeHandle, settings.Options{StoreTimeout: cfg.Engine.StoreTimeout}, lg.Logger)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := engine.Initialize(ctx); err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	before, _ := engine.Snapshot()

	if err := engine.SetMany(ctx, changes); err != nil {
		log.Fatalf("Failed to write settings: %v", err)
	}

	after, _ := engine.Snapshot()
	changed := before.Diff(after)
	fmt.Printf("Wrote %d field(s) to %s store %q\n", len(changed), cfg.Store.Driver, cfg.Store.Key)
	for _, f := range changed {
		fmt.Printf("  %-20s %v -> %v\n", f, before.Get(f), after.Get(f))
	}
}

// splitArgs separates config flags from the assignments after "--".
func splitArgs(all []string) (flags, assignments []string) {
	i := slices.Index(all, "--")
	if i < 0 {
		return all, nil
	}
	return all[:i], all[i+1:]
}

// parseAssignments turns field=value pairs into changes. Boolean fields
// take true/false; every other field takes the raw string.
func parseAssignments(pairs []string) (map[domain.Field]any, error) {
	changes := make(map[domain.Field]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%q is not field=value", pair)
		}
		f := domain.Field(name)
		if !f.Known() {
			return nil, fmt.Errorf("unknown field %q", name)
		}

		if f.Kind() == domain.KindBool {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("%s wants true or false, got %q", name, raw)
			}
			changes[f] = b
			continue
		}
		changes[f] = raw
	}
	return changes, nil
}

func defaultsAsChanges() map[domain.Field]any {
	defaults := domain.DefaultUserSettings()
	changes := make(map[domain.Field]any)
	for _, f := range domain.Fields() {
		changes[f] = defaults.Get(f)
	}
	return changes
}
