/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"motionforge/internal/agent"
	"motionforge/internal/config"
	"motionforge/internal/crash"
	"motionforge/internal/domain"
	"motionforge/internal/emit"
	applog "motionforge/internal/log"
	"motionforge/internal/ops"
	"motionforge/internal/script"
	"motionforge/internal/storage"
	"motionforge/internal/telemetry"
	"motionforge/internal/version"
)

func usage() {
	fmt.Println("MotionForge — scene-timeline compiler")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  motionforge version|-v|--version          Show version")
	fmt.Println("  motionforge init <dir> <name>              Create a new project at <dir> with a scene named <name>")
	fmt.Println("  motionforge open <dir>                     Open project at <dir> and print summary")
	fmt.Println("  motionforge validate <dir>                 Check the manifest and report repairs normalization would make")
	fmt.Println("  motionforge compile <dir> [<sceneId>]      Emit engine scripts for all scenes (or one) into scripts/")
	fmt.Println("  motionforge parse <file>                   Reverse-parse a script file into patch operations (JSON)")
	fmt.Println("  motionforge apply <dir> <opsFile>          Apply patch operations from a JSON file and save")
	fmt.Println("  motionforge edit <dir> <prompt> [<sceneId>] Ask the agent for edits, apply them, and save")
	fmt.Println("  motionforge clean <dir> <sceneId>          Drop cached renders for a scene")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		telemetry.Flush(ctx)
	}()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("MotionForge — scene-timeline compiler")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			name := args[3]
			l.Info("init project", slog.String("root", abs), slog.String("name", name))
			p := domain.Project{
				Version: domain.CurrentVersion,
				Scenes:  []domain.Scene{{ID: "scene-1", Name: name, Objects: []domain.SceneObject{}}},
			}
			h, err := storage.InitProject(abs, p)
			if err != nil {
				fail(l, "init failed", err)
			}
			ph = h
			fmt.Println("Created project at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open project", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				fail(l, "open failed", err)
			}
			ph = h
			fmt.Println("Opened project at", h.Root)
			for _, sc := range h.Project.Scenes {
				fmt.Printf("  %s  %q  %.1fs  %d objects\n", sc.ID, sc.Name, sc.Duration, len(sc.Objects))
			}
			return
		case "validate":
			if len(args) < 3 {
				fmt.Println("validate requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			raw, err := os.ReadFile(filepath.Join(abs, storage.ManifestFileName))
			if err != nil {
				fail(l, "read manifest failed", err)
			}
			var p domain.Project
			if err := json.Unmarshal(raw, &p); err != nil {
				fail(l, "manifest is not valid JSON", err)
			}
			fixed := domain.Validate(p)
			before, _ := json.Marshal(p)
			after, _ := json.Marshal(fixed)
			if string(before) == string(after) {
				fmt.Printf("Manifest OK: %d scene(s)\n", len(fixed.Scenes))
			} else {
				fmt.Printf("Manifest needs repair: normalization changes it (%d scene(s) after repair)\n", len(fixed.Scenes))
				fmt.Println("Open and save the project to persist the repaired form.")
			}
			return
		case "compile":
			if len(args) < 3 {
				fmt.Println("compile requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			only := ""
			if len(args) >= 4 {
				only = args[3]
			}
			h, err := storage.Open(abs)
			if err != nil {
				fail(l, "open failed", err)
			}
			ph = h
			if err := compile(l, h, only); err != nil {
				fail(l, "compile failed", err)
			}
			return
		case "parse":
			if len(args) < 3 {
				fmt.Println("parse requires <file>")
				usage()
				os.Exit(2)
			}
			b, err := os.ReadFile(args[2])
			if err != nil {
				fail(l, "read script failed", err)
			}
			operations := script.Parse(string(b))
			telemetry.Event("parse", map[string]any{"operations": len(operations)})
			out, err := json.MarshalIndent(operations, "", "  ")
			if err != nil {
				fail(l, "encode operations failed", err)
			}
			fmt.Println(string(out))
			return
		case "apply":
			if len(args) < 4 {
				fmt.Println("apply requires <dir> and <opsFile>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				fail(l, "open failed", err)
			}
			ph = h
			b, err := os.ReadFile(args[3])
			if err != nil {
				fail(l, "read operations failed", err)
			}
			var operations []ops.Operation
			if err := json.Unmarshal(b, &operations); err != nil {
				fail(l, "decode operations failed", err)
			}
			res := ops.Apply(h.Project, operations, "")
			for _, w := range res.Warnings {
				l.Warn("operation skipped", slog.String("warning", w))
				fmt.Println("warning:", w)
			}
			h.Project = res.Project
			if err := storage.Save(h); err != nil {
				fail(l, "save failed", err)
			}
			telemetry.Event("apply", map[string]any{"operations": len(operations), "warnings": len(res.Warnings)})
			fmt.Printf("Applied %d operations (%d warnings).\n", len(operations), len(res.Warnings))
			return
		case "edit":
			if len(args) < 4 {
				fmt.Println("edit requires <dir> and <prompt>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			prompt := args[3]
			sceneID := ""
			if len(args) >= 5 {
				sceneID = args[4]
			}
			h, err := storage.Open(abs)
			if err != nil {
				fail(l, "open failed", err)
			}
			ph = h
			if err := editViaAgent(l, h, prompt, sceneID); err != nil {
				fail(l, "edit failed", err)
			}
			return
		case "clean":
			if len(args) < 4 {
				fmt.Println("clean requires <dir> and <sceneId>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			cache, err := storage.OpenRenderCache(abs)
			if err != nil {
				fail(l, "open render cache failed", err)
			}
			defer cache.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := cache.Invalidate(ctx, args[3]); err != nil {
				fail(l, "invalidate failed", err)
			}
			fmt.Println("Dropped cached renders for", args[3])
			return
		}
	}

	usage()
}

// compile emits every scene (or just one) concurrently and reports cached
// render status per scene.
func compile(l *slog.Logger, h *storage.ProjectHandle, only string) error {
	cfg, _, err := config.Load()
	if err != nil {
		return err
	}
	quality := cfg.Render.Quality

	cache, err := storage.OpenRenderCache(h.Root)
	if err != nil {
		return err
	}
	defer cache.Close()

	scenes := h.Project.Scenes
	if only != "" {
		sc := h.Project.SceneByID(only)
		if sc == nil {
			return fmt.Errorf("scene %q not found", only)
		}
		scenes = []domain.Scene{*sc}
	}

	// Emission is pure per scene, so scenes compile concurrently.
	type compiled struct {
		sceneID string
		path    string
		cached  bool
	}
	results := make([]compiled, len(scenes))
	var g errgroup.Group
	for i, sc := range scenes {
		g.Go(func() error {
			text := emit.Emit(h.Project, sc.ID)
			path, err := storage.WriteSceneScript(h, sc.ID, text)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, hit, err := cache.Lookup(ctx, storage.CacheKey(text, sc.ID, quality))
			if err != nil {
				return err
			}
			results[i] = compiled{sceneID: sc.ID, path: path, cached: hit}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	cached := 0
	for _, r := range results {
		status := "render needed"
		if r.cached {
			status = "render cached"
			cached++
		}
		l.Info("scene compiled", slog.String("scene", r.sceneID), slog.String("path", r.path))
		fmt.Printf("  %s -> %s (%s)\n", r.sceneID, r.path, status)
	}
	telemetry.Event("compile", map[string]any{"scenes": len(results), "cached": cached})
	return nil
}

func editViaAgent(l *slog.Logger, h *storage.ProjectHandle, prompt, sceneID string) error {
	cfg, token, err := config.Load()
	if err != nil {
		return err
	}
	timeout := time.Duration(cfg.Agent.TimeoutMs) * time.Millisecond
	c := agent.NewClient(cfg.Agent.BaseURL, token, timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
	defer cancel()
	operations, notes, err := c.RequestEdit(ctx, prompt, h.Project, sceneID)
	if err != nil {
		return err
	}
	l.Info("agent answered", slog.Int("operations", len(operations)))
	if notes != "" {
		fmt.Println("agent:", notes)
	}

	res := ops.Apply(h.Project, operations, sceneID)
	for _, w := range res.Warnings {
		l.Warn("operation skipped", slog.String("warning", w))
		fmt.Println("warning:", w)
	}
	h.Project = res.Project
	if err := storage.Save(h); err != nil {
		return err
	}
	telemetry.Event("apply", map[string]any{"operations": len(operations), "warnings": len(res.Warnings), "source": "agent"})
	fmt.Printf("Applied %d operations (%d warnings).\n", len(operations), len(res.Warnings))
	return nil
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}
