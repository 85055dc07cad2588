/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey("script", "scene-1", "high")
	b := CacheKey("script", "scene-1", "high")
	if a != b {
		t.Fatal("same inputs must yield the same key")
	}
	if a == CacheKey("script'", "scene-1", "high") {
		t.Error("script change must change the key")
	}
	if a == CacheKey("script", "scene-2", "high") {
		t.Error("scene change must change the key")
	}
	if a == CacheKey("script", "scene-1", "low") {
		t.Error("quality change must change the key")
	}
}

func TestRenderCacheStoreLookup(t *testing.T) {
	root := t.TempDir()
	c, err := OpenRenderCache(root)
	if err != nil {
		t.Fatalf("OpenRenderCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	key := CacheKey("some script", "scene-1", "high")
	if _, ok, err := c.Lookup(ctx, key); err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	res := RenderResult{
		Key: key, SceneID: "scene-1", Quality: "high",
		OutputPath: "renders/scene-1.mp4", CreatedAt: time.Now().UTC(),
	}
	if err := c.Store(ctx, res); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok, err := c.Lookup(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Lookup after store: ok=%v err=%v", ok, err)
	}
	if got.OutputPath != res.OutputPath || got.SceneID != "scene-1" {
		t.Errorf("cached result wrong: %+v", got)
	}
}

func TestRenderCacheUpsert(t *testing.T) {
	root := t.TempDir()
	c, err := OpenRenderCache(root)
	if err != nil {
		t.Fatalf("OpenRenderCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	key := CacheKey("s", "scene-1", "low")
	for _, out := range []string{"a.mp4", "b.mp4"} {
		if err := c.Store(ctx, RenderResult{Key: key, SceneID: "scene-1", Quality: "low", OutputPath: out}); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}
	got, ok, err := c.Lookup(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}
	if got.OutputPath != "b.mp4" {
		t.Errorf("second store should win: %q", got.OutputPath)
	}
}

func TestRenderCacheInvalidateScene(t *testing.T) {
	root := t.TempDir()
	c, err := OpenRenderCache(root)
	if err != nil {
		t.Fatalf("OpenRenderCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	k1 := CacheKey("s1", "scene-1", "high")
	k2 := CacheKey("s2", "scene-2", "high")
	_ = c.Store(ctx, RenderResult{Key: k1, SceneID: "scene-1", Quality: "high", OutputPath: "1.mp4"})
	_ = c.Store(ctx, RenderResult{Key: k2, SceneID: "scene-2", Quality: "high", OutputPath: "2.mp4"})

	if err := c.Invalidate(ctx, "scene-1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := c.Lookup(ctx, k1); ok {
		t.Error("scene-1 entry should be gone")
	}
	if _, ok, _ := c.Lookup(ctx, k2); !ok {
		t.Error("scene-2 entry should survive")
	}
}

func TestRenderCachePersistsAcrossReopen(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	key := CacheKey("persist", "scene-1", "high")

	c, err := OpenRenderCache(root)
	if err != nil {
		t.Fatalf("OpenRenderCache: %v", err)
	}
	if err := c.Store(ctx, RenderResult{Key: key, SceneID: "scene-1", Quality: "high", OutputPath: "out.mp4"}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c2, err := OpenRenderCache(root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()
	if _, ok, err := c2.Lookup(ctx, key); err != nil || !ok {
		t.Fatalf("entry lost across reopen: ok=%v err=%v", ok, err)
	}

	if _, err := os.Stat(CachePath(root)); err != nil {
		t.Errorf("cache file missing: %v", err)
	}
}
