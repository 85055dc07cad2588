/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"strings"
)

// Validation constants. MinRunTime is a floor, not zero, so that no animation
// call ever gets a degenerate duration.
const (
	MinRunTime      = 0.1
	DefaultRunTime  = 1.0
	DefaultDuration = 5.0
)

// Validate repairs an arbitrary, possibly partial project into a structurally
// valid one. It never fails: unknown object types and duplicate ids are
// dropped, dangling references are stripped, missing sections are filled with
// defaults. Upstream producers (patch application, reverse parse, hand-edited
// manifests) may all deliver partially invalid data, so the policy is repair,
// don't reject.
//
// Validate is idempotent: Validate(Validate(p)) == Validate(p).
func Validate(p Project) Project {
	out := p
	if out.Version <= 0 {
		out.Version = CurrentVersion
	}
	out.Settings = validateSettings(out.Settings)

	if len(p.Scenes) == 0 {
		out.Scenes = []Scene{{ID: "scene-1", Name: "Scene 1", Duration: DefaultDuration, Objects: []SceneObject{}}}
		return out
	}

	scenes := make([]Scene, 0, len(p.Scenes))
	for i, sc := range p.Scenes {
		scenes = append(scenes, validateScene(sc, i))
	}
	out.Scenes = scenes
	return out
}

func validateSettings(s RenderSettings) RenderSettings {
	if s.Width <= 0 {
		s.Width = 1920
	}
	if s.Height <= 0 {
		s.Height = 1080
	}
	if s.FrameRate <= 0 {
		s.FrameRate = 60
	}
	if hex, ok := ResolveColor(s.Background, Colors); ok {
		s.Background = hex
	} else {
		s.Background = "#000000"
	}
	return s
}

func validateScene(sc Scene, index int) Scene {
	if strings.TrimSpace(sc.ID) == "" {
		sc.ID = fmt.Sprintf("scene-%d", index+1)
	}
	if strings.TrimSpace(sc.Name) == "" {
		sc.Name = fmt.Sprintf("Scene %d", index+1)
	}
	if sc.Duration <= 0 {
		sc.Duration = DefaultDuration
	}

	// First pass: keep only known types and first occurrence of each id.
	seen := map[string]struct{}{}
	kept := make([]SceneObject, 0, len(sc.Objects))
	for _, o := range sc.Objects {
		if !KnownType(o.Type) {
			continue
		}
		if strings.TrimSpace(o.ID) == "" {
			continue
		}
		if _, dup := seen[o.ID]; dup {
			continue
		}
		seen[o.ID] = struct{}{}
		kept = append(kept, o)
	}

	// Second pass: per-object repair, with dangling transform references
	// stripped against the surviving id set.
	for i := range kept {
		kept[i] = validateObject(kept[i], seen)
	}
	sc.Objects = kept
	return sc
}

func validateObject(o SceneObject, ids map[string]struct{}) SceneObject {
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.RunTime <= 0 {
		o.RunTime = DefaultRunTime
	} else if o.RunTime < MinRunTime {
		o.RunTime = MinRunTime
	}
	if o.Opacity <= 0 || o.Opacity > 1 {
		o.Opacity = 1
	}
	if strings.TrimSpace(o.AnimationType) == "" {
		o.AnimationType = "auto"
	}
	if hex, ok := ResolveColor(o.FillColor, Colors); ok {
		o.FillColor = hex
	} else {
		o.FillColor = ""
	}
	if hex, ok := ResolveColor(o.StrokeColor, Colors); ok {
		o.StrokeColor = hex
	} else {
		o.StrokeColor = ""
	}
	if o.StrokeWidth < 0 {
		o.StrokeWidth = 0
	}

	if o.TransformFromID != "" {
		if _, ok := ids[o.TransformFromID]; !ok || o.TransformFromID == o.ID {
			// Dangling morph source: revert to a normal entrance.
			o.TransformFromID = ""
			o.TransformType = ""
		}
	}
	if o.TransformFromID != "" {
		// A morph target is logically replaced, never independently removed.
		o.ExitAnimationType = ""
	}

	if len(o.Keyframes) > 0 {
		kfs := make([]Keyframe, 0, len(o.Keyframes))
		for _, kf := range o.Keyframes {
			if kf.Time < 0 || strings.TrimSpace(kf.Property) == "" {
				continue
			}
			kfs = append(kfs, kf)
		}
		if len(kfs) == 0 {
			kfs = nil
		}
		o.Keyframes = kfs
	}
	return o
}
