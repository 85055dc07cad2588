/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists MotionForge projects on disk. A project is a
// directory with a scene.json manifest at its root plus standard subfolders
// for generated scripts, rendered output, assets, and manifest backups.
// Saves are transactional (temp file + rename) and keep timestamped backups;
// opens fall back to the latest backup when the manifest is unreadable.
// A per-project SQLite database caches render results keyed by script hash.
package storage
