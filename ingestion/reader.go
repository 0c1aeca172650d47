// Copyright 2026 Poiesic Systems
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


package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/textrag/core"
)

const textFileExt = ".txt"

// ReadTextFile reads a .txt file into a Document. The document title is
// derived from the file name.
func ReadTextFile(path string) (*core.Document, error) {
	if !strings.EqualFold(filepath.Ext(path), textFileExt) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotTextFile)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return core.NewDocument(filepath.Base(path), string(content)), nil
}

// ListTextFiles returns the paths of all .txt files directly inside dir,
// sorted by name. Subdirectories are not descended into.
func ListTextFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), textFileExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
