// Copyright 2025 walteh LLC
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

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📚 Defaults holds optional per-user defaults loaded from a .kifork file.
// Every field may be empty; command-line flags always take precedence.
type Defaults struct {
	Tagline          string   `json:"tagline,omitempty" yaml:"tagline,omitempty" hcl:"tagline,optional"`
	ShortDescription string   `json:"short_description,omitempty" yaml:"short_description,omitempty" hcl:"short_description,optional"`
	ExtraExcludes    []string `json:"extra_excludes,omitempty" yaml:"extra_excludes,omitempty" hcl:"extra_excludes,optional"`
}

// 🎯 LoadDefaults loads a defaults file from the given path.
// The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// A missing file is not an error: the tool works without any defaults file.
func LoadDefaults(ctx context.Context, path string) (*Defaults, error) {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debug().Str("path", path).Msg("no defaults file, using built-in defaults")
		return nil, nil
	}
	if err != nil {
		return nil, errors.Errorf("reading defaults file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var def *Defaults

	switch ext {
	case ".json":
		def, err = parseJSON(data)
	case ".yaml", ".yml":
		def, err = parseYAML(data)
	case ".hcl":
		def, err = parseHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported defaults file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("path", path).Msg("loaded defaults file")
	return def, nil
}

// parseJSON loads defaults from JSON data
func parseJSON(data []byte) (*Defaults, error) {
	var def Defaults
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&def); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &def, nil
}

// parseYAML loads defaults from YAML data
func parseYAML(data []byte) (*Defaults, error) {
	var def Defaults
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &def, nil
}

// parseHCL loads defaults from HCL data
func parseHCL(data []byte, filename string) (*Defaults, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var def Defaults
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &def)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &def, nil
}
