// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/matrixorigin/subscript/pkg/common/moerr"
	"github.com/matrixorigin/subscript/pkg/logutil"
)

const (
	ShapeArray  = "array"
	ShapeView   = "view"
	ShapeBuffer = "buffer"
)

var (
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Config of the subscript command.
type Config struct {
	Log logutil.LogConfig `toml:"log"`

	Batch BatchParameters `toml:"batch"`

	Jobs []JobParameters `toml:"jobs"`
}

// BatchParameters of the batch runner
type BatchParameters struct {
	//default is runtime.NumCPU(). the size of the goroutine pool running jobs
	Workers int `toml:"workers"`
}

// JobParameters describes one accumulate job
type JobParameters struct {
	Name string `toml:"name"`

	//one of array, view, buffer
	Shape string `toml:"shape"`

	//initial contents of the container
	Data []int32 `toml:"data"`

	//each pair is [i, j] and applies c[i] += c[j]
	Pairs [][]uint64 `toml:"pairs"`

	//default is false. validate all pairs once and take the unchecked path
	Unchecked bool `toml:"unchecked"`
}

// LoadConfigFromFile decodes the toml file, fills defaults and validates.
func LoadConfigFromFile(path string) (*Config, error) {
	ctx := context.Background()
	if fi, err := os.Stat(path); err != nil {
		return nil, moerr.NewBadConfig(ctx, "cannot stat %s: %v", path, err)
	} else if fi.IsDir() {
		return nil, moerr.NewBadConfig(ctx, "%s is a directory", path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, moerr.NewBadConfig(ctx, "decode %s: %v", path, err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills the zero valued fields.
func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
	if c.Batch.Workers == 0 {
		c.Batch.Workers = runtime.NumCPU()
	}
	for i := range c.Jobs {
		c.Jobs[i].Shape = strings.ToLower(strings.TrimSpace(c.Jobs[i].Shape))
		if c.Jobs[i].Shape == "" {
			c.Jobs[i].Shape = ShapeView
		}
	}
}

func (c *Config) Validate() error {
	ctx := context.Background()
	switch c.Log.Format {
	case "json", "console":
	default:
		return moerr.NewBadConfig(ctx, "log format %q", c.Log.Format)
	}
	if c.Batch.Workers < 0 {
		return moerr.NewBadConfig(ctx, "batch workers %d", c.Batch.Workers)
	}
	for i := range c.Jobs {
		if err := c.Jobs[i].validate(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

func (j *JobParameters) validate(ctx context.Context, idx int) error {
	switch j.Shape {
	case ShapeArray, ShapeView, ShapeBuffer:
	default:
		return moerr.NewBadConfig(ctx, "job %d: unknown shape %q", idx, j.Shape)
	}
	for k, p := range j.Pairs {
		if len(p) != 2 {
			return moerr.NewBadConfig(ctx, "job %d: pair %d needs 2 indices, got %d", idx, k, len(p))
		}
	}
	return nil
}
