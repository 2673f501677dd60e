// Copyright 2024 Matrix Origin
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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/matrixorigin/subscript/pkg/accum"
	"github.com/matrixorigin/subscript/pkg/accum/batch"
	"github.com/matrixorigin/subscript/pkg/common/moerr"
	"github.com/matrixorigin/subscript/pkg/common/util"
	"github.com/matrixorigin/subscript/pkg/config"
	"github.com/matrixorigin/subscript/pkg/logutil"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("cfg", "./subscript.toml", "toml configuration used to run subscript")
	version    = flag.Bool("version", false, "print version information")
)

// lengthOfDataPrinted bounds the data column of a result line.
const lengthOfDataPrinted = 64

func main() {
	flag.Parse()
	maybePrintVersion()

	cfg, err := config.LoadConfigFromFile(*configFile)
	if err != nil {
		panic(fmt.Sprintf("failed to parse config from %s, error: %s", *configFile, err.Error()))
	}
	setupLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()
	if err := run(ctx, cfg, os.Stdout); err != nil {
		logutil.Error("subscript failed", zap.Error(err))
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	logutil.SetupMOLogger(&cfg.Log)
}

// run executes every configured job and prints one line per result.  It
// returns an error if a job could not be built or any job failed.
func run(ctx context.Context, cfg *config.Config, w io.Writer) error {
	jobs, err := buildJobs(ctx, cfg.Jobs)
	if err != nil {
		return err
	}
	runner, err := batch.NewRunner(cfg.Batch.Workers, batch.LogReporter{})
	if err != nil {
		return err
	}
	defer runner.Close()

	logutil.Info("running accumulate jobs",
		zap.Int("jobs", len(jobs)),
		zap.Int("workers", cfg.Batch.Workers))
	var failed int
	for _, res := range runner.Run(ctx, jobs) {
		if res.Err != nil {
			failed++
		}
		fmt.Fprintln(w, formatResult(res))
	}
	if failed > 0 {
		return moerr.NewInternalError(ctx, "%d of %d jobs failed", failed, len(jobs))
	}
	return nil
}

func buildJobs(ctx context.Context, params []config.JobParameters) ([]batch.Job, error) {
	jobs := make([]batch.Job, 0, len(params))
	for i, p := range params {
		shape, err := batch.ParseShape(ctx, p.Shape)
		if err != nil {
			return nil, err
		}
		pairs := make([]accum.Pair, 0, len(p.Pairs))
		for _, ij := range p.Pairs {
			pairs = append(pairs, accum.Pair{I: ij[0], J: ij[1]})
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("job-%d", i)
		}
		jobs = append(jobs, batch.NewJob(name, shape, p.Data, pairs, p.Unchecked))
	}
	return jobs, nil
}

func formatResult(res batch.Result) string {
	status := "ok"
	if res.Err != nil {
		status = res.Err.Error()
	}
	data := util.Abbreviate(fmt.Sprint(res.Data), lengthOfDataPrinted)
	return fmt.Sprintf("%s\t%s\tapplied=%d\t%s\t%s", res.Name, res.Shape, res.Applied, data, status)
}
