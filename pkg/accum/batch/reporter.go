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

package batch

import (
	"context"

	"github.com/matrixorigin/subscript/pkg/logutil/logutil2"
	"go.uber.org/zap"
)

// LogReporter writes every result to the global logger.
type LogReporter struct{}

var _ Reporter = LogReporter{}

func (LogReporter) Report(ctx context.Context, res Result) {
	fields := []zap.Field{
		zap.String("job", res.ID.String()),
		zap.String("name", res.Name),
		zap.Stringer("shape", res.Shape),
		zap.Int("applied", res.Applied),
		zap.Int32s("data", res.Data),
	}
	if res.Err != nil {
		logutil2.Error(ctx, "accumulate job failed", append(fields, zap.Error(res.Err))...)
		return
	}
	logutil2.Info(ctx, "accumulate job succeeded", fields...)
}
