// Copyright 2021 - 2022 Matrix Origin
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

package moerr

// MySQL error numbers carried by Error.MySQLCode, so callers that speak the
// mysql protocol can forward them unchanged.
const (
	ER_UNKNOWN_ERROR     uint16 = 1105
	ER_QUERY_INTERRUPTED uint16 = 1317
	ER_DATA_OUT_OF_RANGE uint16 = 1690
)
