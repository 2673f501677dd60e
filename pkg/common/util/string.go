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

package util

import "unicode/utf8"

// Abbreviate keeps at most the first length bytes of s and marks the cut
// with "...".  The cut never splits a utf-8 sequence.  length -1 keeps the
// complete string, any other negative length yields "".
func Abbreviate(s string, length int) string {
	if length == 0 || length < -1 {
		return ""
	}
	if length == -1 || len(s) <= length {
		return s
	}
	cut := length
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
