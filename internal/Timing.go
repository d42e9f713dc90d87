/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package internal

import "time"

// Package-level accumulators mirroring the original's clock_during_rolz
// and clock_during_polar statics. Safe without synchronization because
// the block driver processes one block at a time on one goroutine.
var (
	rolzTime  time.Duration
	polarTime time.Duration
)

// AddROLZTime accumulates time spent in the ROLZ stage across the run.
func AddROLZTime(d time.Duration) {
	rolzTime += d
}

// AddPolarTime accumulates time spent in the Polar stage across the run.
func AddPolarTime(d time.Duration) {
	polarTime += d
}

// Timing is a point-in-time read of the accumulators.
type Timing struct {
	ROLZTime  time.Duration
	PolarTime time.Duration
}

// Snapshot returns the accumulators' current values.
func Snapshot() Timing {
	return Timing{ROLZTime: rolzTime, PolarTime: polarTime}
}

// ResetTiming zeroes the accumulators; called once at process start so
// repeated test runs within the same binary don't leak state.
func ResetTiming() {
	rolzTime = 0
	polarTime = 0
}
